package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/airaware/airaware-api/api/handlers"
	"github.com/airaware/airaware-api/databases/mocks"
	"github.com/airaware/airaware-api/models"
)

func storedPreference() *models.NotificationPreference {
	return &models.NotificationPreference{
		ID:                       primitive.NewObjectID(),
		UserID:                   "user1",
		Enabled:                  true,
		FCMToken:                 "tok1",
		NotificationTime:         "08:00",
		Threshold:                150,
		SoundEnabled:             true,
		NotifyOnThresholdCrossed: true,
		DailySummary:             true,
	}
}

func TestGetNotificationPreferencesMissingUserID(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/notifications/preferences", nil)

	p := handlers.NotificationPreferences{DB: &mocks.NotificationPreferenceDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.GetNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "userId is required")
}

func TestGetNotificationPreferencesNotFound(t *testing.T) {
	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	req, _ := http.NewRequest("GET", "/api/v1/notifications/preferences?userId=user1", nil)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.GetNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "notification preferences not found")
}

func TestGetNotificationPreferencesSuccess(t *testing.T) {
	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(storedPreference(), nil)

	req, _ := http.NewRequest("GET", "/api/v1/notifications/preferences?userId=user1", nil)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.GetNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"userId":"user1"`)
	assert.Contains(t, rr.Body.String(), `"notificationTime":"08:00"`)
}

func TestSaveNotificationPreferencesCreatesWithDefaults(t *testing.T) {
	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(primitive.NewObjectID())

	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	db.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	body := strings.NewReader(`{"userId": "user1", "fcmToken": "tok1"}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"threshold":150`)
	assert.Contains(t, rr.Body.String(), `"notificationTime":"08:00"`)
	assert.Contains(t, rr.Body.String(), `"enabled":true`)

	db.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(pref models.NotificationPreference) bool {
		return pref.UserID == "user1" && pref.FCMToken == "tok1" && pref.SoundEnabled
	}))
}

func TestSaveNotificationPreferencesUpdatesExisting(t *testing.T) {
	updated := storedPreference()
	updated.Threshold = 100

	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(storedPreference(), nil)
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(updated, nil)

	body := strings.NewReader(`{"userId": "user1", "threshold": 100}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"threshold":100`)
	db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestSaveNotificationPreferencesMissingUserID(t *testing.T) {
	body := strings.NewReader(`{"threshold": 100}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: &mocks.NotificationPreferenceDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "userId is required")
}

func TestSaveNotificationPreferencesRejectsUnknownField(t *testing.T) {
	body := strings.NewReader(`{"userId": "user1", "bogus": true}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: &mocks.NotificationPreferenceDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to decode request")
}

func TestSaveNotificationPreferencesRejectsMalformedTime(t *testing.T) {
	body := strings.NewReader(`{"userId": "user1", "notificationTime": "9am"}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: &mocks.NotificationPreferenceDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSaveNotificationPreferencesRejectsNegativeThreshold(t *testing.T) {
	body := strings.NewReader(`{"userId": "user1", "threshold": -5}`)
	req, _ := http.NewRequest("POST", "/api/v1/notifications/preferences", body)

	p := handlers.NotificationPreferences{DB: &mocks.NotificationPreferenceDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.SaveNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateNotificationPreferencesNotFound(t *testing.T) {
	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	body := strings.NewReader(`{"threshold": 100}`)
	req, _ := http.NewRequest("PUT", "/api/v1/notifications/preferences?userId=ghost", body)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "notification preferences not found")
}

func TestUpdateNotificationPreferencesSuccess(t *testing.T) {
	updated := storedPreference()
	updated.Enabled = false

	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(updated, nil)

	body := strings.NewReader(`{"enabled": false}`)
	req, _ := http.NewRequest("PUT", "/api/v1/notifications/preferences?userId=user1", body)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"enabled":false`)
}

func TestUpdateNotificationPreferencesDatabaseError(t *testing.T) {
	db := &mocks.NotificationPreferenceDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	body := strings.NewReader(`{"enabled": false}`)
	req, _ := http.NewRequest("PUT", "/api/v1/notifications/preferences?userId=user1", body)

	p := handlers.NotificationPreferences{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateNotificationPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "mocked-error")
}
