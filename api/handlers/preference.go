package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/config"
	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/models"
)

// NotificationPreferences exported for testing purposes
type NotificationPreferences struct {
	DB databases.NotificationPreferenceDatabase
}

// preferencePayload is the accepted request shape for saving preferences.
// Pointer fields distinguish "absent" from zero values; unknown fields are
// rejected at decode time.
type preferencePayload struct {
	UserID                   *string `json:"userId"`
	Enabled                  *bool   `json:"enabled"`
	FCMToken                 *string `json:"fcmToken"`
	NotificationTime         *string `json:"notificationTime"`
	Threshold                *int    `json:"threshold"`
	SoundEnabled             *bool   `json:"soundEnabled"`
	NotifyOnThresholdCrossed *bool   `json:"notifyOnThresholdCrossed"`
	NotifyOnImprovement      *bool   `json:"notifyOnImprovement"`
	NotifyOnWorsening        *bool   `json:"notifyOnWorsening"`
	DailySummary             *bool   `json:"dailySummary"`
}

func decodePreferencePayload(r *http.Request) (*preferencePayload, error) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var payload preferencePayload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.NotificationTime != nil {
		if _, _, err := models.ParseClock(*payload.NotificationTime); err != nil {
			return nil, err
		}
	}
	if payload.Threshold != nil && *payload.Threshold < 0 {
		return nil, errors.New("threshold must not be negative")
	}
	return &payload, nil
}

// setFields translates the provided payload fields into a $set document
func (p *preferencePayload) setFields() bson.M {
	set := bson.M{"updatedAt": time.Now()}
	if p.Enabled != nil {
		set["enabled"] = *p.Enabled
	}
	if p.FCMToken != nil {
		set["fcmToken"] = *p.FCMToken
	}
	if p.NotificationTime != nil {
		set["notificationTime"] = *p.NotificationTime
	}
	if p.Threshold != nil {
		set["threshold"] = *p.Threshold
	}
	if p.SoundEnabled != nil {
		set["soundEnabled"] = *p.SoundEnabled
	}
	if p.NotifyOnThresholdCrossed != nil {
		set["notifyOnThresholdCrossed"] = *p.NotifyOnThresholdCrossed
	}
	if p.NotifyOnImprovement != nil {
		set["notifyOnImprovement"] = *p.NotifyOnImprovement
	}
	if p.NotifyOnWorsening != nil {
		set["notifyOnWorsening"] = *p.NotifyOnWorsening
	}
	if p.DailySummary != nil {
		set["dailySummary"] = *p.DailySummary
	}
	return set
}

// toPreference builds a new preference record with the observed defaults for
// any fields the payload left unset
func (p *preferencePayload) toPreference(userID string, now time.Time) models.NotificationPreference {
	pref := models.NotificationPreference{
		UserID:                   userID,
		Enabled:                  true,
		NotificationTime:         "08:00",
		Threshold:                150,
		SoundEnabled:             true,
		NotifyOnThresholdCrossed: true,
		NotifyOnImprovement:      true,
		NotifyOnWorsening:        true,
		DailySummary:             true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if p.Enabled != nil {
		pref.Enabled = *p.Enabled
	}
	if p.FCMToken != nil {
		pref.FCMToken = *p.FCMToken
	}
	if p.NotificationTime != nil {
		pref.NotificationTime = *p.NotificationTime
	}
	if p.Threshold != nil {
		pref.Threshold = *p.Threshold
	}
	if p.SoundEnabled != nil {
		pref.SoundEnabled = *p.SoundEnabled
	}
	if p.NotifyOnThresholdCrossed != nil {
		pref.NotifyOnThresholdCrossed = *p.NotifyOnThresholdCrossed
	}
	if p.NotifyOnImprovement != nil {
		pref.NotifyOnImprovement = *p.NotifyOnImprovement
	}
	if p.NotifyOnWorsening != nil {
		pref.NotifyOnWorsening = *p.NotifyOnWorsening
	}
	if p.DailySummary != nil {
		pref.DailySummary = *p.DailySummary
	}
	return pref
}

// GetNotificationPreferencesHandler returns notification preferences for a given userId
func (np NotificationPreferences) GetNotificationPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, errors.New("missing userId query parameter"))
		return
	}

	zap.S().Debugf("userId: %v", userID)

	pref, err := np.DB.FindOne(context.Background(), bson.M{"userId": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("notification preferences not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(pref)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SaveNotificationPreferencesHandler creates notification preferences for a
// user, or updates them in place when a record already exists
func (np NotificationPreferences) SaveNotificationPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	payload, err := decodePreferencePayload(r)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if payload.UserID == nil || *payload.UserID == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, errors.New("missing userId field"))
		return
	}
	userID := *payload.UserID

	existing, err := np.DB.FindOne(context.Background(), bson.M{"userId": userID})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("failed to get notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	if existing != nil {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		updated, err := np.DB.FindOneAndUpdate(
			context.Background(),
			bson.M{"userId": userID},
			bson.M{"$set": payload.setFields()},
			opts,
		)
		if err != nil {
			config.ErrorStatus("failed to update notification preferences", http.StatusInternalServerError, w, err)
			return
		}
		b, err := json.Marshal(updated)
		if err != nil {
			config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(b)
		return
	}

	pref := payload.toPreference(userID, time.Now())
	if err := pref.Validate(); err != nil {
		config.ErrorStatus("invalid notification preferences", http.StatusBadRequest, w, err)
		return
	}

	res, err := np.DB.InsertOne(context.Background(), pref)
	if err != nil {
		config.ErrorStatus("failed to create notification preferences", http.StatusInternalServerError, w, err)
		return
	}
	if objectID, ok := res.Decode().(primitive.ObjectID); ok {
		pref.ID = objectID
	}

	b, err := json.Marshal(pref)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateNotificationPreferencesHandler applies a partial update to existing
// notification preferences, 404 when no record exists for the user
func (np NotificationPreferences) UpdateNotificationPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, errors.New("missing userId query parameter"))
		return
	}

	payload, err := decodePreferencePayload(r)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated, err := np.DB.FindOneAndUpdate(
		context.Background(),
		bson.M{"userId": userID},
		bson.M{"$set": payload.setFields()},
		opts,
	)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("notification preferences not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to update notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
