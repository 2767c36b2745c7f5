package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/airaware/airaware-api/api/scheduler"
	"github.com/airaware/airaware-api/config"
	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/models"
)

// TestNotification exported for testing purposes
type TestNotification struct {
	PrefDB     databases.NotificationPreferenceDatabase
	Readings   scheduler.ReadingProvider
	Dispatcher *scheduler.Dispatcher
}

// TestNotificationHandler sends a test notification to the user's registered
// device and reports the outcome synchronously
func (tn TestNotification) TestNotificationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, errors.New("missing userId query parameter"))
		return
	}

	pref, err := tn.PrefDB.FindOne(context.Background(), bson.M{"userId": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("notification preferences not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	reading, err := tn.Readings.Current(r.Context())
	if err != nil {
		config.ErrorStatus("failed to fetch current reading", http.StatusInternalServerError, w, err)
		return
	}

	msg := scheduler.ComposeTest(reading)

	// test sends bypass the window dedup, an empty windowKey is never deduped
	status, err := tn.Dispatcher.Dispatch(r.Context(), *pref, msg, models.CategorySummary, reading, "", time.Now())
	if err != nil {
		config.ErrorStatus("failed to send test notification", http.StatusInternalServerError, w, err)
		return
	}
	if status == scheduler.DeliverySkipped {
		config.ErrorStatus("no push token registered", http.StatusBadRequest, w, errors.New("preference has no fcmToken"))
		return
	}

	b, err := json.Marshal(map[string]interface{}{
		"success": true,
		"notification": map[string]string{
			"title": msg.Title,
			"body":  msg.Body,
		},
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
