package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/airaware/airaware-api/config"
	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/models"
)

const defaultHistoryLimit = 10

// NotificationHistory exported for testing purposes
type NotificationHistory struct {
	DB databases.NotificationHistoryDatabase
}

// GetNotificationHistoryHandler returns the notification history for a user,
// newest first
func (nh NotificationHistory) GetNotificationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, errors.New("missing userId query parameter"))
		return
	}

	limit := int64(defaultHistoryLimit)
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.ParseInt(limitParam, 10, 64)
		if err != nil || parsed < 1 {
			config.ErrorStatus("invalid limit", http.StatusBadRequest, w, err)
			return
		}
		limit = parsed
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(limit)

	entries, err := nh.DB.Find(context.Background(), bson.M{"userId": userID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get notification history", http.StatusInternalServerError, w, err)
		return
	}
	if entries == nil {
		entries = []models.NotificationHistory{}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationReadHandler flips the read flag on a history entry. Marking
// an already-read entry again is a no-op success.
func (nh NotificationHistory) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	notificationID := r.URL.Query().Get("id")
	if notificationID == "" {
		config.ErrorStatus("id is required", http.StatusBadRequest, w, errors.New("missing id query parameter"))
		return
	}

	objectID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	res, err := nh.DB.UpdateOne(
		context.Background(),
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		config.ErrorStatus("failed to mark notification as read", http.StatusInternalServerError, w, err)
		return
	}
	// matched, not modified: a second mark on a read entry still succeeds
	if res.MatchedCount == 0 {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, errors.New("no history entry with that id"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success": true}`))
}
