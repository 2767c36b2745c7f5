package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/fcm"
	"github.com/airaware/airaware-api/models"
)

// DeliveryStatus classifies the outcome of a dispatch attempt
type DeliveryStatus int

const (
	// DeliveryFailed means the transport rejected the send
	DeliveryFailed DeliveryStatus = iota
	// DeliverySent means the push was accepted and history was written
	DeliverySent
	// DeliverySkipped means the user has no push token registered
	DeliverySkipped
	// DeliveryDeduped means a notification was already sent for this window
	DeliveryDeduped
)

// Broadcaster pushes a delivered notification to a live dashboard connection
type Broadcaster interface {
	Notify(userID string, entry models.NotificationHistory)
}

// Dispatcher sends composed notifications for a single user and records the
// attempt in the notification history.
type Dispatcher struct {
	Push fcm.Sender
	HDB  databases.NotificationHistoryDatabase
	Live Broadcaster // optional, may be nil
}

// Dispatch sends msg to the preference's token. An empty token is a skip, not
// an error. A non-empty windowKey dedupes against history so the same window
// never sends twice. Retries are the caller's concern; none happen here.
func (d *Dispatcher) Dispatch(ctx context.Context, pref models.NotificationPreference, msg Composed, category models.NotificationCategory, reading models.Reading, windowKey string, now time.Time) (DeliveryStatus, error) {
	if pref.FCMToken == "" {
		return DeliverySkipped, nil
	}

	if windowKey != "" {
		n, err := d.HDB.CountDocuments(ctx, bson.M{
			"userId":    pref.UserID,
			"category":  category,
			"windowKey": windowKey,
		})
		if err != nil {
			return DeliveryFailed, fmt.Errorf("failed to check dispatch window: %w", err)
		}
		if n > 0 {
			return DeliveryDeduped, nil
		}
	}

	sound := ""
	if pref.SoundEnabled {
		sound = "default"
	}

	err := d.Push.Send(ctx, pref.FCMToken, fcm.Notification{
		Title: msg.Title,
		Body:  msg.Body,
		Icon:  msg.Icon,
		Sound: sound,
		Data:  msg.Data,
	})
	if err != nil {
		return DeliveryFailed, fmt.Errorf("push send failed: %w", err)
	}

	entry := models.NotificationHistory{
		UserID:    pref.UserID,
		Title:     msg.Title,
		Body:      msg.Body,
		AQI:       reading.AQI,
		Category:  category,
		Read:      false,
		SentAt:    now,
		WindowKey: windowKey,
		CreatedAt: now,
	}
	if _, err := d.HDB.InsertOne(ctx, entry); err != nil {
		// the push already went out; retrying the write would risk a double
		// send on the next tick, so log and accept the missing history row
		zap.S().Errorw("failed to record notification history after successful push",
			"userId", pref.UserID,
			"error", err,
		)
		return DeliverySent, nil
	}

	if d.Live != nil {
		d.Live.Notify(pref.UserID, entry)
	}
	return DeliverySent, nil
}
