package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationCategory is the closed tag set for notification history entries
type NotificationCategory string

// The four permitted notification categories. Improvement and worsening are
// reserved for a future trend comparison and are never produced by the
// evaluator today.
const (
	CategoryAlert       NotificationCategory = "alert"
	CategoryImprovement NotificationCategory = "improvement"
	CategoryWorsening   NotificationCategory = "worsening"
	CategorySummary     NotificationCategory = "summary"
)

// Valid reports whether c is one of the permitted categories
func (c NotificationCategory) Valid() bool {
	switch c {
	case CategoryAlert, CategoryImprovement, CategoryWorsening, CategorySummary:
		return true
	}
	return false
}

// NotificationPreference holds the structure for the notification_preferences
// collection in mongo. One record per user, upsert semantics.
type NotificationPreference struct {
	ID                       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID                   string             `json:"userId" bson:"userId"`
	Enabled                  bool               `json:"enabled" bson:"enabled"`
	FCMToken                 string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	NotificationTime         string             `json:"notificationTime" bson:"notificationTime"` // "HH:MM"
	Threshold                int                `json:"threshold" bson:"threshold"`
	SoundEnabled             bool               `json:"soundEnabled" bson:"soundEnabled"`
	NotifyOnThresholdCrossed bool               `json:"notifyOnThresholdCrossed" bson:"notifyOnThresholdCrossed"`
	NotifyOnImprovement      bool               `json:"notifyOnImprovement" bson:"notifyOnImprovement"`
	NotifyOnWorsening        bool               `json:"notifyOnWorsening" bson:"notifyOnWorsening"`
	DailySummary             bool               `json:"dailySummary" bson:"dailySummary"`
	CreatedAt                time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt                time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Validate rejects preference documents that do not fit the closed record
// shape before they reach the store
func (p *NotificationPreference) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if p.NotificationTime != "" {
		if _, _, err := ParseClock(p.NotificationTime); err != nil {
			return fmt.Errorf("notificationTime %q is not HH:MM: %w", p.NotificationTime, err)
		}
	}
	if p.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative")
	}
	return nil
}

// ParseClock parses a wall clock value in "HH:MM" form
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// NotificationHistory holds the structure for the notification_history
// collection in mongo. Entries are append only, the read flag is the single
// permitted mutation.
type NotificationHistory struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	UserID    string               `json:"userId" bson:"userId"`
	Title     string               `json:"title" bson:"title"`
	Body      string               `json:"body" bson:"body"`
	AQI       int                  `json:"aqi" bson:"aqi"`
	Category  NotificationCategory `json:"category" bson:"category"`
	Read      bool                 `json:"read" bson:"read"`
	SentAt    time.Time            `json:"sentAt" bson:"sentAt"`
	WindowKey string               `json:"-" bson:"windowKey,omitempty"` // dedup key: date + scheduled time
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}
