package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/airaware/airaware-api/models"
)

// windowTolerance is how far, in minutes, the current time may drift from the
// user's configured daily check time and still match.
const windowTolerance = 5

// Decision is the outcome of evaluating one preference against a reading
type Decision struct {
	Fire     bool
	Category models.NotificationCategory
}

// NoFire is the zero decision: nothing should be sent
var NoFire = Decision{}

// Evaluate decides whether a notification should fire for pref given the
// current reading and wall clock. It is pure: the same inputs always produce
// the same decision. A malformed notificationTime fails closed.
func Evaluate(pref models.NotificationPreference, reading models.Reading, now time.Time) Decision {
	if !pref.Enabled {
		return NoFire
	}

	hour, minute, err := models.ParseClock(pref.NotificationTime)
	if err != nil {
		zap.S().Warnw("preference has malformed notificationTime, skipping",
			"userId", pref.UserID,
			"notificationTime", pref.NotificationTime,
		)
		return NoFire
	}

	if !windowMatches(hour, minute, now) {
		return NoFire
	}

	if reading.AQI >= pref.Threshold && pref.NotifyOnThresholdCrossed {
		return Decision{Fire: true, Category: models.CategoryAlert}
	}
	if pref.DailySummary {
		return Decision{Fire: true, Category: models.CategorySummary}
	}
	return NoFire
}

// WindowMatches reports whether now falls inside the daily check window for a
// "HH:MM" notification time. Unparsable times never match.
func WindowMatches(notificationTime string, now time.Time) bool {
	hour, minute, err := models.ParseClock(notificationTime)
	if err != nil {
		return false
	}
	return windowMatches(hour, minute, now)
}

// windowMatches requires hour equality plus a minute distance of at most five.
// The window intentionally does not wrap across the hour boundary: "07:58"
// checked at 08:03 does not match. Stored preferences and their clients depend
// on this exact behavior.
func windowMatches(hour, minute int, now time.Time) bool {
	if now.Hour() != hour {
		return false
	}
	minuteDiff := now.Minute() - minute
	if minuteDiff < 0 {
		minuteDiff = -minuteDiff
	}
	return minuteDiff <= windowTolerance
}

// WindowKey buckets a dispatch attempt into the user's daily check window so
// overlapping ticks cannot double-send within the same window.
func WindowKey(pref models.NotificationPreference, now time.Time) string {
	return now.Format("2006-01-02") + "@" + pref.NotificationTime
}
