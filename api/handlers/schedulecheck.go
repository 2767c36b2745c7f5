package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/airaware/airaware-api/api/scheduler"
	"github.com/airaware/airaware-api/config"
	"github.com/airaware/airaware-api/databases"
)

// ScheduleCheck exported for testing purposes
type ScheduleCheck struct {
	PrefDB   databases.NotificationPreferenceDatabase
	Readings scheduler.ReadingProvider
}

// ScheduleCheckHandler is a dry run of the notification tick: it reports how
// many enabled users currently fall inside their check window without sending
// anything
func (sc ScheduleCheck) ScheduleCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reading, err := sc.Readings.Current(r.Context())
	if err != nil {
		config.ErrorStatus("failed to fetch current reading", http.StatusInternalServerError, w, err)
		return
	}

	prefs, err := sc.PrefDB.Find(context.Background(), bson.M{"enabled": true})
	if err != nil {
		config.ErrorStatus("failed to list enabled preferences", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	usersToNotify := 0
	for _, pref := range prefs {
		if scheduler.WindowMatches(pref.NotificationTime, now) {
			usersToNotify++
		}
	}

	b, err := json.Marshal(map[string]interface{}{
		"success":       true,
		"message":       "Notification schedule checked",
		"currentAqi":    reading.AQI,
		"currentTime":   now.Format(time.RFC3339),
		"usersToNotify": usersToNotify,
		"totalUsers":    len(prefs),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
