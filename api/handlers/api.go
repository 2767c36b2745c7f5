package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/api/scheduler"
	"github.com/airaware/airaware-api/aqi"
	"github.com/airaware/airaware-api/config"
	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/fcm"
	"github.com/airaware/airaware-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	prefDB := databases.NewNotificationPreferenceDatabase(a.dbHelper)
	historyDB := databases.NewNotificationHistoryDatabase(a.dbHelper)
	lockDB := databases.NewSchedulerLockDatabase(a.dbHelper)

	readings := aqi.NewProvider(a.Config.AQIFeedURL, a.Config.AQIToken)
	push := fcm.NewClient(a.Config.FCMServerKey)
	hub := NewHub()

	dispatcher := &scheduler.Dispatcher{Push: push, HDB: historyDB, Live: hub}
	a.scheduler = scheduler.NewScheduler(prefDB, lockDB, readings, dispatcher)

	p := NotificationPreferences{DB: prefDB}
	h := NotificationHistory{DB: historyDB}
	tn := TestNotification{PrefDB: prefDB, Readings: readings, Dispatcher: dispatcher}
	sc := ScheduleCheck{PrefDB: prefDB, Readings: readings}
	rd := Reading{Readings: readings}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.HandleFunc("/notifications/preferences", p.GetNotificationPreferencesHandler).Methods("GET")
	apiCreate.HandleFunc("/notifications/preferences", p.SaveNotificationPreferencesHandler).Methods("POST")
	apiCreate.HandleFunc("/notifications/preferences", p.UpdateNotificationPreferencesHandler).Methods("PUT")
	apiCreate.HandleFunc("/notifications/history", h.GetNotificationHistoryHandler).Methods("GET")
	apiCreate.HandleFunc("/notifications/history", h.MarkNotificationReadHandler).Methods("PATCH")
	apiCreate.HandleFunc("/notifications/test", tn.TestNotificationHandler).Methods("POST")
	apiCreate.HandleFunc("/notifications/schedule-check", sc.ScheduleCheckHandler).Methods("GET")
	apiCreate.HandleFunc("/readings/current", rd.CurrentReadingHandler).Methods("GET")

	r.HandleFunc("/ws/notifications", hub.ServeWS)

	return r
}

// Initialize is invoked by main to connect with the database, create the
// router and start the notification scheduler
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("airaware-api has connected to the database")

	a.Router = a.New()
	a.scheduler.Start()
	return nil
}

// Shutdown stops the notification scheduler
func (a *App) Shutdown() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
