package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/databases"
	"github.com/airaware/airaware-api/models"
)

const tickLockName = "notification_tick"

// ReadingProvider supplies the current reading snapshot for a tick
type ReadingProvider interface {
	Current(ctx context.Context) (models.Reading, error)
}

// Scheduler drives the periodic notification checks
type Scheduler struct {
	cron       *cron.Cron
	PrefDB     databases.NotificationPreferenceDatabase
	LockDB     databases.SchedulerLockDatabase
	Readings   ReadingProvider
	Dispatcher *Dispatcher
	instanceID string
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	prefDB databases.NotificationPreferenceDatabase,
	lockDB databases.SchedulerLockDatabase,
	readings ReadingProvider,
	dispatcher *Dispatcher,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%s", uuid.NewString())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		PrefDB:     prefDB,
		LockDB:     lockDB,
		Readings:   readings,
		Dispatcher: dispatcher,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Check notification windows every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.runNotificationTick)
	if err != nil {
		zap.S().Errorw("failed to register notification tick job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Notification scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Notification scheduler stopped")
}

// TickError records a per-user failure inside a tick
type TickError struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

// TickReport summarizes one scheduler tick
type TickReport struct {
	Considered int         `json:"considered"`
	Fired      int         `json:"fired"`
	Skipped    int         `json:"skipped"`
	Deduped    int         `json:"deduped"`
	Errored    int         `json:"errored"`
	Errors     []TickError `json:"errors,omitempty"`
}

// runNotificationTick is the cron entry point. It serializes ticks through the
// distributed lock, skip-if-busy, so overlapping invocations never race.
func (s *Scheduler) runNotificationTick() {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, tickLockName, s.instanceID, 5*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for notification tick", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Notification tick already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, tickLockName, s.instanceID)

	report, err := s.RunTick(ctx)
	if err != nil {
		// tick-level failure, distinct from the per-user errors in the report
		zap.S().Errorw("notification tick aborted", "error", err, "instance", s.instanceID)
		return
	}

	zap.S().Infow("Notification tick complete",
		"instance", s.instanceID,
		"considered", report.Considered,
		"fired", report.Fired,
		"skipped", report.Skipped,
		"deduped", report.Deduped,
		"errored", report.Errored,
	)
}

// RunTick fetches the reading once, lists enabled preferences and evaluates
// each independently. A failure for one user is recorded in the report and
// never aborts the remaining users.
func (s *Scheduler) RunTick(ctx context.Context) (TickReport, error) {
	reading, err := s.Readings.Current(ctx)
	if err != nil {
		return TickReport{}, fmt.Errorf("failed to fetch current reading: %w", err)
	}

	prefs, err := s.PrefDB.Find(ctx, bson.M{"enabled": true})
	if err != nil {
		return TickReport{}, fmt.Errorf("failed to list enabled preferences: %w", err)
	}

	now := s.now()
	report := TickReport{Considered: len(prefs)}

	for _, pref := range prefs {
		decision := Evaluate(pref, reading, now)
		if !decision.Fire {
			continue
		}

		msg := Compose(decision.Category, reading)
		status, err := s.Dispatcher.Dispatch(ctx, pref, msg, decision.Category, reading, WindowKey(pref, now), now)
		if err != nil {
			report.Errored++
			report.Errors = append(report.Errors, TickError{UserID: pref.UserID, Error: err.Error()})
			zap.S().Errorw("failed to dispatch notification", "userId", pref.UserID, "error", err)
			continue
		}

		switch status {
		case DeliverySent:
			report.Fired++
		case DeliverySkipped:
			report.Skipped++
		case DeliveryDeduped:
			report.Deduped++
		}
	}

	return report, nil
}
