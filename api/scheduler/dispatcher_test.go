package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/airaware/airaware-api/databases/mocks"
	"github.com/airaware/airaware-api/fcm"
	"github.com/airaware/airaware-api/models"
)

type sentPush struct {
	token string
	note  fcm.Notification
}

// stubSender records push sends and fails for tokens listed in failFor
type stubSender struct {
	sent    []sentPush
	failFor map[string]error
}

func (s *stubSender) Send(_ context.Context, token string, n fcm.Notification) error {
	if err, ok := s.failFor[token]; ok {
		return err
	}
	s.sent = append(s.sent, sentPush{token: token, note: n})
	return nil
}

func dispatchTime() time.Time {
	return time.Date(2024, 11, 12, 8, 2, 0, 0, time.UTC)
}

func TestDispatchSkipsWithoutToken(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	pref := basePreference()
	pref.FCMToken = ""

	status, err := d.Dispatch(context.Background(), pref, Compose(models.CategoryAlert, testReading(180)), models.CategoryAlert, testReading(180), "2024-11-12@08:00", dispatchTime())

	assert.NoError(t, err)
	assert.Equal(t, DeliverySkipped, status)
	assert.Empty(t, sender.sent)
	hist.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	hist.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}

func TestDispatchSendsAndRecordsHistory(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	hist.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	pref := basePreference()
	pref.SoundEnabled = true
	reading := testReading(180)
	msg := Compose(models.CategoryAlert, reading)

	status, err := d.Dispatch(context.Background(), pref, msg, models.CategoryAlert, reading, "2024-11-12@08:00", dispatchTime())

	assert.NoError(t, err)
	assert.Equal(t, DeliverySent, status)
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, "tok1", sender.sent[0].token)
	assert.Equal(t, msg.Title, sender.sent[0].note.Title)
	assert.Equal(t, "default", sender.sent[0].note.Sound)

	hist.AssertCalled(t, "InsertOne", mock.Anything, mock.MatchedBy(func(e models.NotificationHistory) bool {
		return e.UserID == "user1" &&
			e.Category == models.CategoryAlert &&
			e.AQI == 180 &&
			!e.Read &&
			e.WindowKey == "2024-11-12@08:00" &&
			e.SentAt.Equal(dispatchTime())
	}))
}

func TestDispatchSoundDisabled(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	hist.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	pref := basePreference()
	pref.SoundEnabled = false

	_, err := d.Dispatch(context.Background(), pref, ComposeTest(testReading(90)), models.CategorySummary, testReading(90), "", dispatchTime())

	assert.NoError(t, err)
	assert.Equal(t, "", sender.sent[0].note.Sound)
}

func TestDispatchDedupesWithinWindow(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	status, err := d.Dispatch(context.Background(), basePreference(), Compose(models.CategoryAlert, testReading(180)), models.CategoryAlert, testReading(180), "2024-11-12@08:00", dispatchTime())

	assert.NoError(t, err)
	assert.Equal(t, DeliveryDeduped, status)
	assert.Empty(t, sender.sent)
	hist.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestDispatchEmptyWindowKeySkipsDedup(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	status, err := d.Dispatch(context.Background(), basePreference(), ComposeTest(testReading(90)), models.CategorySummary, testReading(90), "", dispatchTime())

	assert.NoError(t, err)
	assert.Equal(t, DeliverySent, status)
	hist.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}

func TestDispatchTransportFailure(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	sender := &stubSender{failFor: map[string]error{"tok1": errors.New("fcm returned status 401")}}
	d := &Dispatcher{Push: sender, HDB: hist}

	status, err := d.Dispatch(context.Background(), basePreference(), Compose(models.CategoryAlert, testReading(180)), models.CategoryAlert, testReading(180), "2024-11-12@08:00", dispatchTime())

	assert.Error(t, err)
	assert.Equal(t, DeliveryFailed, status)
	// no history row for a push that never went out
	hist.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestDispatchHistoryWriteFailureStillSent(t *testing.T) {
	hist := &mocks.NotificationHistoryDatabase{}
	hist.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	hist.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("store unavailable"))

	sender := &stubSender{}
	d := &Dispatcher{Push: sender, HDB: hist}

	status, err := d.Dispatch(context.Background(), basePreference(), Compose(models.CategoryAlert, testReading(180)), models.CategoryAlert, testReading(180), "2024-11-12@08:00", dispatchTime())

	// the push was delivered, the missing history row is logged and accepted
	assert.NoError(t, err)
	assert.Equal(t, DeliverySent, status)
	assert.Len(t, sender.sent, 1)
}
