package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/airaware/airaware-api/models"
)

func testReading(aqi int) models.Reading {
	return models.Reading{
		AQI:       aqi,
		Category:  "Unhealthy",
		Timestamp: time.Date(2024, 11, 12, 8, 0, 0, 0, time.UTC),
	}
}

func TestComposeAlert(t *testing.T) {
	msg := Compose(models.CategoryAlert, testReading(180))

	assert.Equal(t, "⚠️ AQI Alert: 180 exceeds your threshold!", msg.Title)
	assert.Contains(t, msg.Body, "Current air quality is Unhealthy.")
	assert.Contains(t, msg.Body, "Everyone may begin to experience health effects")
	assert.Equal(t, notificationIcon, msg.Icon)
	assert.Equal(t, 180, msg.Data["aqi"])
	assert.Equal(t, "/aqi-details", msg.Data["url"])
	assert.NotContains(t, msg.Data, "isTest")
}

func TestComposeSummary(t *testing.T) {
	msg := Compose(models.CategorySummary, testReading(90))

	assert.Equal(t, "Daily AQI Summary: 90", msg.Title)
	assert.Contains(t, msg.Body, "Air quality is currently Moderate.")
	assert.Contains(t, msg.Body, "Air quality is acceptable")
}

func TestComposeIsPure(t *testing.T) {
	reading := testReading(250)

	assert.Equal(t, Compose(models.CategoryAlert, reading), Compose(models.CategoryAlert, reading))
}

func TestComposeTest(t *testing.T) {
	msg := ComposeTest(testReading(42))

	assert.Equal(t, "Test Notification: AQI 42", msg.Title)
	assert.Contains(t, msg.Body, "This is a test notification.")
	assert.Contains(t, msg.Body, "Good")
	assert.Equal(t, true, msg.Data["isTest"])
}
