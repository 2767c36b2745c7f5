package scheduler

import (
	"fmt"
	"time"

	"github.com/airaware/airaware-api/aqi"
	"github.com/airaware/airaware-api/models"
)

const notificationIcon = "/icons/aqi-icon-192x192.png"

// Composed is a rendered notification ready for dispatch
type Composed struct {
	Title string
	Body  string
	Icon  string
	Data  map[string]interface{}
}

// Compose renders the title, body, icon and data payload for a notification
// of the given category. It is pure.
func Compose(category models.NotificationCategory, reading models.Reading) Composed {
	level := aqi.Category(reading.AQI)
	recs := aqi.HealthRecommendations(reading.AQI)

	c := Composed{
		Icon: notificationIcon,
		Data: payload(reading, level, false),
	}

	switch category {
	case models.CategoryAlert:
		c.Title = fmt.Sprintf("⚠️ AQI Alert: %d exceeds your threshold!", reading.AQI)
		c.Body = fmt.Sprintf("Current air quality is %s. %s", level.Label, recs[0])
	default:
		// summary; the reserved trend categories share this shape until a
		// trend comparison exists
		c.Title = fmt.Sprintf("Daily AQI Summary: %d", reading.AQI)
		c.Body = fmt.Sprintf("Air quality is currently %s. %s", level.Label, recs[0])
	}
	return c
}

// ComposeTest renders the synchronous test notification variant
func ComposeTest(reading models.Reading) Composed {
	level := aqi.Category(reading.AQI)
	recs := aqi.HealthRecommendations(reading.AQI)

	return Composed{
		Title: fmt.Sprintf("Test Notification: AQI %d", reading.AQI),
		Body:  fmt.Sprintf("This is a test notification. Current air quality is %s. %s", level.Label, recs[0]),
		Icon:  notificationIcon,
		Data:  payload(reading, level, true),
	}
}

func payload(reading models.Reading, level aqi.Level, isTest bool) map[string]interface{} {
	data := map[string]interface{}{
		"aqi":       reading.AQI,
		"category":  level.Label,
		"color":     level.Color,
		"url":       "/aqi-details",
		"timestamp": reading.Timestamp.Format(time.RFC3339),
	}
	if isTest {
		data["isTest"] = true
	}
	return data
}
