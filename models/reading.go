package models

import "time"

// Reading is a point in time snapshot of the air quality at a location
type Reading struct {
	AQI              int       `json:"aqi"`
	Category         string    `json:"category"`
	PrimaryPollutant string    `json:"primaryPollutant,omitempty"`
	Location         string    `json:"location,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
