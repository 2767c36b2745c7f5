package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/airaware/airaware-api/api/scheduler"
	"github.com/airaware/airaware-api/config"
)

// Reading exported for testing purposes
type Reading struct {
	Readings scheduler.ReadingProvider
}

// CurrentReadingHandler returns the current reading snapshot the dashboard
// renders, served from the provider cache when fresh
func (rd Reading) CurrentReadingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reading, err := rd.Readings.Current(r.Context())
	if err != nil {
		config.ErrorStatus("failed to fetch current reading", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(reading)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
