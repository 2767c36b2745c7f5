package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/airaware/airaware-api/api/handlers"
	"github.com/airaware/airaware-api/models"
)

func TestCurrentReadingSuccess(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/readings/current", nil)

	rd := handlers.Reading{
		Readings: &stubReadings{reading: models.Reading{
			AQI:              163,
			Category:         "Unhealthy",
			PrimaryPollutant: "pm25",
			Location:         "Delhi",
			Timestamp:        time.Date(2024, 11, 12, 8, 0, 0, 0, time.UTC),
		}},
	}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rd.CurrentReadingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"aqi":163`)
	assert.Contains(t, rr.Body.String(), `"primaryPollutant":"pm25"`)
}

func TestCurrentReadingUnavailable(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/readings/current", nil)

	rd := handlers.Reading{Readings: &stubReadings{err: errors.New("feed status: error")}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(rd.CurrentReadingHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
