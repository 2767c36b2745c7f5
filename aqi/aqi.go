// Package aqi fetches the current air quality reading from a WAQI style feed
// API and provides the category and health recommendation lookups used when
// composing notifications.
package aqi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/models"
)

const (
	defaultFeedURL = "https://api.waqi.info/feed/delhi/"

	cacheKey = "current-reading"
	cacheTTL = 5 * time.Minute
)

// Provider fetches reading snapshots over HTTP. Responses are cached so a
// scheduler tick performs at most one upstream call.
type Provider struct {
	feedURL    string
	token      string
	httpClient *http.Client
	cache      *cache.Cache
}

// NewProvider returns a reading provider for the given feed URL and API token.
// An empty feedURL falls back to the Delhi feed the dashboard monitors.
func NewProvider(feedURL, token string) *Provider {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	return &Provider{
		feedURL:    feedURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

// feedResponse is the subset of the WAQI feed payload this service consumes
type feedResponse struct {
	Status string `json:"status"`
	Data   struct {
		AQI         int    `json:"aqi"`
		DominentPol string `json:"dominentpol"`
		City        struct {
			Name string `json:"name"`
		} `json:"city"`
		Time struct {
			ISO string `json:"iso"`
		} `json:"time"`
	} `json:"data"`
}

// Current returns the current reading snapshot, served from cache when fresh
func (p *Provider) Current(ctx context.Context) (models.Reading, error) {
	if cached, found := p.cache.Get(cacheKey); found {
		return cached.(models.Reading), nil
	}

	url := p.feedURL
	if p.token != "" {
		url = fmt.Sprintf("%s?token=%s", p.feedURL, p.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Reading{}, fmt.Errorf("failed to create reading request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.Reading{}, fmt.Errorf("failed to fetch reading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Reading{}, fmt.Errorf("feed API returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return models.Reading{}, fmt.Errorf("failed to decode feed response: %w", err)
	}
	if feed.Status != "ok" {
		return models.Reading{}, fmt.Errorf("feed API returned status %q", feed.Status)
	}

	reading := models.Reading{
		AQI:              feed.Data.AQI,
		Category:         Category(feed.Data.AQI).Label,
		PrimaryPollutant: feed.Data.DominentPol,
		Location:         feed.Data.City.Name,
		Timestamp:        time.Now(),
	}
	if ts, err := time.Parse(time.RFC3339, feed.Data.Time.ISO); err == nil {
		reading.Timestamp = ts
	} else {
		zap.S().Debugw("feed timestamp unparsable, using wall clock", "iso", feed.Data.Time.ISO)
	}

	p.cache.Set(cacheKey, reading, cache.DefaultExpiration)
	return reading, nil
}
