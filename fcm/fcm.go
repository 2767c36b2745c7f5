// Package fcm sends push notifications through the FCM legacy HTTP API.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const fcmSendURL = "https://fcm.googleapis.com/fcm/send"

// Notification is the content of a single push message
type Notification struct {
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body,omitempty"`
	Icon  string                 `json:"icon,omitempty"`
	Sound string                 `json:"sound,omitempty"`
	Data  map[string]interface{} `json:"-"`
}

// Sender sends a notification to a single recipient token
type Sender interface {
	Send(ctx context.Context, token string, n Notification) error
}

// Client talks to the FCM legacy send endpoint
type Client struct {
	serverKey  string
	sendURL    string
	httpClient *http.Client
}

// NewClient returns an FCM client authenticated with the given server key
func NewClient(serverKey string) *Client {
	return &Client{
		serverKey:  serverKey,
		sendURL:    fcmSendURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	To           string                 `json:"to"`
	Notification Notification           `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// Send delivers one notification to one recipient token. A non-2xx response
// or a transport error (including timeout) is returned as an error carrying
// the FCM payload.
func (c *Client) Send(ctx context.Context, token string, n Notification) error {
	jsonData, err := json.Marshal(sendRequest{
		To:           token,
		Notification: n,
		Data:         n.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("key=%s", c.serverKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("fcm returned status %d: %s", resp.StatusCode, body)
	}

	zap.S().Debugw("push notification sent", "title", n.Title)
	return nil
}
