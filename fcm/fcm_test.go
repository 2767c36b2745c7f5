package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestSendSuccess(t *testing.T) {
	c := NewClient("server-key")
	httpmock.ActivateNonDefault(c.httpClient)
	defer httpmock.DeactivateAndReset()

	var captured sendRequest
	var authHeader string
	httpmock.RegisterResponder("POST", fcmSendURL, func(req *http.Request) (*http.Response, error) {
		authHeader = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			return nil, err
		}
		return httpmock.NewStringResponse(200, `{"success": 1}`), nil
	})

	err := c.Send(context.Background(), "device-token", Notification{
		Title: "Daily AQI Summary: 90",
		Body:  "Air quality is currently Moderate.",
		Icon:  "/icons/aqi-icon-192x192.png",
		Sound: "default",
		Data:  map[string]interface{}{"aqi": 90},
	})

	assert.NoError(t, err)
	assert.Equal(t, "key=server-key", authHeader)
	assert.Equal(t, "device-token", captured.To)
	assert.Equal(t, "Daily AQI Summary: 90", captured.Notification.Title)
	assert.Equal(t, "default", captured.Notification.Sound)
	assert.Equal(t, float64(90), captured.Data["aqi"])
}

func TestSendNon200(t *testing.T) {
	c := NewClient("server-key")
	httpmock.ActivateNonDefault(c.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", fcmSendURL,
		httpmock.NewStringResponder(401, `{"error": "InvalidServerKey"}`))

	err := c.Send(context.Background(), "device-token", Notification{Title: "t"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fcm returned status 401")
	assert.Contains(t, err.Error(), "InvalidServerKey")
}

func TestSendTransportError(t *testing.T) {
	c := NewClient("server-key")
	httpmock.ActivateNonDefault(c.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", fcmSendURL,
		httpmock.NewErrorResponder(assert.AnError))

	err := c.Send(context.Background(), "device-token", Notification{Title: "t"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send push request")
}
