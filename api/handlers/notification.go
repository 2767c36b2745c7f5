package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/models"
)

// Hub tracks the dashboard websocket connections (userId -> conn) and relays
// dispatched notifications to the owning user while they have the app open
type Hub struct {
	clients  map[string]*websocket.Conn
	mutex    sync.Mutex
	upgrader websocket.Upgrader
}

// NewHub creates an empty notification hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // cross-origin dashboard, CORS is enforced on the REST surface
			},
		},
	}
}

// ServeWS upgrades GET /ws/notifications?userId= to a websocket and registers
// the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	h.clients[userID] = conn
	h.mutex.Unlock()
	zap.S().Debugw("user connected to notification feed", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		zap.S().Debugw("user disconnected from notification feed", "userId", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// Notify relays a dispatched notification to the user's live connection, if
// any. Implements scheduler.Broadcaster.
func (h *Hub) Notify(userID string, entry models.NotificationHistory) {
	h.mutex.Lock()
	conn, exists := h.clients[userID]
	h.mutex.Unlock()

	if !exists {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": "new_notification",
		"data":  entry,
	})
	if err != nil {
		zap.S().Warnw("failed to relay notification over websocket", "userId", userID, "error", err)
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		conn.Close()
	}
}
