package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// SSEClient is one server-sent events subscriber
type SSEClient struct {
	ID      string
	UserID  uint
	Channel chan []byte
}

// SSEHub manages event-stream subscribers served from the main API
type SSEHub struct {
	mu      sync.RWMutex
	clients map[string]*SSEClient
	log     *zap.Logger
}

// NewSSEHub creates a new SSE hub
func NewSSEHub(log *zap.Logger) *SSEHub {
	return &SSEHub{
		clients: make(map[string]*SSEClient),
		log:     log,
	}
}

// Register adds a new SSE client
func (h *SSEHub) Register(client *SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.log.Debug("📡 SSE client registered",
		zap.String("client_id", client.ID),
		zap.Uint("user_id", client.UserID),
		zap.Int("total", len(h.clients)),
	)
}

// Unregister removes an SSE client and closes its channel
func (h *SSEHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		h.log.Debug("📡 SSE client unregistered", zap.String("client_id", clientID), zap.Int("total", len(h.clients)))
	}
}

// Broadcast sends the payload to every client. A client whose channel is
// full misses the event but stays connected.
func (h *SSEHub) Broadcast(payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		select {
		case client.Channel <- payload:
			sent++
		default:
			h.log.Warn("⚠️ SSE channel full, skipping", zap.String("client_id", client.ID))
		}
	}
	return sent
}

// Count returns the number of connected clients
func (h *SSEHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
