// Package realtime pushes donation events to live map subscribers over WebSocket.
package realtime

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// client is one connected subscriber
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub manages all WebSocket subscribers
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub creates a new hub. allowedOrigins is a comma separated list, "*" allows any origin.
func NewHub(allowedOrigins string, log *zap.Logger) *Hub {
	h := &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed string) func(r *http.Request) bool {
	if strings.TrimSpace(allowed) == "*" || allowed == "" {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool)
	for _, o := range strings.Split(allowed, ",") {
		set[strings.TrimSpace(o)] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWS upgrades the request and subscribes the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("⚠️ WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	h.log.Debug("📡 Subscriber connected", zap.String("client_id", c.id), zap.Int("total", len(h.clients)))
}

// unregister removes the client and closes its queue; safe to call twice
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.send)
		delete(h.clients, id)
		h.log.Debug("📡 Subscriber disconnected", zap.String("client_id", id), zap.Int("total", len(h.clients)))
	}
}

// Broadcast queues the payload for every subscriber and returns how many
// accepted it. Subscribers whose queue is full are dropped.
func (h *Hub) Broadcast(payload []byte) int {
	var slow []string

	h.mu.RLock()
	sent := 0
	for id, c := range h.clients {
		select {
		case c.send <- payload:
			sent++
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.log.Warn("⚠️ Subscriber too slow, dropping", zap.String("client_id", id))
		h.unregister(id)
	}
	return sent
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.unregister(id)
	}
}

// readPump discards client messages and keeps the connection alive with pongs
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the client queue and sends pings
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
