package handlers

import (
	"bufio"
	"fmt"
	"time"

	"foodbridge-api/internal/adapters/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	sseHeartbeat = 30 * time.Second
	sseBuffer    = 50
)

// StreamHandler serves donation events as server-sent events
type StreamHandler struct {
	hub *realtime.SSEHub
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *realtime.SSEHub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Events streams donation events until the client disconnects
// @Summary Donation event stream
// @Description Server-sent events for donation.created, donation.claimed and donation.status_changed
// @Tags Donations
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /donations/events [get]
func (h *StreamHandler) Events(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	clientID := "sse-" + uuid.NewString()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &realtime.SSEClient{
			ID:      clientID,
			UserID:  userID,
			Channel: make(chan []byte, sseBuffer),
		}

		h.hub.Register(client)
		defer h.hub.Unregister(clientID)

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(sseHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case payload, ok := <-client.Channel:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: donation\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
