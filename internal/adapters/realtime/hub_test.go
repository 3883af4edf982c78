package realtime

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub("*", zap.NewNop())
	srv := httptest.NewServer(NewRouter(hub))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	payload := []byte(`{"event":"donation.created","data":{"id":"d-1"}}`)
	assert.Equal(t, 2, hub.Broadcast(payload))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, string(payload), string(msg))
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub("*", zap.NewNop())
	srv := httptest.NewServer(NewRouter(hub))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	hub := NewHub("*", zap.NewNop())
	hub.clients["stuck"] = &client{id: "stuck", send: make(chan []byte)}

	assert.Zero(t, hub.Broadcast([]byte("x")))
	assert.Zero(t, hub.Count())

	// a second broadcast with nobody connected is a no-op
	assert.Zero(t, hub.Broadcast([]byte("x")))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker("https://foodbridge.app, https://admin.foodbridge.app")

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://admin.foodbridge.app")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker("*")(req))
}

func TestHealthzAndMetrics(t *testing.T) {
	hub := NewHub("*", zap.NewNop())
	srv := httptest.NewServer(NewRouter(hub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	raw, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")
}
