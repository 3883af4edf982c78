package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSSEHubBroadcast(t *testing.T) {
	hub := NewSSEHub(zap.NewNop())
	a := &SSEClient{ID: "a", Channel: make(chan []byte, 1)}
	b := &SSEClient{ID: "b", Channel: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)

	assert.Equal(t, 2, hub.Broadcast([]byte("one")))
	assert.Equal(t, []byte("one"), <-a.Channel)

	// b has not drained its buffer, so it misses the second event
	assert.Equal(t, 1, hub.Broadcast([]byte("two")))
	assert.Equal(t, 2, hub.Count())
	assert.Equal(t, []byte("two"), <-a.Channel)
	assert.Equal(t, []byte("one"), <-b.Channel)
}

func TestSSEHubUnregisterClosesChannel(t *testing.T) {
	hub := NewSSEHub(zap.NewNop())
	c := &SSEClient{ID: "c", Channel: make(chan []byte, 1)}
	hub.Register(c)

	hub.Unregister("c")
	hub.Unregister("c")

	_, open := <-c.Channel
	assert.False(t, open)
	assert.Zero(t, hub.Count())
}
