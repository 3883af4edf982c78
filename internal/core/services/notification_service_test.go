package services

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"foodbridge-api/internal/core/domain"
)

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Broadcast(payload []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return 1
}

func TestNotificationServicePublishesPins(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewNotificationService(pub, zap.NewNop())
	require.True(t, svc.IsEnabled())

	svc.DonationClaimed(&domain.Donation{
		ID:       "d-1",
		Name:     "Bread",
		FoodType: domain.FoodBakery,
		Location: domain.Location{Latitude: 13.75, Longitude: 100.5},
		Status:   domain.StatusClaimed,
	})

	require.Len(t, pub.payloads, 1)

	var ev DonationEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &ev))
	assert.Equal(t, EventDonationClaimed, ev.Event)
	assert.Equal(t, "d-1", ev.Data.ID)
	assert.Equal(t, "CLAIMED", ev.Data.Status)
	assert.Equal(t, "bakery", ev.Data.FoodType)
	assert.Equal(t, 13.75, ev.Data.Latitude)
}

func TestNotificationServiceWithoutPublisher(t *testing.T) {
	svc := NewNotificationService(nil, zap.NewNop())
	assert.False(t, svc.IsEnabled())

	// must not panic
	svc.DonationCreated(&domain.Donation{ID: "d-2"})
}

func TestFanOutSumsReceivers(t *testing.T) {
	a, b := &capturePublisher{}, &capturePublisher{}
	fan := FanOut{a, b}

	assert.Equal(t, 2, fan.Broadcast([]byte("x")))
	assert.Len(t, a.payloads, 1)
	assert.Len(t, b.payloads, 1)
}
