package services

import (
	"encoding/json"

	"foodbridge-api/internal/core/domain"

	"go.uber.org/zap"
)

// Realtime event names
const (
	EventDonationCreated       = "donation.created"
	EventDonationClaimed       = "donation.claimed"
	EventDonationStatusChanged = "donation.status_changed"
)

// DonationEvent is the realtime message pushed to map subscribers
type DonationEvent struct {
	Event string      `json:"event"`
	Data  DonationPin `json:"data"`
}

// DonationPin is the minimal donation view needed to update a map pin
type DonationPin struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FoodType  string  `json:"food_type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Status    string  `json:"status"`
}

// NotificationService publishes donation events to realtime subscribers
type NotificationService struct {
	pub Publisher
	log *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(pub Publisher, log *zap.Logger) *NotificationService {
	return &NotificationService{pub: pub, log: log}
}

// IsEnabled checks if a publisher is attached
func (s *NotificationService) IsEnabled() bool {
	return s.pub != nil
}

// DonationCreated announces a new listing
func (s *NotificationService) DonationCreated(d *domain.Donation) {
	s.publish(EventDonationCreated, d)
}

// DonationClaimed announces that a listing was reserved by an NGO
func (s *NotificationService) DonationClaimed(d *domain.Donation) {
	s.publish(EventDonationClaimed, d)
}

// DonationStatusChanged announces pickup, delivery and admin overrides
func (s *NotificationService) DonationStatusChanged(d *domain.Donation) {
	s.publish(EventDonationStatusChanged, d)
}

func (s *NotificationService) publish(event string, d *domain.Donation) {
	if !s.IsEnabled() {
		return
	}

	payload, err := json.Marshal(DonationEvent{
		Event: event,
		Data: DonationPin{
			ID:        d.ID,
			Name:      d.Name,
			FoodType:  string(d.FoodType),
			Latitude:  d.Location.Latitude,
			Longitude: d.Location.Longitude,
			Address:   d.Location.Address,
			Status:    string(d.Status),
		},
	})
	if err != nil {
		s.log.Error("❌ Failed to encode donation event", zap.String("event", event), zap.Error(err))
		return
	}

	n := s.pub.Broadcast(payload)
	s.log.Debug("📡 Donation event published",
		zap.String("event", event),
		zap.String("donation_id", d.ID),
		zap.Int("subscribers", n),
	)
}
