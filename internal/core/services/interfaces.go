package services

import (
	"context"
	"io"

	"foodbridge-api/internal/core/domain"
)

// Notifier receives donation events after the owning transaction commits.
// Implementations must not block.
type Notifier interface {
	DonationCreated(d *domain.Donation)
	DonationClaimed(d *domain.Donation)
	DonationStatusChanged(d *domain.Donation)
}

// Publisher fans a serialized event out to subscribers and returns how many received it
type Publisher interface {
	Broadcast(payload []byte) int
}

// FanOut broadcasts to several publishers
type FanOut []Publisher

// Broadcast sends the payload to every publisher and sums the receivers
func (f FanOut) Broadcast(payload []byte) int {
	n := 0
	for _, p := range f {
		n += p.Broadcast(payload)
	}
	return n
}

// ImageStore persists donation photos and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, donationID, fileName, contentType string, r io.Reader) (string, error)
}

// nopNotifier drops every event
type nopNotifier struct{}

func (nopNotifier) DonationCreated(*domain.Donation)       {}
func (nopNotifier) DonationClaimed(*domain.Donation)       {}
func (nopNotifier) DonationStatusChanged(*domain.Donation) {}
