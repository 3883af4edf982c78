package services

import (
	"context"
	"errors"
	"time"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"

	"go.uber.org/zap"
)

// defaultRetryDelays are the pauses between attempts after a transient conflict
var defaultRetryDelays = []time.Duration{25 * time.Millisecond, 75 * time.Millisecond}

// ClaimCoordinator reserves donations for NGOs. The donation row and the
// NGO row are locked in that order inside one transaction, so at most one
// claim per donation commits and the NGO's load never passes its capacity.
type ClaimCoordinator struct {
	store           repositories.Store
	notifier        Notifier
	log             *zap.Logger
	requireVerified bool
	retryDelays     []time.Duration
}

// NewClaimCoordinator creates a new claim coordinator
func NewClaimCoordinator(store repositories.Store, notifier Notifier, log *zap.Logger, requireVerified bool) *ClaimCoordinator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ClaimCoordinator{
		store:           store,
		notifier:        notifier,
		log:             log,
		requireVerified: requireVerified,
		retryDelays:     defaultRetryDelays,
	}
}

// Claim reserves an AVAILABLE donation for the acting NGO
func (c *ClaimCoordinator) Claim(ctx context.Context, donationID string, actorID uint) (*domain.Donation, error) {
	start := time.Now()

	var claimed *domain.Donation
	err := c.withRetry(ctx, func() error {
		return c.store.WithTx(ctx, func(tx repositories.Store) error {
			d, err := c.claimTx(ctx, tx, donationID, actorID)
			if err != nil {
				return err
			}
			claimed = d
			return nil
		})
	})

	claimDuration.Observe(time.Since(start).Seconds())
	claimsTotal.WithLabelValues(claimOutcome(err)).Inc()

	if err != nil {
		c.log.Info("⚠️ Claim rejected",
			zap.String("donation_id", donationID),
			zap.Uint("user_id", actorID),
			zap.Error(err),
		)
		return nil, err
	}

	transitionsTotal.WithLabelValues(string(domain.StatusClaimed)).Inc()
	c.log.Info("✅ Donation claimed",
		zap.String("donation_id", claimed.ID),
		zap.Uint("user_id", actorID),
		zap.Float64("quantity", claimed.Quantity),
	)

	c.notifier.DonationClaimed(claimed)
	return claimed, nil
}

func (c *ClaimCoordinator) claimTx(ctx context.Context, tx repositories.Store, donationID string, actorID uint) (*domain.Donation, error) {
	d, err := tx.Donations().GetByIDForUpdate(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.StatusAvailable {
		return nil, domain.ErrAlreadyClaimed
	}

	ngo, err := tx.Users().GetByIDForUpdate(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !ngo.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if ngo.Role != domain.RoleNGO {
		return nil, domain.ErrRoleMismatch
	}
	if c.requireVerified && !ngo.IsVerified {
		return nil, domain.ErrNGONotVerified
	}
	if ngo.CurrentIntakeLoad+d.Quantity > ngo.IntakeCapacity() {
		return nil, domain.ErrCapacityExceeded
	}

	d.Claim(ngo.ID)
	ngo.CurrentIntakeLoad += d.Quantity

	if err := tx.Donations().Update(ctx, d); err != nil {
		return nil, err
	}
	if err := tx.Users().Update(ctx, ngo); err != nil {
		return nil, err
	}
	return d, nil
}

// withRetry reruns fn while it fails with a transient storage conflict.
// Business rejections are returned immediately.
func (c *ClaimCoordinator) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= len(c.retryDelays); i++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrTransientConflict) {
			return err
		}
		if i == len(c.retryDelays) {
			break
		}

		claimRetries.Inc()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelays[i]):
		}
	}
	return err
}
