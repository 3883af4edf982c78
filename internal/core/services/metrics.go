package services

import (
	"errors"

	"foodbridge-api/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// claimsTotal counts claim attempts by outcome
	claimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "donations",
		Name:      "claims_total",
		Help:      "Claim attempts by outcome",
	}, []string{"outcome"})

	// claimDuration tracks end-to-end claim latency including retries
	claimDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "foodbridge",
		Subsystem: "donations",
		Name:      "claim_duration_seconds",
		Help:      "Claim latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// claimRetries counts transient-conflict retries
	claimRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "donations",
		Name:      "claim_retries_total",
		Help:      "Claim transactions retried after a transient conflict",
	})

	// donationsCreated counts published listings by food type
	donationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "donations",
		Name:      "created_total",
		Help:      "Donations created by food type",
	}, []string{"food_type"})

	// transitionsTotal counts committed status changes by target status
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "donations",
		Name:      "transitions_total",
		Help:      "Committed status transitions by target status",
	}, []string{"to"})

	// intakeResets counts NGO load rows cleared by the scheduler
	intakeResets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "users",
		Name:      "intake_resets_total",
		Help:      "NGO intake loads reset to zero",
	})
)

// claimOutcome labels a claim result for metrics
func claimOutcome(err error) string {
	switch {
	case err == nil:
		return "claimed"
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, domain.ErrNGONotVerified):
		return "not_verified"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
