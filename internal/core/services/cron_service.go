package services

import (
	"context"
	"fmt"
	"time"

	"foodbridge-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronService runs the scheduled maintenance jobs
type CronService struct {
	store    repositories.Store
	log      *zap.Logger
	cron     *cron.Cron
	schedule string
}

// NewCronService creates a new cron service. schedule is a standard
// five-field cron expression for the daily intake reset.
func NewCronService(store repositories.Store, schedule string, log *zap.Logger) (*CronService, error) {
	s := &CronService{
		store:    store,
		log:      log,
		cron:     cron.New(),
		schedule: schedule,
	}

	if _, err := s.cron.AddFunc(schedule, s.runIntakeReset); err != nil {
		return nil, fmt.Errorf("invalid intake reset schedule %q: %w", schedule, err)
	}
	if _, err := s.cron.AddFunc("@hourly", s.runTokenCleanup); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the scheduler
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("🚀 CronService started", zap.String("intake_reset", s.schedule))
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("🛑 CronService stopped")
}

// ResetIntakeLoads zeroes every NGO's current intake load
func (s *CronService) ResetIntakeLoads(ctx context.Context) (int64, error) {
	n, err := s.store.Users().ResetIntakeLoads(ctx)
	if err != nil {
		return 0, err
	}
	intakeResets.Add(float64(n))
	return n, nil
}

func (s *CronService) runIntakeReset() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.ResetIntakeLoads(ctx)
	if err != nil {
		s.log.Error("❌ Intake reset failed", zap.Error(err))
		return
	}
	s.log.Info("🔄 NGO intake loads reset", zap.Int64("count", n))
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.store.RefreshTokens().DeleteExpired(ctx)
	if err != nil {
		s.log.Error("❌ Refresh token cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("🗑️ Expired refresh tokens deleted", zap.Int64("count", n))
	}
}
