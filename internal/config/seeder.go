package config

import (
	"context"
	"errors"
	"strings"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/password"

	"go.uber.org/zap"
)

// ErrAdminCredentials is returned when the seed admin has no usable email or password
var ErrAdminCredentials = errors.New("admin email and a valid password are required")

// AdminSeed describes the first administrator account
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// Seeder handles database seeding
type Seeder struct {
	store repositories.Store
	log   *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(store repositories.Store, log *zap.Logger) *Seeder {
	return &Seeder{store: store, log: log}
}

// SeedAdmin creates an administrator unless one already exists.
// It reports whether an account was created.
func (s *Seeder) SeedAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	s.log.Info("🌱 Running admin seeder...")

	counts, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return false, err
	}
	if counts[domain.RoleAdmin] > 0 {
		s.log.Info("⚠️ Admin seed skipped: an administrator already exists")
		return false, nil
	}

	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || password.Validate(seed.Password) != nil {
		return false, ErrAdminCredentials
	}

	hashed, err := password.Hash(seed.Password)
	if err != nil {
		return false, err
	}

	name := seed.Name
	if name == "" {
		name = "Administrator"
	}

	admin := &domain.User{
		Name:       name,
		Email:      email,
		Password:   hashed,
		Role:       domain.RoleAdmin,
		IsActive:   true,
		IsVerified: true,
		TrustScore: domain.DefaultTrustScore,
	}
	if err := s.store.Users().Create(ctx, admin); err != nil {
		return false, err
	}

	s.log.Info("✅ Admin user created", zap.String("email", admin.Email), zap.Uint("user_id", admin.ID))
	return true, nil
}
