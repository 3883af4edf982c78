package repositories

import (
	"context"

	"foodbridge-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, role *domain.Role, offset, limit int) ([]*domain.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
	ResetIntakeLoads(ctx context.Context) (int64, error)
}

// DonationRepository defines donation repository interface
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Donation, error)
	Update(ctx context.Context, donation *domain.Donation) error
	List(ctx context.Context, filter domain.DonationFilter) ([]*domain.Donation, int64, error)
	Count(ctx context.Context, filter domain.DonationFilter) (int64, error)
	Stats(ctx context.Context) (map[domain.DonationStatus]int64, float64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Store groups the repositories and runs them inside a transaction
type Store interface {
	Users() UserRepository
	Donations() DonationRepository
	RefreshTokens() RefreshTokenRepository
	// WithTx runs fn in one transaction; a non-nil error rolls it back
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
