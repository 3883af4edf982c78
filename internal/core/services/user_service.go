package services

import (
	"context"
	"errors"
	"fmt"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/password"

	"go.uber.org/zap"
)

// ErrOldPasswordWrong is returned when the current password does not match
var ErrOldPasswordWrong = errors.New("old password is incorrect")

// UserService handles profiles and admin moderation
type UserService struct {
	store repositories.Store
	log   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store, log *zap.Logger) *UserService {
	return &UserService{store: store, log: log}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Role   string
	Offset int
	Limit  int
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Organization *string `json:"organization" validate:"omitempty,max=150"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Impact summarizes a user's contribution
type Impact struct {
	TrustScore        int   `json:"trust_score"`
	KarmaPoints       int   `json:"karma_points"`
	Level             int   `json:"level"`
	PointsToNextLevel int   `json:"points_to_next_level"`
	Donated           int64 `json:"donated"`
	Claimed           int64 `json:"claimed"`
	Delivered         int64 `json:"delivered"`
}

// ListUsers lists users with pagination, optionally by role
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) ([]*domain.User, int64, error) {
	var role *domain.Role
	if input.Role != "" {
		r, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
		}
		role = &r
	}
	return s.store.Users().List(ctx, role, input.Offset, input.Limit)
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.GetUserByID(ctx, userID)
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*domain.User, error) {
	return s.modify(ctx, userID, func(_ repositories.Store, user *domain.User) error {
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Organization != nil {
			user.Organization = *input.Organization
		}
		return nil
	})
}

// ChangePassword changes user's password and signs out other sessions
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	if err := password.Validate(input.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.modify(ctx, userID, func(tx repositories.Store, user *domain.User) error {
		if !password.Verify(input.OldPassword, user.Password) {
			return ErrOldPasswordWrong
		}
		user.Password = hashed
		return tx.RefreshTokens().RevokeAllByUserID(ctx, userID)
	})
	return err
}

// SetIntakeCapacity sets an NGO's daily intake capacity
func (s *UserService) SetIntakeCapacity(ctx context.Context, userID uint, capacity float64) (*domain.User, error) {
	if capacity < domain.MinQuantity {
		return nil, domain.ErrInvalidCapacity
	}

	updated, err := s.modify(ctx, userID, func(_ repositories.Store, user *domain.User) error {
		if user.Role != domain.RoleNGO {
			return domain.ErrNotAnNGO
		}
		user.DailyIntakeCapacity = &capacity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ Intake capacity updated", zap.Uint("user_id", userID), zap.Float64("capacity", capacity))
	return updated, nil
}

// GetImpact returns the user's scores and donation counts
func (s *UserService) GetImpact(ctx context.Context, userID uint) (*Impact, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	impact := &Impact{
		TrustScore:        user.TrustScore,
		KarmaPoints:       user.KarmaPoints,
		Level:             domain.KarmaLevel(user.KarmaPoints),
		PointsToNextLevel: domain.PointsToNextLevel(user.KarmaPoints),
	}

	donations := s.store.Donations()
	delivered := domain.StatusDelivered

	if impact.Donated, err = donations.Count(ctx, domain.DonationFilter{DonorID: &user.ID}); err != nil {
		return nil, err
	}
	if impact.Claimed, err = donations.Count(ctx, domain.DonationFilter{ClaimedByID: &user.ID}); err != nil {
		return nil, err
	}

	deliveredFilter := domain.DonationFilter{Status: &delivered}
	switch user.Role {
	case domain.RoleVolunteer:
		deliveredFilter.TransporterID = &user.ID
	case domain.RoleNGO:
		deliveredFilter.ClaimedByID = &user.ID
	default:
		deliveredFilter.DonorID = &user.ID
	}
	if impact.Delivered, err = donations.Count(ctx, deliveredFilter); err != nil {
		return nil, err
	}

	return impact, nil
}

// VerifyNGO marks an NGO account as verified
func (s *UserService) VerifyNGO(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.modify(ctx, id, func(_ repositories.Store, user *domain.User) error {
		if user.Role != domain.RoleNGO {
			return domain.ErrNotAnNGO
		}
		user.IsVerified = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ NGO verified", zap.Uint("user_id", id))
	return user, nil
}

// ToggleActive suspends or reactivates an account. Administrators cannot be
// suspended and suspension revokes every refresh token of the account.
func (s *UserService) ToggleActive(ctx context.Context, id, adminID uint) (*domain.User, error) {
	updated, err := s.modify(ctx, id, func(tx repositories.Store, user *domain.User) error {
		if user.Role == domain.RoleAdmin {
			return domain.ErrCannotSuspendAdmin
		}
		user.IsActive = !user.IsActive
		if !user.IsActive {
			return tx.RefreshTokens().RevokeAllByUserID(ctx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ User active flag toggled",
		zap.Uint("user_id", id),
		zap.Uint("admin_id", adminID),
		zap.Bool("is_active", updated.IsActive),
	)
	return updated, nil
}

// modify applies fn to the locked user row and saves it in the same
// transaction. Every user write goes through a row lock because the claim
// coordinator updates the intake load concurrently.
func (s *UserService) modify(ctx context.Context, id uint, fn func(tx repositories.Store, user *domain.User) error) (*domain.User, error) {
	var updated *domain.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err := fn(tx, user); err != nil {
			return err
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
