package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodbridge-api/internal/adapters/persistence/repositories"
	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/jwt"
	"foodbridge-api/internal/pkg/password"

	"go.uber.org/zap"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
)

// AuthConfig tunes registration defaults
type AuthConfig struct {
	DefaultIntakeCapacity float64
	HashCost              int
}

// AuthService handles authentication business logic
type AuthService struct {
	store  repositories.Store
	tokens *jwt.Manager
	cfg    AuthConfig
	log    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store repositories.Store, tokens *jwt.Manager, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.HashCost == 0 {
		cfg.HashCost = password.DefaultCost
	}
	if cfg.DefaultIntakeCapacity <= 0 {
		cfg.DefaultIntakeCapacity = domain.DefaultIntakeCapacity
	}
	return &AuthService{
		store:  store,
		tokens: tokens,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name                string   `json:"name" validate:"required,min=2,max=100"`
	Email               string   `json:"email" validate:"required,email"`
	Password            string   `json:"password" validate:"required,min=8"`
	Role                string   `json:"role" validate:"required,role"`
	Phone               string   `json:"phone" validate:"max=30"`
	Organization        string   `json:"organization" validate:"max=150"`
	DailyIntakeCapacity *float64 `json:"daily_intake_capacity" validate:"omitempty,gte=0.01"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	User             *domain.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a donor, NGO or volunteer account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	if role == domain.RoleAdmin {
		return nil, domain.ErrAdminSelfRegistered
	}
	if err := password.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	email := normalizeEmail(input.Email)
	exists, err := s.store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.HashWithCost(input.Password, s.cfg.HashCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Password:     hashed,
		Phone:        input.Phone,
		Organization: input.Organization,
		Role:         role,
		IsActive:     true,
		TrustScore:   domain.DefaultTrustScore,
	}
	if role == domain.RoleNGO {
		capacity := s.cfg.DefaultIntakeCapacity
		if input.DailyIntakeCapacity != nil {
			if *input.DailyIntakeCapacity < domain.MinQuantity {
				return nil, domain.ErrInvalidCapacity
			}
			capacity = *input.DailyIntakeCapacity
		}
		user.DailyIntakeCapacity = &capacity
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ User registered", zap.Uint("user_id", user.ID), zap.String("role", string(role)))
	return result, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ User logged in", zap.Uint("user_id", user.ID))
	return result, nil
}

// RefreshToken rotates a refresh token. Presenting an already revoked token
// revokes every session of the user.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)
	stored, err := s.store.RefreshTokens().GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if stored.IsRevoked() {
		s.log.Warn("⚠️ Revoked refresh token reused, revoking all sessions", zap.Uint("user_id", stored.UserID))
		if err := s.store.RefreshTokens().RevokeAllByUserID(ctx, stored.UserID); err != nil {
			return nil, err
		}
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired(time.Now()) {
		return nil, ErrTokenExpired
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := s.store.RefreshTokens().RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.store.RefreshTokens().RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}
	s.log.Debug("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.store.RefreshTokens().RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}
	s.log.Info("✅ All sessions revoked", zap.Uint("user_id", userID))
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return s.tokens.ValidateAccessToken(accessToken)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// issueTokens signs a token pair and stores the refresh token hash
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	refresh, _, expiresAt, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	err = s.store.RefreshTokens().Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:             user,
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
