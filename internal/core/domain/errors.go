package domain

import (
	"errors"
	"fmt"
	"time"
)

// Common domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrTransientConflict = errors.New("transient storage conflict, retry the request")
	ErrUploadsDisabled   = errors.New("image uploads are not configured")
)

// Food safety errors
var (
	ErrExpiredFood      = errors.New("food has already expired")
	ErrInvalidTiming    = errors.New("preparation time cannot be in the future")
	ErrUnsafeShelfLife  = errors.New("unsafe remaining shelf life")
	ErrUnknownFoodType  = errors.New("unknown food type")
	ErrExpiryBeforePrep = errors.New("expiry time must be after preparation time")
)

// Lifecycle and claim errors
var (
	ErrAlreadyClaimed    = errors.New("donation is no longer available")
	ErrCapacityExceeded  = errors.New("daily intake capacity exceeded")
	ErrRoleMismatch      = errors.New("only NGOs can claim donations")
	ErrNGONotVerified    = errors.New("NGO account is not verified")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidState      = errors.New("donation can only be edited while available")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrCannotSuspendAdmin  = errors.New("Cannot suspend an administrator account")
	ErrNotAnNGO            = errors.New("user is not an NGO")
	ErrInvalidCapacity     = errors.New("intake capacity must be positive")
	ErrAdminSelfRegistered = errors.New("administrator accounts cannot be self-registered")
)

// UnsafeShelfLifeError reports a high-risk listing whose remaining safe window is too short
type UnsafeShelfLifeError struct {
	FoodType FoodType
	Minimum  time.Duration
}

func (e *UnsafeShelfLifeError) Error() string {
	return fmt.Sprintf("High-risk food (%s) must have at least %d hours of safe consumption window remaining.",
		e.FoodType, int(e.Minimum.Hours()))
}

// Is lets errors.Is match the sentinel
func (e *UnsafeShelfLifeError) Is(target error) bool {
	return target == ErrUnsafeShelfLife
}
