package handlers

import (
	"errors"
	"strconv"

	"foodbridge-api/internal/core/domain"
	"foodbridge-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a domain error to its HTTP response. Unknown errors
// become a 500 carrying the fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownFoodType),
		errors.Is(err, domain.ErrCannotSuspendAdmin),
		errors.Is(err, domain.ErrNotAnNGO),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrAdminSelfRegistered):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrExpiredFood),
		errors.Is(err, domain.ErrInvalidTiming),
		errors.Is(err, domain.ErrExpiryBeforePrep),
		errors.Is(err, domain.ErrUnsafeShelfLife):
		return response.UnprocessableEntity(c, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Unauthorized")

	case errors.Is(err, domain.ErrRoleMismatch),
		errors.Is(err, domain.ErrNGONotVerified),
		errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())

	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Donation not found")

	case errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrUserAlreadyExists):
		return response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrTransientConflict),
		errors.Is(err, domain.ErrUploadsDisabled):
		return response.ServiceUnavailable(c, err.Error())

	default:
		return response.InternalServerError(c, fallback)
	}
}

// currentUserID returns the user id set by the auth middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}

func parseUserID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
