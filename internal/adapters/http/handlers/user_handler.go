package handlers

import (
	"errors"

	"foodbridge-api/internal/core/services"
	"foodbridge-api/internal/pkg/pagination"
	"foodbridge-api/internal/pkg/response"
	"foodbridge-api/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and user moderation endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CapacityRequest represents an NGO capacity update
type CapacityRequest struct {
	DailyIntakeCapacity float64 `json:"daily_intake_capacity" validate:"gte=0.01"`
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of users, optionally filtered by role (Admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role query string false "DONOR, NGO, VOLUNTEER or ADMIN"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Role:   c.Query("role"),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}

	out := make([]*services.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, services.NewUserResponse(u))
	}

	return response.Paginated(c, "Users retrieved successfully", out, pagination.GetMeta(params, total))
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// VerifyNGO marks an NGO as verified (Admin only)
// @Summary Verify NGO
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/verify [put]
func (h *UserHandler) VerifyNGO(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.VerifyNGO(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to verify NGO")
	}

	return response.Success(c, "NGO verified successfully", fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// ToggleActive suspends or reactivates a user (Admin only)
// @Summary Suspend or reactivate user
// @Description Administrators cannot be suspended. Suspension revokes all sessions.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/toggle-active [put]
func (h *UserHandler) ToggleActive(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.ToggleActive(c.Context(), id, adminID)
	if err != nil {
		return respondError(c, err, "Failed to update user")
	}

	message := "User reactivated successfully"
	if !user.IsActive {
		message = "User suspended successfully"
	}
	return response.Success(c, message, fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// GetProfile handles getting own profile
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// UpdateProfile handles updating own profile
// @Summary Update my profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// ChangePassword handles changing own password
// @Summary Change my password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &req); err != nil {
		if errors.Is(err, services.ErrOldPasswordWrong) {
			return response.BadRequest(c, "Old password is incorrect")
		}
		return respondError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

// SetCapacity handles an NGO updating its daily intake capacity
// @Summary Set my intake capacity
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CapacityRequest true "Daily capacity"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/capacity [put]
func (h *UserHandler) SetCapacity(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CapacityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.SetIntakeCapacity(c.Context(), userID, req.DailyIntakeCapacity)
	if err != nil {
		return respondError(c, err, "Failed to update capacity")
	}

	return response.Success(c, "Capacity updated successfully", fiber.Map{
		"user": services.NewUserResponse(user),
	})
}

// GetImpact returns the caller's trust, karma and donation counts
// @Summary Get my impact
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile/impact [get]
func (h *UserHandler) GetImpact(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	impact, err := h.userService.GetImpact(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to get impact")
	}

	return response.Success(c, "Impact retrieved successfully", impact)
}
