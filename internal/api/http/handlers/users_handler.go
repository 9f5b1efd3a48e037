package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// UsersHandler exposes profile and admin account-management endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// List handles GET /api/users (admin only).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	users, total, err := h.accounts.ListUsers(c.Context(), page, limit)
	if err != nil {
		return err
	}

	views := make([]dto.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, dto.NewUserDetailView(user))
	}

	return c.JSON(dto.ListUsersResponse{
		Users:       views,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalUsers:  total,
	})
}

// Activate handles PUT /api/users/:id/activate (admin only).
func (h *UsersHandler) Activate(c *fiber.Ctx) error {
	user, err := h.accounts.SetStatus(c.Context(), c.Params("id"), domain.StatusActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User activated successfully",
		"user":    dto.NewUserDetailView(user),
	})
}

// Deactivate handles PUT /api/users/:id/deactivate (admin only).
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	user, err := h.accounts.SetStatus(c.Context(), c.Params("id"), domain.StatusInactive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User deactivated successfully",
		"user":    dto.NewUserDetailView(user),
	})
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	current, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized, no token")
	}

	user, err := h.accounts.CurrentUser(c.Context(), current.ID)
	if err != nil {
		return err
	}

	view := dto.NewUserView(user)
	createdAt := user.CreatedAt
	view.CreatedAt = &createdAt
	return c.JSON(view)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	current, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized, no token")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	user, err := h.accounts.UpdateProfile(c.Context(), current.ID, req.FullName, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    dto.NewUserView(user),
	})
}

// ChangePassword handles PUT /api/users/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	current, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized, no token")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("Please provide current and new password")
	}

	if err := h.accounts.ChangePassword(c.Context(), current.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// queryInt parses a positive integer query param, falling back on absent or
// invalid values.
func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
