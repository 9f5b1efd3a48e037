package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// RequireAdmin ensures the authenticated user holds the admin role. It must
// run after AuthMiddleware.Handle.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Not authorized, no token")
		}
		if !user.IsAdmin() {
			return apperrors.NewForbidden("Admin privileges required")
		}
		return c.Next()
	}
}
