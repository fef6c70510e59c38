package middleware

import (
	"smmpanel/database"
	"smmpanel/models"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly ensures the authenticated user carries the ADMIN role.
// Runs after JWTMiddleware; the admin's id stays in Locals("userId").
func AdminOnly(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").
		First(&admin).Error; err != nil {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access Denied! Admin role required.", nil)
	}

	return c.Next()
}
