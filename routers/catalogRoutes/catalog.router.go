package catalogRoutes

import (
	catalogController "smmpanel/controllers/catalog"
	"smmpanel/middleware"
	catalogValidator "smmpanel/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App) {
	serviceGroup := app.Group("/services")

	// Public catalog
	serviceGroup.Get("/", catalogController.ListServices)

	// Admin routes
	adminGroup := serviceGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/list", catalogController.AdminListServices)
	adminGroup.Post("/create", catalogValidator.CreateService(), catalogController.CreateService)
	adminGroup.Post("/update", catalogValidator.UpdateService(), catalogController.UpdateService)
}
