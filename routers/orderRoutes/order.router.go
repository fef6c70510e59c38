package orderRoutes

import (
	orderController "smmpanel/controllers/order"
	"smmpanel/middleware"
	orderValidator "smmpanel/validators/order"

	"github.com/gofiber/fiber/v2"
)

func SetupOrderRoutes(app *fiber.App) {
	orderGroup := app.Group("/orders")

	// User routes
	orderGroup.Post("/", orderValidator.PlaceOrder(), middleware.JWTMiddleware, orderController.PlaceOrder)
	orderGroup.Get("/", middleware.JWTMiddleware, orderController.ListOrders)

	// Admin routes
	adminGroup := orderGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/list", orderController.AdminListOrders)
	adminGroup.Post("/advance", orderValidator.AdvanceOrder(), orderController.AdvanceOrder)
	adminGroup.Post("/progress", orderValidator.RecordProgress(), orderController.RecordProgress)
}
