package supportRoutes

import (
	supportController "smmpanel/controllers/support"
	"smmpanel/middleware"
	supportValidator "smmpanel/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	support := app.Group("/support")

	support.Post("/create", supportValidator.CreateTicket(), middleware.JWTMiddleware, supportController.CreateTicket)
	support.Get("/list", middleware.JWTMiddleware, supportController.TicketList)
	support.Get("/replies", middleware.JWTMiddleware, supportController.ListReplies)
	support.Post("/reply", supportValidator.ReplyTicket(), middleware.JWTMiddleware, supportController.ReplyTicket)
	support.Post("/close", supportValidator.TicketAction(), middleware.JWTMiddleware, supportController.CloseTicket)

	adminGroup := support.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/list", supportController.AdminTicketList)
	adminGroup.Post("/reopen", supportValidator.TicketAction(), supportController.ReopenTicket)
}
