package supportValidator

import (
	"smmpanel/middleware"
	"smmpanel/validators/validate"

	"github.com/gofiber/fiber/v2"
)

type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required,max=255"`
	Message  string `json:"message" validate:"required,max=5000"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type ReplyTicketRequest struct {
	TicketID uint   `json:"ticketId" validate:"required"`
	Message  string `json:"message" validate:"required,max=5000"`
}

type TicketActionRequest struct {
	TicketID uint `json:"ticketId" validate:"required"`
}

// CreateTicket validates a new support ticket
func CreateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateTicket", reqData)
		return c.Next()
	}
}

// ReplyTicket validates a ticket reply
func ReplyTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReplyTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReplyTicket", reqData)
		return c.Next()
	}
}

// TicketAction validates close/reopen requests
func TicketAction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TicketActionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTicketAction", reqData)
		return c.Next()
	}
}
