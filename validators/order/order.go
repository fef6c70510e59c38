package orderValidator

import (
	"time"

	"smmpanel/middleware"
	"smmpanel/validators/validate"

	"github.com/gofiber/fiber/v2"
)

type PlaceOrderRequest struct {
	ServiceID uint   `json:"serviceId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Link      string `json:"link" validate:"required,url,max=500"`
}

type AdvanceOrderRequest struct {
	OrderID uint   `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=IN_PROGRESS ACTIVE COMPLETED"`
}

type RecordProgressRequest struct {
	OrderID      uint       `json:"orderId" validate:"required"`
	StartTime    *time.Time `json:"startTime"`
	BeforeCount  *int       `json:"beforeCount" validate:"omitempty,gte=0"`
	CurrentCount *int       `json:"currentCount" validate:"omitempty,gte=0"`
}

// PlaceOrder validates an order placement
func PlaceOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PlaceOrderRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPlaceOrder", reqData)
		return c.Next()
	}
}

// AdvanceOrder validates an admin status change
func AdvanceOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AdvanceOrderRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdvanceOrder", reqData)
		return c.Next()
	}
}

// RecordProgress validates a delivery telemetry update
func RecordProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RecordProgressRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRecordProgress", reqData)
		return c.Next()
	}
}
