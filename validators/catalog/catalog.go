package catalogValidator

import (
	"smmpanel/middleware"
	"smmpanel/validators/validate"

	"github.com/gofiber/fiber/v2"
)

type CreateServiceRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Category     string  `json:"category" validate:"max=100"`
	Description  string  `json:"description" validate:"max=2000"`
	PricePer1000 float64 `json:"pricePer1000" validate:"required,gt=0"`
	MinQuantity  int     `json:"minQuantity" validate:"omitempty,gt=0"`
}

type UpdateServiceRequest struct {
	ServiceID    uint     `json:"serviceId" validate:"required"`
	Name         *string  `json:"name" validate:"omitempty,max=255"`
	Category     *string  `json:"category" validate:"omitempty,max=100"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	PricePer1000 *float64 `json:"pricePer1000" validate:"omitempty,gt=0"`
	MinQuantity  *int     `json:"minQuantity" validate:"omitempty,gt=0"`
	IsActive     *bool    `json:"isActive"`
}

// CreateService validates an admin service creation
func CreateService() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateServiceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateService", reqData)
		return c.Next()
	}
}

// UpdateService validates an admin service update
func UpdateService() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateServiceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateService", reqData)
		return c.Next()
	}
}
