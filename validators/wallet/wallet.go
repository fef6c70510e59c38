package walletValidator

import (
	"smmpanel/middleware"
	"smmpanel/validators/validate"

	"github.com/gofiber/fiber/v2"
)

type DepositRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Method          string  `json:"method" validate:"required,oneof=CARD BANK CRYPTO MPESA"`
	TransactionCode string  `json:"transactionCode" validate:"max=100"`
}

type DepositDecisionRequest struct {
	DepositID uint   `json:"depositId" validate:"required"`
	Note      string `json:"note" validate:"max=1000"`
}

type AdjustBalanceRequest struct {
	UserID uint    `json:"userId" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

// Deposit validates a deposit submission
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepositRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validate.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		// M-Pesa payments are matched to the paybill statement by their code
		if reqData.Method == "MPESA" && reqData.TransactionCode == "" {
			errors["transactionCode"] = "Transaction code is required for M-Pesa deposits!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}

// DepositDecision validates an admin approve/reject request
func DepositDecision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepositDecisionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDepositDecision", reqData)
		return c.Next()
	}
}

// AdjustBalance validates an admin manual credit/debit request
func AdjustBalance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AdjustBalanceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validate.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdjustBalance", reqData)
		return c.Next()
	}
}
