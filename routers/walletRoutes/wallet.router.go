package walletRoutes

import (
	walletController "smmpanel/controllers/wallet"
	"smmpanel/middleware"
	walletValidator "smmpanel/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/balance", middleware.JWTMiddleware, walletController.GetWalletBalance)
	walletGroup.Post("/deposit", walletValidator.Deposit(), middleware.JWTMiddleware, walletController.SubmitDeposit)
	walletGroup.Get("/deposits", middleware.JWTMiddleware, walletController.ListDeposits)
	walletGroup.Get("/ledger", middleware.JWTMiddleware, walletController.ListLedger)

	// Admin routes
	adminGroup := walletGroup.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/deposits", walletController.AdminListDeposits)
	adminGroup.Post("/deposits/approve", walletValidator.DepositDecision(), walletController.ApproveDeposit)
	adminGroup.Post("/deposits/reject", walletValidator.DepositDecision(), walletController.RejectDeposit)
	adminGroup.Post("/add-balance", walletValidator.AdjustBalance(), walletController.AddBalance)
	adminGroup.Post("/deduct-balance", walletValidator.AdjustBalance(), walletController.DeductBalance)
}
