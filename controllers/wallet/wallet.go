package walletController

import (
	"errors"
	"fmt"
	"log"
	"time"

	"smmpanel/config"
	"smmpanel/database"
	"smmpanel/ledger"
	"smmpanel/middleware"
	"smmpanel/models"
	"smmpanel/realtime"
	walletValidator "smmpanel/validators/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errDepositNotPending aborts an approval whose deposit left PENDING
// between the initial read and the commit.
var errDepositNotPending = errors.New("deposit is not pending")

// GetWalletBalance returns user's current account balance
func GetWalletBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance":  user.Balance,
		"currency": "USD",
	})
}

// SubmitDeposit creates a pending deposit request. The balance is not
// touched here; only an admin approval credits the ledger.
func SubmitDeposit(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedDeposit").(*walletValidator.DepositRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Amount < config.AppConfig.MinDepositAmount {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"amount": fmt.Sprintf("Minimum deposit is $%.2f!", config.AppConfig.MinDepositAmount),
		})
	}

	method := models.DepositMethod(reqData.Method)

	// Manual payment instructions stored with the request so the admin
	// reviews the same details the user was shown.
	instructions := ""
	switch method {
	case models.DepositMethodCrypto:
		instructions = config.AppConfig.BTCAddress
	case models.DepositMethodMpesa:
		instructions = fmt.Sprintf("Paybill: %s, Account: %s",
			config.AppConfig.MpesaPaybill, config.AppConfig.MpesaAccount)
	}

	deposit := models.Deposit{
		UserID:        userId,
		Amount:        reqData.Amount,
		Method:        method,
		CryptoAddress: instructions,
		TransactionID: reqData.TransactionCode,
		Status:        models.DepositStatusPending,
	}

	if err := database.Database.Db.Create(&deposit).Error; err != nil {
		log.Printf("Error creating deposit: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create deposit request!", nil)
	}

	realtime.Publish(realtime.TopicDeposits, userId)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit request created! Your account will be credited after admin verification.", fiber.Map{
		"depositId":    deposit.ID,
		"amount":       deposit.Amount,
		"method":       deposit.Method,
		"status":       deposit.Status,
		"instructions": instructions,
	})
}

// ListDeposits returns the user's own deposit requests
func ListDeposits(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Deposit{}).Where("user_id = ? AND is_deleted = false", userId)

	var total int64
	query.Count(&total)

	var deposits []models.Deposit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&deposits).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch deposits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposits fetched!", fiber.Map{
		"deposits": deposits,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ListLedger returns the user's own ledger entries, newest first
func ListLedger(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	entries, total, err := ledger.Entries(database.Database.Db, userId, limit, (page-1)*limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ledger entries!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ledger entries fetched!", fiber.Map{
		"entries": entries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminListDeposits returns all deposit requests, filterable by status
func AdminListDeposits(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Deposit{}).Where("is_deleted = false")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var deposits []models.Deposit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&deposits).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch deposits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposits fetched!", fiber.Map{
		"deposits": deposits,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ApproveDeposit credits the user's ledger exactly once and marks the
// deposit completed. A retried or concurrent approval of the same
// deposit is treated as already applied, never as a second credit.
func ApproveDeposit(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDepositDecision").(*walletValidator.DepositDecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var deposit models.Deposit
	if err := db.Where("id = ? AND is_deleted = false", reqData.DepositID).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	if deposit.Status == models.DepositStatusFailed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Deposit is not pending!", nil)
	}

	// The credit and the PENDING -> COMPLETED transition commit as one
	// unit. The status update is guarded by PENDING: zero rows means a
	// racing decision already moved the deposit, and the rollback takes
	// the credit with it. A FAILED deposit can never end up credited.
	eventID := fmt.Sprintf("deposit:%d", deposit.ID)
	now := time.Now()

	var entry *models.LedgerEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = ledger.CreditTx(tx, deposit.UserID, deposit.Amount, eventID, "Deposit via "+string(deposit.Method))
		if txErr != nil {
			return txErr
		}

		result := tx.Model(&models.Deposit{}).
			Where("id = ? AND status = ?", deposit.ID, models.DepositStatusPending).
			Updates(map[string]interface{}{
				"status":      models.DepositStatusCompleted,
				"verified_by": adminId,
				"verified_at": now,
				"admin_note":  reqData.Note,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errDepositNotPending
		}
		return nil
	})

	// A duplicate event means an earlier approval already committed the
	// credit and the COMPLETED status together; treat as applied.
	alreadyApplied := errors.Is(err, ledger.ErrDuplicateEvent)
	if err != nil && !alreadyApplied {
		switch {
		case errors.Is(err, errDepositNotPending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Deposit is not pending!", nil)
		case errors.Is(err, ledger.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		default:
			log.Printf("Error crediting deposit %d: %v", deposit.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to credit balance!", nil)
		}
	}

	realtime.Publish(realtime.TopicDeposits, deposit.UserID)
	realtime.Publish(realtime.TopicBalance, deposit.UserID)

	message := "Deposit approved and balance credited!"
	if alreadyApplied {
		message = "Deposit already approved!"
	}

	data := fiber.Map{
		"depositId": deposit.ID,
		"userId":    deposit.UserID,
		"amount":    deposit.Amount,
		"status":    models.DepositStatusCompleted,
	}
	if entry != nil {
		data["newBalance"] = entry.BalanceAfter
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}

// RejectDeposit marks a pending deposit failed. No ledger effect.
func RejectDeposit(c *fiber.Ctx) error {
	adminId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedDepositDecision").(*walletValidator.DepositDecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var deposit models.Deposit
	if err := db.Where("id = ? AND is_deleted = false", reqData.DepositID).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	now := time.Now()
	result := db.Model(&models.Deposit{}).
		Where("id = ? AND status = ?", deposit.ID, models.DepositStatusPending).
		Updates(map[string]interface{}{
			"status":      models.DepositStatusFailed,
			"verified_by": adminId,
			"verified_at": now,
			"admin_note":  reqData.Note,
		})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject deposit!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Deposit is not pending!", nil)
	}

	realtime.Publish(realtime.TopicDeposits, deposit.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit rejected!", fiber.Map{
		"depositId": deposit.ID,
		"status":    models.DepositStatusFailed,
	})
}

// AddBalance credits a user's ledger manually (Admin only)
func AddBalance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdjustBalance").(*walletValidator.AdjustBalanceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	eventID := "adjust:" + uuid.NewString()
	entry, err := ledger.Credit(db, reqData.UserID, reqData.Amount, eventID, "Admin credit: "+reqData.Reason)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error adding balance: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add balance!", nil)
	}

	realtime.Publish(realtime.TopicBalance, reqData.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance added successfully!", fiber.Map{
		"userId":      reqData.UserID,
		"amountAdded": reqData.Amount,
		"newBalance":  entry.BalanceAfter,
		"reason":      reqData.Reason,
	})
}

// DeductBalance debits a user's ledger manually (Admin only)
func DeductBalance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdjustBalance").(*walletValidator.AdjustBalanceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	eventID := "adjust:" + uuid.NewString()
	entry, err := ledger.Debit(db, reqData.UserID, reqData.Amount, eventID, "Admin debit: "+reqData.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance to deduct!", nil)
		default:
			log.Printf("Error deducting balance: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deduct balance!", nil)
		}
	}

	realtime.Publish(realtime.TopicBalance, reqData.UserID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance deducted successfully!", fiber.Map{
		"userId":         reqData.UserID,
		"amountDeducted": reqData.Amount,
		"newBalance":     entry.BalanceAfter,
		"reason":         reqData.Reason,
	})
}
