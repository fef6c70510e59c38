package ledger

import (
	"errors"
	"fmt"
	"math"

	"smmpanel/models"

	"gorm.io/gorm"
)

// Sentinel errors surfaced to the workflows. All of them mean the
// operation was rejected and no state changed.
var (
	// ErrInvalidAmount is returned when a credit or debit amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds is returned when a debit would take the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateEvent is returned when the causal event id has already been applied.
	ErrDuplicateEvent = errors.New("event already applied")

	// ErrConflict is returned when concurrent-write retries are exhausted.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrNotFound is returned when the account does not exist.
	ErrNotFound = errors.New("account not found")
)

// retryAttempts bounds the internal retry loop before ErrConflict surfaces.
const retryAttempts = 3

// Credit increases the account balance by amount, exactly once per eventID.
func Credit(db *gorm.DB, userID uint, amount float64, eventID, description string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return apply(db, userID, amount, eventID, description)
}

// Debit decreases the account balance by amount, exactly once per eventID.
// It fails with ErrInsufficientFunds when amount exceeds the current balance.
func Debit(db *gorm.DB, userID uint, amount float64, eventID, description string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return apply(db, userID, -amount, eventID, description)
}

// DebitTx is Debit inside an already-open transaction, so a caller can
// make the charge and its own writes one atomic unit (order placement).
func DebitTx(tx *gorm.DB, userID uint, amount float64, eventID, description string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return applyTx(tx, userID, -amount, eventID, description)
}

// CreditTx is Credit inside an already-open transaction.
func CreditTx(tx *gorm.DB, userID uint, amount float64, eventID, description string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return applyTx(tx, userID, amount, eventID, description)
}

// RunInTransaction runs fn in a transaction, retrying transient failures
// (lock timeouts, serialization aborts) a bounded number of times before
// mapping them to ErrConflict. Domain rejections are never retried.
func RunInTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !retriable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func apply(db *gorm.DB, userID uint, delta float64, eventID, description string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := RunInTransaction(db, func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = applyTx(tx, userID, delta, eventID, description)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// applyTx appends the ledger entry and moves the balance as one unit.
// The entry insert goes first: its unique EventID index makes a replay
// fail before any balance change. The balance itself moves with a single
// guarded UPDATE, so two concurrent writers can never both read the same
// stale balance; the guard also keeps the result non-negative.
func applyTx(tx *gorm.DB, userID uint, delta float64, eventID, description string) (*models.LedgerEntry, error) {
	delta = math.Round(delta*100) / 100

	entry := &models.LedgerEntry{
		UserID:      userID,
		EventID:     eventID,
		Delta:       delta,
		Description: description,
	}
	if err := tx.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEvent
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND is_deleted = false AND balance + ? >= 0", userID, delta).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("id = ? AND is_deleted = false", userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInsufficientFunds
	}

	var user models.User
	if err := tx.Select("balance").First(&user, userID).Error; err != nil {
		return nil, err
	}
	entry.BalanceAfter = user.Balance
	if err := tx.Model(entry).UpdateColumn("balance_after", user.Balance).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// Recompute derives the balance from the ledger alone. Used by the
// reconciliation job to detect drift in the stored balance.
func Recompute(db *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := db.Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return math.Round(total*100) / 100, nil
}

// Entries returns a page of an account's ledger entries, newest first.
func Entries(db *gorm.DB, userID uint, limit, offset int) ([]models.LedgerEntry, int64, error) {
	query := db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// retriable reports whether err is transient rather than a domain rejection.
func retriable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrDuplicateEvent),
		errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrRecordNotFound):
		return false
	}
	return true
}
