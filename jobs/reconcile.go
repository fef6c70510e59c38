package jobs

import (
	"log"
	"math"

	"smmpanel/ledger"
	"smmpanel/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// driftTolerance absorbs decimal(15,2) rounding in the stored balance.
const driftTolerance = 0.005

// StartReconciler schedules the ledger reconciliation job. The job is
// read-only: it recomputes every balance from the ledger entries and
// logs accounts whose stored balance has drifted.
func StartReconciler(db *gorm.DB, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { Reconcile(db) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("Ledger reconciliation scheduled: %s", spec)
	return c, nil
}

// Reconcile walks all accounts once and returns the number of drifted balances.
func Reconcile(db *gorm.DB) int {
	var users []models.User
	if err := db.Where("is_deleted = false").Find(&users).Error; err != nil {
		log.Printf("Reconciliation failed to list accounts: %v", err)
		return 0
	}

	drifted := 0
	for _, user := range users {
		derived, err := ledger.Recompute(db, user.ID)
		if err != nil {
			log.Printf("Reconciliation failed for user %d: %v", user.ID, err)
			continue
		}
		if math.Abs(derived-user.Balance) > driftTolerance {
			drifted++
			log.Printf("Balance drift for user %d: stored=%.2f ledger=%.2f", user.ID, user.Balance, derived)
		}
	}

	if drifted == 0 {
		log.Printf("Reconciliation complete: %d accounts, no drift", len(users))
	} else {
		log.Printf("Reconciliation complete: %d accounts, %d drifted", len(users), drifted)
	}
	return drifted
}
