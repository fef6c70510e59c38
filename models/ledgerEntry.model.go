package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is the append-only record of every balance change.
// EventID is the causal event id ("deposit:<id>", an order reference,
// "adjust:<uuid>"); the unique index turns a replayed credit or debit
// into a duplicate-key error instead of a second application.
type LedgerEntry struct {
	gorm.Model
	EntryID      string  `gorm:"type:varchar(36);uniqueIndex" json:"entryId"`
	UserID       uint    `gorm:"not null;index" json:"userId"`
	EventID      string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"eventId"`
	Delta        float64 `gorm:"not null" json:"delta"` // signed: credit > 0, debit < 0
	BalanceAfter float64 `gorm:"not null" json:"balanceAfter"`
	Description  string  `gorm:"type:text" json:"description"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

func (entry *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	return nil
}
