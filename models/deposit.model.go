package models

import (
	"time"

	"gorm.io/gorm"
)

// DepositMethod defines how the user claims to have paid
type DepositMethod string

const (
	DepositMethodCard   DepositMethod = "CARD"
	DepositMethodBank   DepositMethod = "BANK"
	DepositMethodCrypto DepositMethod = "CRYPTO"
	DepositMethodMpesa  DepositMethod = "MPESA"
)

// DepositStatus defines the status of a deposit request
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusCompleted DepositStatus = "COMPLETED"
	DepositStatusFailed    DepositStatus = "FAILED"
)

// Deposit is a manual funding request. It is created by the user in
// PENDING and moved to a terminal state by exactly one admin decision;
// the ledger credit happens on approval, never on submission.
type Deposit struct {
	gorm.Model
	UserID uint          `gorm:"not null;index" json:"userId"`
	Amount float64       `gorm:"not null" json:"amount"`
	Method DepositMethod `gorm:"type:varchar(20);not null" json:"method"`

	// Manual payment details echoed back to the user
	CryptoAddress string `gorm:"type:varchar(255)" json:"cryptoAddress"`
	TransactionID string `gorm:"type:varchar(100)" json:"transactionId"` // M-Pesa confirmation code

	Status     DepositStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	AdminNote  string        `gorm:"type:text" json:"adminNote"`
	VerifiedBy uint          `gorm:"default:0" json:"verifiedBy"`
	VerifiedAt *time.Time    `json:"verifiedAt"`

	IsDeleted bool `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string {
	return "deposits"
}
