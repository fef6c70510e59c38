package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `gorm:"default:''" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:'USER'" json:"role"` // USER, ADMIN

	// Balance is written only by the ledger package. Every change goes
	// through a guarded update paired with a ledger entry, so the stored
	// value always equals the sum of the account's ledger deltas.
	Balance float64 `gorm:"type:decimal(15,2);default:0" json:"balance"`

	LastLogin time.Time `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted bool      `gorm:"default:false" json:"isDeleted"`
}
