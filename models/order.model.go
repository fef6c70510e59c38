package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus defines the delivery state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusActive     OrderStatus = "ACTIVE"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
)

// Order is a purchased engagement package. Reference is generated
// before the ledger debit so the charge and the order row share one
// causal event id; TotalAmount is frozen at placement and never
// recomputed from the catalog.
type Order struct {
	gorm.Model
	Reference string `gorm:"type:varchar(36);uniqueIndex" json:"reference"`
	UserID    uint   `gorm:"not null;index" json:"userId"`
	ServiceID uint   `gorm:"not null;index" json:"serviceId"`

	Quantity    int         `gorm:"not null" json:"quantity"`
	Link        string      `gorm:"type:varchar(500);not null" json:"link"`
	TotalAmount float64     `gorm:"not null" json:"totalAmount"`
	Status      OrderStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	// Delivery telemetry, informational only
	StartTime    *time.Time `json:"startTime"`
	BeforeCount  *int       `json:"beforeCount"`
	CurrentCount *int       `json:"currentCount"`

	Service Service `gorm:"foreignKey:ServiceID" json:"service"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

func (order *Order) BeforeCreate(tx *gorm.DB) error {
	if order.Reference == "" {
		order.Reference = uuid.NewString()
	}
	return nil
}
