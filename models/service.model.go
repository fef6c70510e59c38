package models

import "gorm.io/gorm"

// Service is a catalog item. Read-only from the order workflow's
// perspective; only admins create or change services.
type Service struct {
	gorm.Model
	Name         string  `gorm:"not null" json:"name"`
	Category     string  `gorm:"default:'general'" json:"category"`
	Description  string  `gorm:"type:text" json:"description"`
	PricePer1000 float64 `gorm:"column:price_per_1000;not null" json:"pricePer1000"`
	MinQuantity  int     `gorm:"default:100" json:"minQuantity"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
}

func (Service) TableName() string {
	return "services"
}
