package model

import (
	"time"

	"gorm.io/gorm"
)

// FutureOrder is a customer request for goods not currently in stock.
type FutureOrder struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	BusinessID    uint           `gorm:"not null;index" json:"business_id"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Details       string         `gorm:"type:text" json:"details"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
	Fulfilled     bool           `gorm:"default:false" json:"fulfilled"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FutureOrder) TableName() string {
	return "future_orders"
}
