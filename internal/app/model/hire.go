package model

import (
	"time"

	"gorm.io/gorm"
)

// HirableItem is equipment a hardware business rents out rather than sells.
type HirableItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	Name       string         `gorm:"not null" json:"name"`
	Quantity   int            `gorm:"default:0" json:"quantity"`
	DailyRate  float64        `json:"daily_rate"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (HirableItem) TableName() string {
	return "hirable_items"
}

type RentalRecord struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	BusinessID    uint       `gorm:"not null;index" json:"business_id"`
	HirableItemID uint       `gorm:"not null;index" json:"hirable_item_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	Quantity      int        `gorm:"default:1" json:"quantity"`
	RentedAt      time.Time  `json:"rented_at"`
	DueBack       *time.Time `json:"due_back,omitempty"`
	Returned      bool       `gorm:"default:false" json:"returned"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	HirableItem *HirableItem `gorm:"foreignKey:HirableItemID" json:"-"`
}

func (RentalRecord) TableName() string {
	return "rental_records"
}

// ReturnRecord captures goods a customer brought back after a sale.
type ReturnRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BusinessID    uint      `gorm:"not null;index" json:"business_id"`
	SalesRecordID *uint     `gorm:"index" json:"sales_record_id,omitempty"`
	ProductName   string    `gorm:"not null" json:"product_name"`
	Quantity      float64   `json:"quantity"`
	Amount        float64   `json:"amount"`
	Reason        string    `json:"reason"`
	ReturnedAt    time.Time `json:"returned_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ReturnRecord) TableName() string {
	return "return_records"
}
