package model

import (
	"time"

	"gorm.io/gorm"
)

// SalesRecord is a completed point-of-sale transaction. The receipt number is
// generated on the client and, together with the id, forms the idempotency
// key the central server uses to detect duplicate pushes. Synced flips to
// true exactly once, on confirmed remote acceptance.
type SalesRecord struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	BusinessID      uint           `gorm:"not null;index" json:"business_id"`
	SoldAt          time.Time      `gorm:"not null" json:"sold_at"`
	CustomerPhone   *string        `json:"customer_phone,omitempty"`
	SalesPerson     string         `json:"sales_person"`
	GrandTotal      float64        `gorm:"not null" json:"grand_total"`
	PaymentMethod   string         `gorm:"default:'cash'" json:"payment_method"`
	ReceiptNumber   string         `gorm:"uniqueIndex;not null" json:"receipt_number"`
	ReferenceNumber *string        `json:"reference_number,omitempty"`
	Synced          bool           `gorm:"default:false;index" json:"synced"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Business *Business  `gorm:"foreignKey:BusinessID" json:"-"`
	Items    []SoldItem `gorm:"foreignKey:SalesRecordID;constraint:OnDelete:CASCADE" json:"items"`
}

func (SalesRecord) TableName() string {
	return "sales_records"
}

// SoldItem is one line of a sales record. Lines are immutable once attached;
// Position preserves the order they were rung up in.
type SoldItem struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	SalesRecordID uint    `gorm:"not null;index" json:"sales_record_id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `gorm:"not null" json:"product_name"`
	Quantity      float64 `gorm:"not null" json:"quantity"`
	UnitType      string  `json:"unit_type"`
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
	Position      int     `gorm:"default:0" json:"position"`
}

func (SoldItem) TableName() string {
	return "sold_items"
}
