package model

import (
	"time"

	"gorm.io/gorm"
)

// Company is a supplier or wholesale partner a business trades with.
type Company struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	Name       string         `gorm:"not null" json:"name"`
	Contact    string         `json:"contact"`
	Email      string         `json:"email"`
	Balance    float64        `gorm:"default:0" json:"balance"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Transactions []CompanyTransaction `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

type CompanyTransactionKind string

const (
	CompanyPurchase CompanyTransactionKind = "purchase"
	CompanyPayment  CompanyTransactionKind = "payment"
)

type CompanyTransaction struct {
	ID         uint                   `gorm:"primarykey" json:"id"`
	CompanyID  uint                   `gorm:"not null;index" json:"company_id"`
	Kind       CompanyTransactionKind `gorm:"type:varchar(20)" json:"kind"`
	Amount     float64                `gorm:"not null" json:"amount"`
	Note       string                 `json:"note"`
	OccurredAt time.Time              `json:"occurred_at"`
	CreatedAt  time.Time              `json:"created_at"`
}

func (CompanyTransaction) TableName() string {
	return "company_transactions"
}
