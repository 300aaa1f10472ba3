package model

import (
	"time"

	"gorm.io/gorm"
)

type BusinessType string

const (
	BusinessPharmacy       BusinessType = "pharmacy"
	BusinessHardware       BusinessType = "hardware"
	BusinessSupermarket    BusinessType = "supermarket"
	BusinessProvisionStore BusinessType = "provision_store"
)

// Business is the tenant root. Every user, inventory item and sales record
// belongs to exactly one business. RemoteID stays nil until the registration
// flow has completed against the central server; no pull or push may run for
// a business without it.
type Business struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	RemoteID     *string        `gorm:"uniqueIndex" json:"remote_id,omitempty"`
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`
	Address      string         `json:"address"`
	Location     string         `json:"location"`
	Contact      string         `json:"contact"`
	Email        string         `json:"email"`
	Type         BusinessType   `gorm:"type:varchar(50);default:'pharmacy'" json:"type"`
	Active       bool           `gorm:"default:true" json:"active"`
	LastSyncedAt *time.Time     `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Users          []User          `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	InventoryItems []InventoryItem `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	SalesRecords   []SalesRecord   `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// Registered reports whether the central server has assigned a remote id.
func (b *Business) Registered() bool {
	return b.RemoteID != nil && *b.RemoteID != ""
}
