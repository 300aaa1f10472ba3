package model

import (
	"time"

	"gorm.io/gorm"
)

type ItemType string

const (
	ItemPharmacy         ItemType = "pharmacy"
	ItemHardwareMaterial ItemType = "hardware_material"
	ItemProvisionStore   ItemType = "provision_store"
	ItemSupermarket      ItemType = "supermarket"
)

// InventoryItem is a stocked product. Stock is a float because items sold by
// weight or by tablet move in fractional units. Synced marks whether the row
// has been confirmed on the central server.
type InventoryItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	BusinessID     uint           `gorm:"not null;uniqueIndex:idx_inventory_business_product;uniqueIndex:idx_inventory_business_barcode" json:"business_id"`
	ProductName    string         `gorm:"not null;uniqueIndex:idx_inventory_business_product" json:"product_name"`
	Category       string         `json:"category"`
	PurchasePrice  float64        `json:"purchase_price"`
	SalePrice      float64        `gorm:"not null" json:"sale_price"`
	Stock          float64        `gorm:"default:0" json:"stock"`
	BatchNumber    string         `json:"batch_number"`
	UnitsPerPack   int            `gorm:"default:1" json:"units_per_pack"`
	UnitPrice      float64        `json:"unit_price"`
	ItemType       ItemType       `gorm:"type:varchar(50);default:'pharmacy'" json:"item_type"`
	ExpiryDate     *time.Time     `json:"expiry_date,omitempty"`
	FixedPrice     bool           `gorm:"default:false" json:"fixed_price"`
	FixedSalePrice float64        `json:"fixed_sale_price"`
	Active         bool           `gorm:"default:true" json:"active"`
	Barcode        *string        `gorm:"uniqueIndex:idx_inventory_business_barcode" json:"barcode,omitempty"`
	MarkupPercent  float64        `json:"markup_percent"`
	Synced         bool           `gorm:"default:false" json:"synced"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"-"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
