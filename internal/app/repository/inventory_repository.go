package repository

import (
	"errors"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a deduction would push stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryRepository interface {
	Create(item *model.InventoryItem) error
	FindByID(id uint) (*model.InventoryItem, error)
	FindByProductName(businessID uint, name string) (*model.InventoryItem, error)
	FindByBusiness(businessID uint) ([]model.InventoryItem, error)
	FindLowStock(businessID uint, threshold float64) ([]model.InventoryItem, error)
	FindExpiringBefore(businessID uint, cutoff time.Time) ([]model.InventoryItem, error)
	Update(item *model.InventoryItem) error
	Delete(id uint) error
	// DeductStock atomically subtracts quantity and fails with
	// ErrInsufficientStock instead of going negative.
	DeductStock(tx *gorm.DB, id uint, quantity float64) error
	// ReplaceForBusiness drops every inventory row for the business and
	// inserts the pulled set inside one transaction, so readers never see a
	// half-replaced catalog.
	ReplaceForBusiness(businessID uint, items []model.InventoryItem) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(item *model.InventoryItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create inventory item", err, map[string]interface{}{
			"business_id":  item.BusinessID,
			"product_name": item.ProductName,
		})
		return err
	}

	logger.Debug("Inventory item created", map[string]interface{}{
		"item_id":      item.ID,
		"product_name": item.ProductName,
	})
	return nil
}

func (r *inventoryRepository) FindByID(id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByProductName(businessID uint, name string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.Where("business_id = ? AND product_name = ?", businessID, name).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByBusiness(businessID uint) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Where("business_id = ?", businessID).
		Order("product_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindLowStock(businessID uint, threshold float64) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Where("business_id = ? AND active = ? AND stock <= ?", businessID, true, threshold).
		Order("stock ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) FindExpiringBefore(businessID uint, cutoff time.Time) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Where("business_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", businessID, cutoff).
		Order("expiry_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) Update(item *model.InventoryItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update inventory item", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *inventoryRepository) Delete(id uint) error {
	return r.db.Delete(&model.InventoryItem{}, id).Error
}

func (r *inventoryRepository) DeductStock(tx *gorm.DB, id uint, quantity float64) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&model.InventoryItem{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *inventoryRepository) ReplaceForBusiness(businessID uint, items []model.InventoryItem) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("business_id = ?", businessID).
			Delete(&model.InventoryItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].BusinessID = businessID
			items[i].Synced = true
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace inventory for business", err, map[string]interface{}{
			"business_id": businessID,
			"count":       len(items),
		})
		return err
	}

	logger.Info("Inventory replaced from remote", map[string]interface{}{
		"business_id": businessID,
		"count":       len(items),
	})
	return nil
}
