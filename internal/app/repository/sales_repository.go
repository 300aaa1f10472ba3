package repository

import (
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

type SalesRepository interface {
	Create(record *model.SalesRecord) error
	CreateInTx(tx *gorm.DB, record *model.SalesRecord) error
	FindByID(id uint) (*model.SalesRecord, error)
	FindByBusiness(businessID uint, limit, offset int) ([]model.SalesRecord, error)
	// FindUnsynced returns every record not yet confirmed on the central
	// server, oldest first, line items preloaded.
	FindUnsynced(businessID uint) ([]model.SalesRecord, error)
	// MarkSynced flips the synced flag for the whole batch in one
	// transaction. Either every id is marked or none are.
	MarkSynced(ids []uint) error
	ExistsByReceipt(receiptNumber string) (bool, error)
	CountUnsynced(businessID uint) (int64, error)
}

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) Create(record *model.SalesRecord) error {
	return r.CreateInTx(r.db, record)
}

func (r *salesRepository) CreateInTx(tx *gorm.DB, record *model.SalesRecord) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(record).Error; err != nil {
		logger.Error("Failed to create sales record", err, map[string]interface{}{
			"business_id":    record.BusinessID,
			"receipt_number": record.ReceiptNumber,
		})
		return err
	}

	logger.Debug("Sales record created", map[string]interface{}{
		"sales_id":       record.ID,
		"receipt_number": record.ReceiptNumber,
		"item_count":     len(record.Items),
	})
	return nil
}

func (r *salesRepository) FindByID(id uint) (*model.SalesRecord, error) {
	var record model.SalesRecord
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sold_items.position ASC")
	}).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *salesRepository) FindByBusiness(businessID uint, limit, offset int) ([]model.SalesRecord, error) {
	var records []model.SalesRecord
	query := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sold_items.position ASC")
	}).Where("business_id = ?", businessID).
		Order("sold_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *salesRepository) FindUnsynced(businessID uint) ([]model.SalesRecord, error) {
	var records []model.SalesRecord
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sold_items.position ASC")
	}).Where("business_id = ? AND synced = ?", businessID, false).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *salesRepository) MarkSynced(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.SalesRecord{}).
			Where("id IN ?", ids).
			Update("synced", true).Error
	})
	if err != nil {
		logger.Error("Failed to mark sales records synced", err, map[string]interface{}{
			"count": len(ids),
		})
		return err
	}

	logger.Info("Sales records marked synced", map[string]interface{}{
		"count": len(ids),
	})
	return nil
}

func (r *salesRepository) ExistsByReceipt(receiptNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&model.SalesRecord{}).
		Where("receipt_number = ?", receiptNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *salesRepository) CountUnsynced(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.SalesRecord{}).
		Where("business_id = ? AND synced = ?", businessID, false).
		Count(&count).Error
	return count, err
}
