package repository

import (
	"errors"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"gorm.io/gorm"
)

// ErrNoneAvailable is returned when a rental asks for more units than the
// business currently holds.
var ErrNoneAvailable = errors.New("no units available for hire")

type HireRepository interface {
	CreateItem(item *model.HirableItem) error
	FindItems(businessID uint) ([]model.HirableItem, error)
	// RentOut creates the rental record and decrements the available quantity
	// in one transaction, refusing to go below zero.
	RentOut(rental *model.RentalRecord) error
	// MarkReturned closes the rental and restores the quantity.
	MarkReturned(rentalID uint) error
	RecordReturn(ret *model.ReturnRecord) error
	FindReturns(businessID uint) ([]model.ReturnRecord, error)
}

type hireRepository struct {
	db *gorm.DB
}

func NewHireRepository(db *gorm.DB) HireRepository {
	return &hireRepository{db: db}
}

func (r *hireRepository) CreateItem(item *model.HirableItem) error {
	return r.db.Create(item).Error
}

func (r *hireRepository) FindItems(businessID uint) ([]model.HirableItem, error) {
	var items []model.HirableItem
	err := r.db.Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *hireRepository) RentOut(rental *model.RentalRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.HirableItem{}).
			Where("id = ? AND quantity >= ?", rental.HirableItemID, rental.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", rental.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNoneAvailable
		}
		return tx.Create(rental).Error
	})
}

func (r *hireRepository) MarkReturned(rentalID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var rental model.RentalRecord
		if err := tx.First(&rental, rentalID).Error; err != nil {
			return err
		}
		if rental.Returned {
			return nil
		}

		if err := tx.Model(&model.RentalRecord{}).
			Where("id = ?", rentalID).
			Update("returned", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.HirableItem{}).
			Where("id = ?", rental.HirableItemID).
			Update("quantity", gorm.Expr("quantity + ?", rental.Quantity)).Error
	})
}

func (r *hireRepository) RecordReturn(ret *model.ReturnRecord) error {
	return r.db.Create(ret).Error
}

func (r *hireRepository) FindReturns(businessID uint) ([]model.ReturnRecord, error) {
	var returns []model.ReturnRecord
	err := r.db.Where("business_id = ?", businessID).
		Order("returned_at DESC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}
