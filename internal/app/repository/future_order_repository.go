package repository

import (
	"github.com/eberechi/shopsync-backend/internal/app/model"
	"gorm.io/gorm"
)

type FutureOrderRepository interface {
	Create(order *model.FutureOrder) error
	FindByID(id uint) (*model.FutureOrder, error)
	// FindOpen lists unfulfilled orders, soonest due date first. Orders with
	// no due date sort last.
	FindOpen(businessID uint) ([]model.FutureOrder, error)
	MarkFulfilled(id uint) error
}

type futureOrderRepository struct {
	db *gorm.DB
}

func NewFutureOrderRepository(db *gorm.DB) FutureOrderRepository {
	return &futureOrderRepository{db: db}
}

func (r *futureOrderRepository) Create(order *model.FutureOrder) error {
	return r.db.Create(order).Error
}

func (r *futureOrderRepository) FindByID(id uint) (*model.FutureOrder, error) {
	var order model.FutureOrder
	if err := r.db.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *futureOrderRepository) FindOpen(businessID uint) ([]model.FutureOrder, error) {
	var orders []model.FutureOrder
	err := r.db.Where("business_id = ? AND fulfilled = ?", businessID, false).
		Order("due_date IS NULL, due_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *futureOrderRepository) MarkFulfilled(id uint) error {
	return r.db.Model(&model.FutureOrder{}).
		Where("id = ?", id).
		Update("fulfilled", true).Error
}
