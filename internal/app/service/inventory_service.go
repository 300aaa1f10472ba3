package service

import (
	"errors"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemNameTaken     = errors.New("an item with this product name already exists")
	ErrItemWrongBusiness = errors.New("inventory item belongs to a different business")
)

// CreateItemInput carries the fields an operator supplies for a new item.
type CreateItemInput struct {
	ProductName    string
	Category       string
	PurchasePrice  float64
	SalePrice      float64
	Stock          float64
	BatchNumber    string
	UnitsPerPack   int
	UnitPrice      float64
	ItemType       string
	ExpiryDate     *time.Time
	FixedPrice     bool
	FixedSalePrice float64
	Barcode        *string
	MarkupPercent  float64
}

type UpdateItemInput struct {
	Category      *string
	PurchasePrice *float64
	SalePrice     *float64
	Stock         *float64
	BatchNumber   *string
	ExpiryDate    *time.Time
	Active        *bool
	Barcode       *string
	MarkupPercent *float64
}

type InventoryService interface {
	CreateItem(businessID uint, input CreateItemInput) (*model.InventoryItem, error)
	GetItem(businessID, itemID uint) (*model.InventoryItem, error)
	ListItems(businessID uint) ([]model.InventoryItem, error)
	ListLowStock(businessID uint, threshold float64) ([]model.InventoryItem, error)
	ListExpiring(businessID uint, within time.Duration) ([]model.InventoryItem, error)
	UpdateItem(businessID, itemID uint, input UpdateItemInput) (*model.InventoryItem, error)
	DeleteItem(businessID, itemID uint) error
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

func (s *inventoryService) CreateItem(businessID uint, input CreateItemInput) (*model.InventoryItem, error) {
	existing, err := s.inventoryRepo.FindByProductName(businessID, input.ProductName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrItemNameTaken
	}

	item := &model.InventoryItem{
		BusinessID:     businessID,
		ProductName:    input.ProductName,
		Category:       input.Category,
		PurchasePrice:  input.PurchasePrice,
		SalePrice:      input.SalePrice,
		Stock:          input.Stock,
		BatchNumber:    input.BatchNumber,
		UnitsPerPack:   input.UnitsPerPack,
		UnitPrice:      input.UnitPrice,
		ItemType:       model.ItemType(input.ItemType),
		ExpiryDate:     input.ExpiryDate,
		FixedPrice:     input.FixedPrice,
		FixedSalePrice: input.FixedSalePrice,
		Active:         true,
		Barcode:        input.Barcode,
		MarkupPercent:  input.MarkupPercent,
	}

	if err := s.inventoryRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Inventory item created", map[string]interface{}{
		"business_id":  businessID,
		"item_id":      item.ID,
		"product_name": item.ProductName,
	})
	return item, nil
}

func (s *inventoryService) GetItem(businessID, itemID uint) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.BusinessID != businessID {
		return nil, ErrItemWrongBusiness
	}
	return item, nil
}

func (s *inventoryService) ListItems(businessID uint) ([]model.InventoryItem, error) {
	return s.inventoryRepo.FindByBusiness(businessID)
}

func (s *inventoryService) ListLowStock(businessID uint, threshold float64) ([]model.InventoryItem, error) {
	if threshold <= 0 {
		threshold = 10
	}
	return s.inventoryRepo.FindLowStock(businessID, threshold)
}

func (s *inventoryService) ListExpiring(businessID uint, within time.Duration) ([]model.InventoryItem, error) {
	if within <= 0 {
		within = 30 * 24 * time.Hour
	}
	return s.inventoryRepo.FindExpiringBefore(businessID, time.Now().Add(within))
}

func (s *inventoryService) UpdateItem(businessID, itemID uint, input UpdateItemInput) (*model.InventoryItem, error) {
	item, err := s.GetItem(businessID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.PurchasePrice != nil {
		item.PurchasePrice = *input.PurchasePrice
	}
	if input.SalePrice != nil {
		item.SalePrice = *input.SalePrice
	}
	if input.Stock != nil {
		item.Stock = *input.Stock
	}
	if input.BatchNumber != nil {
		item.BatchNumber = *input.BatchNumber
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = input.ExpiryDate
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
	if input.Barcode != nil {
		item.Barcode = input.Barcode
	}
	if input.MarkupPercent != nil {
		item.MarkupPercent = *input.MarkupPercent
	}

	// Local edits need to reach the server on the next pull-compare, so the
	// item drops out of the synced set.
	item.Synced = false

	if err := s.inventoryRepo.Update(item); err != nil {
		return nil, err
	}

	logger.Info("Inventory item updated", map[string]interface{}{
		"business_id": businessID,
		"item_id":     item.ID,
	})
	return item, nil
}

func (s *inventoryService) DeleteItem(businessID, itemID uint) error {
	if _, err := s.GetItem(businessID, itemID); err != nil {
		return err
	}
	if err := s.inventoryRepo.Delete(itemID); err != nil {
		return err
	}

	logger.Info("Inventory item deleted", map[string]interface{}{
		"business_id": businessID,
		"item_id":     itemID,
	})
	return nil
}
