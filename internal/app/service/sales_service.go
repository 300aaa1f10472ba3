package service

import (
	"errors"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"github.com/eberechi/shopsync-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrSaleNotFound      = errors.New("sales record not found")
	ErrEmptySale         = errors.New("a sale needs at least one item")
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// SaleItemInput is one line rung up at the till. UnitType "unit" sells loose
// units priced by UnitPrice; anything else sells whole packs at the sale
// price.
type SaleItemInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	UnitType  string  `json:"unit_type"`
}

type CreateSaleInput struct {
	SoldAt          *time.Time      `json:"sold_at"`
	CustomerPhone   *string         `json:"customer_phone"`
	SalesPerson     string          `json:"sales_person"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number"`
	Items           []SaleItemInput `json:"items" binding:"required,min=1"`
}

type SalesService interface {
	RecordSale(businessID uint, input CreateSaleInput) (*model.SalesRecord, error)
	GetSale(businessID, saleID uint) (*model.SalesRecord, error)
	ListSales(businessID uint, limit, offset int) ([]model.SalesRecord, error)
	CountPendingSync(businessID uint) (int64, error)
}

type salesService struct {
	db            *gorm.DB
	salesRepo     repository.SalesRepository
	inventoryRepo repository.InventoryRepository
}

func NewSalesService(
	db *gorm.DB,
	salesRepo repository.SalesRepository,
	inventoryRepo repository.InventoryRepository,
) SalesService {
	return &salesService{
		db:            db,
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
	}
}

// RecordSale creates the sales record and deducts stock for every line in one
// transaction. If any line would push stock negative the whole sale fails and
// nothing is deducted.
func (s *salesService) RecordSale(businessID uint, input CreateSaleInput) (*model.SalesRecord, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptySale
	}

	soldAt := time.Now()
	if input.SoldAt != nil {
		soldAt = *input.SoldAt
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	record := &model.SalesRecord{
		BusinessID:      businessID,
		SoldAt:          soldAt,
		CustomerPhone:   input.CustomerPhone,
		SalesPerson:     input.SalesPerson,
		PaymentMethod:   paymentMethod,
		ReceiptNumber:   util.GenerateReceiptNumber(soldAt),
		ReferenceNumber: input.ReferenceNumber,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var grandTotal float64
		for i, line := range input.Items {
			item, err := s.inventoryRepo.FindByID(line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrItemNotFound
				}
				return err
			}
			if item.BusinessID != businessID {
				return ErrItemWrongBusiness
			}

			unitPrice := resolvePrice(item, line.UnitType)
			lineTotal := unitPrice * line.Quantity

			deduction := line.Quantity
			if line.UnitType == "unit" && item.UnitsPerPack > 1 {
				deduction = line.Quantity / float64(item.UnitsPerPack)
			}
			if err := s.inventoryRepo.DeductStock(tx, item.ID, deduction); err != nil {
				return err
			}

			record.Items = append(record.Items, model.SoldItem{
				ProductID:   item.ID,
				ProductName: item.ProductName,
				Quantity:    line.Quantity,
				UnitType:    line.UnitType,
				UnitPrice:   unitPrice,
				LineTotal:   lineTotal,
				Position:    i,
			})
			grandTotal += lineTotal
		}

		record.GrandTotal = grandTotal
		return s.salesRepo.CreateInTx(tx, record)
	})
	if err != nil {
		logger.Warn("Sale rejected", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Sale recorded", map[string]interface{}{
		"business_id":    businessID,
		"sales_id":       record.ID,
		"receipt_number": record.ReceiptNumber,
		"grand_total":    record.GrandTotal,
		"item_count":     len(record.Items),
	})
	return record, nil
}

func (s *salesService) GetSale(businessID, saleID uint) (*model.SalesRecord, error) {
	record, err := s.salesRepo.FindByID(saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	if record.BusinessID != businessID {
		return nil, ErrSaleNotFound
	}
	return record, nil
}

func (s *salesService) ListSales(businessID uint, limit, offset int) ([]model.SalesRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.salesRepo.FindByBusiness(businessID, limit, offset)
}

func (s *salesService) CountPendingSync(businessID uint) (int64, error) {
	return s.salesRepo.CountUnsynced(businessID)
}

func resolvePrice(item *model.InventoryItem, unitType string) float64 {
	if unitType == "unit" && item.UnitPrice > 0 {
		return item.UnitPrice
	}
	if item.FixedPrice && item.FixedSalePrice > 0 {
		return item.FixedSalePrice
	}
	return item.SalePrice
}
