package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/app/service"
	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/middleware"
)

type InventoryController struct {
	inventoryService service.InventoryService
}

func NewInventoryController(inventoryService service.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

type CreateItemRequest struct {
	ProductName    string  `json:"product_name" binding:"required"`
	Category       string  `json:"category"`
	PurchasePrice  float64 `json:"purchase_price"`
	SalePrice      float64 `json:"sale_price" binding:"required,gt=0"`
	Stock          float64 `json:"stock"`
	BatchNumber    string  `json:"batch_number"`
	UnitsPerPack   int     `json:"units_per_pack"`
	UnitPrice      float64 `json:"unit_price"`
	ItemType       string  `json:"item_type"`
	ExpiryDate     string  `json:"expiry_date"`
	FixedPrice     bool    `json:"fixed_price"`
	FixedSalePrice float64 `json:"fixed_sale_price"`
	Barcode        *string `json:"barcode"`
	MarkupPercent  float64 `json:"markup_percent"`
}

type UpdateItemRequest struct {
	Category      *string  `json:"category"`
	PurchasePrice *float64 `json:"purchase_price"`
	SalePrice     *float64 `json:"sale_price"`
	Stock         *float64 `json:"stock"`
	BatchNumber   *string  `json:"batch_number"`
	ExpiryDate    *string  `json:"expiry_date"`
	Active        *bool    `json:"active"`
	Barcode       *string  `json:"barcode"`
	MarkupPercent *float64 `json:"markup_percent"`
}

// CreateItem adds a product to the catalog
// POST /api/v1/inventory
func (ctrl *InventoryController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product name and a positive sale price are required")
		return
	}

	input := service.CreateItemInput{
		ProductName:    req.ProductName,
		Category:       req.Category,
		PurchasePrice:  req.PurchasePrice,
		SalePrice:      req.SalePrice,
		Stock:          req.Stock,
		BatchNumber:    req.BatchNumber,
		UnitsPerPack:   req.UnitsPerPack,
		UnitPrice:      req.UnitPrice,
		ItemType:       req.ItemType,
		FixedPrice:     req.FixedPrice,
		FixedSalePrice: req.FixedSalePrice,
		Barcode:        req.Barcode,
		MarkupPercent:  req.MarkupPercent,
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Expiry date must be YYYY-MM-DD")
			return
		}
		input.ExpiryDate = &expiry
	}

	item, err := ctrl.inventoryService.CreateItem(middleware.GetBusinessID(c), input)
	if err != nil {
		if errors.Is(err, service.ErrItemNameTaken) {
			apperrors.Conflict(c, apperrors.InventoryProductExists, "A product with this name already exists")
			return
		}
		log.Error("Failed to create inventory item", err, map[string]interface{}{
			"product_name": req.ProductName,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create inventory item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListItems returns the full catalog for the operator's business
// GET /api/v1/inventory
func (ctrl *InventoryController) ListItems(c *gin.Context) {
	items, err := ctrl.inventoryService.ListItems(middleware.GetBusinessID(c))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list inventory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetItem returns one product
// GET /api/v1/inventory/:id
func (ctrl *InventoryController) GetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.inventoryService.GetItem(middleware.GetBusinessID(c), itemID)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// ListLowStock returns items at or below the threshold
// GET /api/v1/inventory/low_stock?threshold=10
func (ctrl *InventoryController) ListLowStock(c *gin.Context) {
	threshold, _ := strconv.ParseFloat(c.DefaultQuery("threshold", "10"), 64)

	items, err := ctrl.inventoryService.ListLowStock(middleware.GetBusinessID(c), threshold)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list low stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// ListExpiring returns items expiring within the given number of days
// GET /api/v1/inventory/expiring?days=30
func (ctrl *InventoryController) ListExpiring(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Days must be a positive number")
		return
	}

	items, err := ctrl.inventoryService.ListExpiring(middleware.GetBusinessID(c), time.Duration(days)*24*time.Hour)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list expiring")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// UpdateItem edits a product
// PUT /api/v1/inventory/:id
func (ctrl *InventoryController) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid update payload")
		return
	}

	input := service.UpdateItemInput{
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		BatchNumber:   req.BatchNumber,
		Active:        req.Active,
		Barcode:       req.Barcode,
		MarkupPercent: req.MarkupPercent,
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Expiry date must be YYYY-MM-DD")
			return
		}
		input.ExpiryDate = &expiry
	}

	item, err := ctrl.inventoryService.UpdateItem(middleware.GetBusinessID(c), itemID, input)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes a product from the catalog
// DELETE /api/v1/inventory/:id
func (ctrl *InventoryController) DeleteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.inventoryService.DeleteItem(middleware.GetBusinessID(c), itemID); err != nil {
		respondInventoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func respondInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		apperrors.NotFound(c, apperrors.InventoryNotFound, "Product not found")
	case errors.Is(err, service.ErrItemWrongBusiness):
		apperrors.Forbidden(c, "This product belongs to another business")
	case errors.Is(err, service.ErrItemNameTaken):
		apperrors.Conflict(c, apperrors.InventoryProductExists, "A product with this name already exists")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "inventory")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
