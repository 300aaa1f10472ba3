package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/app/service"
	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/middleware"
)

type SalesController struct {
	salesService service.SalesService
}

func NewSalesController(salesService service.SalesService) *SalesController {
	return &SalesController{salesService: salesService}
}

// CreateSale rings up a sale at the till
// POST /api/v1/sales
func (ctrl *SalesController) CreateSale(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A sale needs at least one item with a positive quantity")
		return
	}

	record, err := ctrl.salesService.RecordSale(middleware.GetBusinessID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySale):
			apperrors.BadRequest(c, apperrors.SalesEmptyItems, "A sale needs at least one item")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.InventoryInsufficientStock, "Not enough stock to complete this sale")
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.InventoryNotFound, "One of the products no longer exists")
		case errors.Is(err, service.ErrItemWrongBusiness):
			apperrors.Forbidden(c, "One of the products belongs to another business")
		default:
			log.Error("Failed to record sale", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "record sale")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale": record})
}

// ListSales returns recent sales, newest first
// GET /api/v1/sales?limit=50&offset=0
func (ctrl *SalesController) ListSales(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := ctrl.salesService.ListSales(middleware.GetBusinessID(c), limit, offset)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": records, "count": len(records)})
}

// GetSale returns one sale with its line items
// GET /api/v1/sales/:id
func (ctrl *SalesController) GetSale(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := ctrl.salesService.GetSale(middleware.GetBusinessID(c), saleID)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			apperrors.NotFound(c, apperrors.SalesNotFound, "Sales record not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get sale")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": record})
}
