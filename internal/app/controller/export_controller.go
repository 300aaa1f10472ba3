package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/app/repository"
	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/export"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"github.com/eberechi/shopsync-backend/internal/storage"
)

// ExportController generates spreadsheet reports. With S3 configured the
// file also lands in the bucket and the response carries its URL; without it
// the spreadsheet just streams back to the browser.
type ExportController struct {
	businessRepo  repository.BusinessRepository
	inventoryRepo repository.InventoryRepository
	salesRepo     repository.SalesRepository
	s3            *storage.S3Storage
}

func NewExportController(
	businessRepo repository.BusinessRepository,
	inventoryRepo repository.InventoryRepository,
	salesRepo repository.SalesRepository,
	s3 *storage.S3Storage,
) *ExportController {
	return &ExportController{
		businessRepo:  businessRepo,
		inventoryRepo: inventoryRepo,
		salesRepo:     salesRepo,
		s3:            s3,
	}
}

// ExportInventory downloads the catalog as a spreadsheet
// GET /api/v1/export/inventory
func (ctrl *ExportController) ExportInventory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	businessID := middleware.GetBusinessID(c)

	business, err := ctrl.businessRepo.FindByID(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return
	}

	items, err := ctrl.inventoryRepo.FindByBusiness(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list inventory")
		return
	}

	data, err := export.InventoryWorkbook(business.Name, items)
	if err != nil {
		log.Error("Inventory export failed", err, nil)
		apperrors.InternalError(c, "Could not generate the export file")
		return
	}

	ctrl.respond(c, export.Filename("inventory", time.Now()), data)
}

// ExportSales downloads recent sales as a spreadsheet
// GET /api/v1/export/sales?limit=500
func (ctrl *ExportController) ExportSales(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	businessID := middleware.GetBusinessID(c)

	business, err := ctrl.businessRepo.FindByID(businessID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return
	}

	records, err := ctrl.salesRepo.FindByBusiness(businessID, 500, 0)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list sales")
		return
	}

	data, err := export.SalesWorkbook(business.Name, records)
	if err != nil {
		log.Error("Sales export failed", err, nil)
		apperrors.InternalError(c, "Could not generate the export file")
		return
	}

	ctrl.respond(c, export.Filename("sales", time.Now()), data)
}

func (ctrl *ExportController) respond(c *gin.Context, filename string, data []byte) {
	if ctrl.s3 != nil {
		key := fmt.Sprintf("exports/%s", filename)
		if url, err := ctrl.s3.Upload(c.Request.Context(), key, data, export.ContentType()); err == nil {
			c.Header("X-Export-URL", url)
		}
		// Upload failure is not fatal; the download below still works.
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType(), data)
}
