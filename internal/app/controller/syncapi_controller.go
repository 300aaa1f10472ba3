package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"github.com/eberechi/shopsync-backend/internal/sync"
	"github.com/eberechi/shopsync-backend/pkg/redis"
)

// SyncAPIController is the central-side surface that local installs sync
// against. Every route sits behind the API key middleware; payload shapes are
// shared with the sync engine so both halves stay in lockstep.
type SyncAPIController struct {
	businessRepo  repository.BusinessRepository
	userRepo      repository.UserRepository
	inventoryRepo repository.InventoryRepository
	salesRepo     repository.SalesRepository
	redisEnabled  bool
}

func NewSyncAPIController(
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	inventoryRepo repository.InventoryRepository,
	salesRepo repository.SalesRepository,
	redisEnabled bool,
) *SyncAPIController {
	return &SyncAPIController{
		businessRepo:  businessRepo,
		userRepo:      userRepo,
		inventoryRepo: inventoryRepo,
		salesRepo:     salesRepo,
		redisEnabled:  redisEnabled,
	}
}

// RegisterBusiness is get-or-create: a business already known by name gets
// its existing id back with a conflict status, so a local install that lost
// its registration can always recover it.
// POST /api/v1/register_business_for_sync
func (ctrl *SyncAPIController) RegisterBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req sync.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Business name is required")
		return
	}

	existing, err := ctrl.businessRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return
	}
	if existing != nil {
		remoteID := ""
		if existing.RemoteID != nil {
			remoteID = *existing.RemoteID
		}
		log.Info("Registration request for known business", map[string]interface{}{
			"name":      req.Name,
			"remote_id": remoteID,
		})
		c.JSON(http.StatusConflict, sync.RegisterResponse{
			BusinessID: remoteID,
			Message:    "Business is already registered",
		})
		return
	}

	remoteID := uuid.NewString()
	business := &model.Business{
		RemoteID: &remoteID,
		Name:     req.Name,
		Address:  req.Address,
		Location: req.Location,
		Contact:  req.Contact,
		Email:    req.Email,
		Type:     model.BusinessType(req.Type),
		Active:   true,
	}
	if err := ctrl.businessRepo.Create(business); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create business")
		return
	}

	log.Info("Business registered", map[string]interface{}{
		"name":      req.Name,
		"remote_id": remoteID,
	})
	c.JSON(http.StatusOK, sync.RegisterResponse{
		BusinessID: remoteID,
		Message:    "Business registered successfully",
	})
}

// GetBusiness returns the authoritative business profile
// GET /api/v1/businesses/:id
func (ctrl *SyncAPIController) GetBusiness(c *gin.Context) {
	business, ok := ctrl.findByRemoteID(c)
	if !ok {
		return
	}

	active := business.Active
	c.JSON(http.StatusOK, sync.BusinessPayload{
		BusinessID: c.Param("id"),
		Name:       business.Name,
		Address:    business.Address,
		Location:   business.Location,
		Contact:    business.Contact,
		Email:      business.Email,
		Type:       string(business.Type),
		Active:     &active,
	})
}

// GetUsers returns every operator account for the business
// GET /api/v1/users/business/:id
func (ctrl *SyncAPIController) GetUsers(c *gin.Context) {
	business, ok := ctrl.findByRemoteID(c)
	if !ok {
		return
	}

	users, err := ctrl.userRepo.FindByBusiness(business.ID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	payloads := make([]sync.UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, sync.UserToPayload(user))
	}
	c.JSON(http.StatusOK, payloads)
}

// GetInventory returns the authoritative catalog for the business
// GET /api/v1/inventory/business/:id
func (ctrl *SyncAPIController) GetInventory(c *gin.Context) {
	business, ok := ctrl.findByRemoteID(c)
	if !ok {
		return
	}

	items, err := ctrl.inventoryRepo.FindByBusiness(business.ID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list inventory")
		return
	}

	payloads := make([]sync.InventoryItemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, sync.ItemToPayload(item))
	}
	c.JSON(http.StatusOK, payloads)
}

// ReceiveSales ingests a batch of sales pushed from a local install. Each
// record succeeds or fails on its own; the response tells the client which
// receipts were duplicates and which were rejected outright.
// POST /api/v1/sales
func (ctrl *SyncAPIController) ReceiveSales(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req sync.SalesPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid sales batch")
		return
	}

	business, err := ctrl.businessRepo.FindByRemoteID(req.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Unknown business id")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return
	}

	resp := sync.SalesPushResponse{}
	for _, payload := range req.Sales {
		if pushErr := ctrl.ingestSale(c, business.ID, req.BusinessID, payload); pushErr != nil {
			resp.Errors = append(resp.Errors, *pushErr)
		} else {
			resp.Recorded++
		}
	}

	log.Info("Sales batch processed", map[string]interface{}{
		"business_id": req.BusinessID,
		"received":    len(req.Sales),
		"recorded":    resp.Recorded,
		"errors":      len(resp.Errors),
	})
	c.JSON(http.StatusOK, resp)
}

func (ctrl *SyncAPIController) ingestSale(c *gin.Context, businessID uint, remoteID string, payload sync.SalesRecordPayload) *sync.SalesPushError {
	if payload.ReceiptNumber == "" || len(payload.Items) == 0 || payload.GrandTotal <= 0 {
		return &sync.SalesPushError{
			ID:            payload.ID,
			ReceiptNumber: payload.ReceiptNumber,
			Code:          sync.PushErrorValidation,
			Message:       "sale needs a receipt number, at least one item and a positive total",
		}
	}

	duplicate := &sync.SalesPushError{
		ID:            payload.ID,
		ReceiptNumber: payload.ReceiptNumber,
		Code:          sync.PushErrorDuplicate,
		Message:       "receipt already recorded",
	}

	// Fast path for retried batches, then the authoritative unique index.
	if ctrl.redisEnabled && redis.ReceiptSeen(c.Request.Context(), remoteID, payload.ReceiptNumber) {
		return duplicate
	}
	exists, err := ctrl.salesRepo.ExistsByReceipt(payload.ReceiptNumber)
	if err != nil {
		return &sync.SalesPushError{
			ID:            payload.ID,
			ReceiptNumber: payload.ReceiptNumber,
			Code:          sync.PushErrorValidation,
			Message:       "could not verify receipt uniqueness",
		}
	}
	if exists {
		return duplicate
	}

	record := model.SalesRecord{
		BusinessID:      businessID,
		SoldAt:          payload.SoldAt,
		CustomerPhone:   payload.CustomerPhone,
		SalesPerson:     payload.SalesPerson,
		GrandTotal:      payload.GrandTotal,
		PaymentMethod:   payload.PaymentMethod,
		ReceiptNumber:   payload.ReceiptNumber,
		ReferenceNumber: payload.ReferenceNumber,
		Synced:          true,
	}
	for i, item := range payload.Items {
		record.Items = append(record.Items, model.SoldItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitType:    item.UnitType,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Position:    i,
		})
	}

	if err := ctrl.salesRepo.Create(&record); err != nil {
		info := apperrors.ParseError(err, "sale")
		if info.Code == apperrors.SalesDuplicateReceipt {
			return duplicate
		}
		return &sync.SalesPushError{
			ID:            payload.ID,
			ReceiptNumber: payload.ReceiptNumber,
			Code:          sync.PushErrorValidation,
			Message:       info.Message,
		}
	}

	if ctrl.redisEnabled {
		redis.MarkReceiptSeen(c.Request.Context(), remoteID, payload.ReceiptNumber)
	}
	return nil
}

func (ctrl *SyncAPIController) findByRemoteID(c *gin.Context) (*model.Business, bool) {
	business, err := ctrl.businessRepo.FindByRemoteID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Unknown business id")
			return nil, false
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return nil, false
	}
	return business, true
}
