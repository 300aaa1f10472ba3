package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

// PullStep names one phase of the pull cycle.
type PullStep string

const (
	StepBusiness  PullStep = "business"
	StepUsers     PullStep = "users"
	StepInventory PullStep = "inventory"
)

// PullResult records the outcome of each pull step. Steps that commit before
// a later step fails stay committed; steps after the failure never run and
// carry ErrStepSkipped instead of a failure of their own.
type PullResult struct {
	BusinessErr  error
	UsersErr     error
	InventoryErr error
	UsersPulled  int
	ItemsPulled  int
}

// Success reports whether every step completed.
func (r PullResult) Success() bool {
	return r.BusinessErr == nil && r.UsersErr == nil && r.InventoryErr == nil
}

// FirstError returns the first step failure in pull order, or nil. Skipped
// steps never come first, so this is always the error that stopped the pull.
func (r PullResult) FirstError() error {
	for _, err := range []error{r.BusinessErr, r.UsersErr, r.InventoryErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// FailedSteps names the steps that actually failed. Steps skipped because of
// an earlier failure are not listed; they did not run at all.
func (r PullResult) FailedSteps() []PullStep {
	var steps []PullStep
	if failed(r.BusinessErr) {
		steps = append(steps, StepBusiness)
	}
	if failed(r.UsersErr) {
		steps = append(steps, StepUsers)
	}
	if failed(r.InventoryErr) {
		steps = append(steps, StepInventory)
	}
	return steps
}

func failed(err error) bool {
	return err != nil && !errors.Is(err, ErrStepSkipped)
}

// PullReconciler refreshes local data from the central server. The server is
// authoritative for the business profile, users and inventory: each dataset
// is replaced wholesale, so local edits to those tables do not survive a pull.
type PullReconciler struct {
	client        *Client
	businessRepo  repository.BusinessRepository
	userRepo      repository.UserRepository
	inventoryRepo repository.InventoryRepository
	conflicts     *ConflictTracker
}

func NewPullReconciler(
	client *Client,
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	inventoryRepo repository.InventoryRepository,
	conflicts *ConflictTracker,
) *PullReconciler {
	return &PullReconciler{
		client:        client,
		businessRepo:  businessRepo,
		userRepo:      userRepo,
		inventoryRepo: inventoryRepo,
		conflicts:     conflicts,
	}
}

// Pull runs the three steps in order against the registered business and
// reports per-step outcomes. The first failure aborts the remaining steps:
// nothing may delete and recreate local rows once the cycle has already gone
// wrong, so a failed business fetch leaves users and inventory untouched, and
// a failed users fetch leaves inventory untouched. Steps committed before the
// failure stay committed. The business must already hold a remote id.
func (p *PullReconciler) Pull(ctx context.Context, business *model.Business) PullResult {
	var result PullResult

	if !business.Registered() {
		result.BusinessErr = ErrNotRegistered
		result.UsersErr = ErrStepSkipped
		result.InventoryErr = ErrStepSkipped
		return result
	}
	remoteID := *business.RemoteID

	if result.BusinessErr = p.pullBusiness(ctx, business, remoteID); result.BusinessErr != nil {
		result.UsersErr = ErrStepSkipped
		result.InventoryErr = ErrStepSkipped
		return p.logPull(business.ID, result)
	}

	if result.UsersPulled, result.UsersErr = p.pullUsers(ctx, business.ID, remoteID); result.UsersErr != nil {
		result.InventoryErr = ErrStepSkipped
		return p.logPull(business.ID, result)
	}

	result.ItemsPulled, result.InventoryErr = p.pullInventory(ctx, business.ID, remoteID)
	return p.logPull(business.ID, result)
}

func (p *PullReconciler) logPull(businessID uint, result PullResult) PullResult {
	logger.Info("Pull cycle finished", map[string]interface{}{
		"business_id":  businessID,
		"users":        result.UsersPulled,
		"items":        result.ItemsPulled,
		"failed_steps": result.FailedSteps(),
	})
	return result
}

func (p *PullReconciler) pullBusiness(ctx context.Context, business *model.Business, remoteID string) error {
	var payload BusinessPayload
	if err := p.client.Get(ctx, "/api/v1/businesses/"+remoteID, &payload); err != nil {
		logger.Warn("Business profile pull failed", map[string]interface{}{
			"business_id": business.ID,
			"error":       err.Error(),
		})
		return err
	}

	if payload.Name != "" && payload.Name != business.Name && p.conflicts != nil {
		p.conflicts.Record(ConflictDataMismatch, SeverityMedium, "businesses",
			fmt.Sprintf("remote business name %q differs from local %q", payload.Name, business.Name))
	}

	// Remote profile wins. Local id, remote id and sync bookkeeping stay put.
	if payload.Name != "" {
		business.Name = payload.Name
	}
	business.Address = payload.Address
	business.Location = payload.Location
	business.Contact = payload.Contact
	business.Email = payload.Email
	if payload.Type != "" {
		business.Type = model.BusinessType(payload.Type)
	}
	if payload.Active != nil {
		business.Active = *payload.Active
	}
	return p.businessRepo.Update(business)
}

func (p *PullReconciler) pullUsers(ctx context.Context, businessID uint, remoteID string) (int, error) {
	var payloads []UserPayload
	if err := p.client.Get(ctx, "/api/v1/users/business/"+remoteID, &payloads); err != nil {
		logger.Warn("Users pull failed", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
		return 0, err
	}

	users := make([]model.User, 0, len(payloads))
	for _, payload := range payloads {
		users = append(users, userFromPayload(payload))
	}
	if err := p.userRepo.ReplaceForBusiness(businessID, users); err != nil {
		return 0, err
	}
	return len(users), nil
}

func (p *PullReconciler) pullInventory(ctx context.Context, businessID uint, remoteID string) (int, error) {
	var payloads []InventoryItemPayload
	if err := p.client.Get(ctx, "/api/v1/inventory/business/"+remoteID, &payloads); err != nil {
		logger.Warn("Inventory pull failed", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
		return 0, err
	}

	items := make([]model.InventoryItem, 0, len(payloads))
	for _, payload := range payloads {
		items = append(items, itemFromPayload(payload))
	}
	if err := p.inventoryRepo.ReplaceForBusiness(businessID, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
