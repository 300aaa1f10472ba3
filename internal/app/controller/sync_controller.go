package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"github.com/eberechi/shopsync-backend/internal/sync"
)

// SyncController exposes the local sync engine to the desktop frontend.
type SyncController struct {
	orchestrator *sync.Orchestrator
	conflicts    *sync.ConflictTracker
}

func NewSyncController(orchestrator *sync.Orchestrator, conflicts *sync.ConflictTracker) *SyncController {
	return &SyncController{
		orchestrator: orchestrator,
		conflicts:    conflicts,
	}
}

type ResolveConflictRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// TriggerSync starts a sync cycle in the background
// POST /api/v1/sync
func (ctrl *SyncController) TriggerSync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.orchestrator.TriggerAsync(); err != nil {
		if errors.Is(err, sync.ErrAlreadySyncing) {
			apperrors.Conflict(c, apperrors.SyncInProgress, "A sync is already running")
			return
		}
		log.Error("Failed to trigger sync", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Sync started"})
}

// GetSyncStatus returns the current sync snapshot
// GET /sync_status
func (ctrl *SyncController) GetSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.orchestrator.Status())
}

// ListConflicts returns unresolved sync conflicts
// GET /api/v1/sync/conflicts?all=true
func (ctrl *SyncController) ListConflicts(c *gin.Context) {
	var conflicts []sync.Conflict
	if c.Query("all") == "true" {
		conflicts = ctrl.conflicts.All()
	} else {
		conflicts = ctrl.conflicts.Active()
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts, "count": len(conflicts)})
}

// ResolveConflict marks a conflict as handled
// POST /api/v1/sync/conflicts/:id/resolve
func (ctrl *SyncController) ResolveConflict(c *gin.Context) {
	var req ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A resolution note is required")
		return
	}

	if !ctrl.conflicts.Resolve(c.Param("id"), req.Resolution) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Conflict not found or already resolved")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conflict resolved"})
}
