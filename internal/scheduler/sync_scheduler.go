package scheduler

import (
	"errors"

	"github.com/robfig/cron/v3"

	"github.com/eberechi/shopsync-backend/internal/sync"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

// SyncScheduler triggers background sync cycles on a cron schedule so a shop
// that never presses the sync button still converges with the central server.
type SyncScheduler struct {
	cron         *cron.Cron
	orchestrator *sync.Orchestrator
	spec         string
}

func NewSyncScheduler(orchestrator *sync.Orchestrator, spec string) *SyncScheduler {
	return &SyncScheduler{
		cron:         cron.New(),
		orchestrator: orchestrator,
		spec:         spec,
	}
}

func (s *SyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Debug("Scheduled sync tick", nil)

		if err := s.orchestrator.TriggerAsync(); err != nil {
			// A cycle already running is not a problem; the running cycle
			// covers this tick's work.
			if errors.Is(err, sync.ErrAlreadySyncing) {
				logger.Debug("Scheduled sync skipped, cycle already in flight", nil)
				return
			}
			logger.Warn("Scheduled sync trigger failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		logger.Error("Failed to register sync cron job", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Sync scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *SyncScheduler) Stop() {
	logger.Info("Stopping sync scheduler", nil)
	s.cron.Stop()
}
