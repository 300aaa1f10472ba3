package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

// State is the orchestrator's current phase.
type State string

const (
	StateIdle        State = "idle"
	StateRegistering State = "registering"
	StatePulling     State = "pulling"
	StatePushing     State = "pushing"
)

// Status is the externally visible snapshot served by the sync status
// endpoint and broadcast to connected clients.
type Status struct {
	IsSyncing       bool       `json:"is_syncing"`
	State           State      `json:"state"`
	LastSyncTime    *time.Time `json:"last_sync_time,omitempty"`
	LastSyncSuccess bool       `json:"last_sync_success"`
	LastSyncMessage string     `json:"last_sync_message,omitempty"`
	PendingSales    int64      `json:"pending_sales"`
}

// StatusNotifier receives status snapshots as a sync cycle progresses.
type StatusNotifier interface {
	NotifySyncStatus(status Status)
}

// Orchestrator drives full sync cycles: probe, register, pull, push. Exactly
// one cycle runs at a time; triggers that arrive while a cycle is in flight
// are rejected rather than queued, since the running cycle already covers
// whatever state they would sync.
type Orchestrator struct {
	probe        *Probe
	registrar    *Registrar
	puller       *PullReconciler
	pusher       *PushReconciler
	businessRepo repository.BusinessRepository
	salesRepo    repository.SalesRepository
	marker       *Marker
	notifier     StatusNotifier

	mu        sync.Mutex
	inFlight  bool
	state     State
	lastTime  *time.Time
	lastOK    bool
	lastMsg   string
	triggerCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func NewOrchestrator(
	probe *Probe,
	registrar *Registrar,
	puller *PullReconciler,
	pusher *PushReconciler,
	businessRepo repository.BusinessRepository,
	salesRepo repository.SalesRepository,
	marker *Marker,
	notifier StatusNotifier,
) *Orchestrator {
	o := &Orchestrator{
		probe:        probe,
		registrar:    registrar,
		puller:       puller,
		pusher:       pusher,
		businessRepo: businessRepo,
		salesRepo:    salesRepo,
		marker:       marker,
		notifier:     notifier,
		state:        StateIdle,
		triggerCh:    make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}

	// Recover the last successful sync time across restarts.
	if marker != nil {
		if t, err := marker.Read(); err == nil && !t.IsZero() {
			o.lastTime = &t
			o.lastOK = true
		}
	}
	return o
}

// Start runs the background worker that serves async triggers. It returns
// immediately; call Stop to shut the worker down.
func (o *Orchestrator) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-o.stopCh:
				return
			case <-ctx.Done():
				return
			case <-o.triggerCh:
				if err := o.RunOnce(ctx); err != nil {
					logger.Warn("Background sync cycle failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}

// Stop shuts down the background worker. A cycle already in flight runs to
// completion.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopCh)
	})
}

// TriggerAsync requests a sync cycle without waiting for it. Returns
// ErrAlreadySyncing when a cycle is in flight or a trigger is already queued.
func (o *Orchestrator) TriggerAsync() error {
	o.mu.Lock()
	busy := o.inFlight
	o.mu.Unlock()
	if busy {
		return ErrAlreadySyncing
	}

	select {
	case o.triggerCh <- struct{}{}:
		return nil
	default:
		return ErrAlreadySyncing
	}
}

// Status returns the current snapshot, including the count of sales still
// waiting to be pushed.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	status := Status{
		IsSyncing:       o.inFlight,
		State:           o.state,
		LastSyncTime:    o.lastTime,
		LastSyncSuccess: o.lastOK,
		LastSyncMessage: o.lastMsg,
	}
	o.mu.Unlock()

	if business, err := o.businessRepo.FindPrimary(); err == nil {
		if pending, err := o.salesRepo.CountUnsynced(business.ID); err == nil {
			status.PendingSales = pending
		}
	}
	return status
}

// RunOnce executes a full sync cycle synchronously. Returns ErrAlreadySyncing
// when another cycle holds the guard, ErrOffline when the probe fails, and
// otherwise whatever stopped the cycle.
func (o *Orchestrator) RunOnce(ctx context.Context) (err error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrAlreadySyncing
	}
	o.inFlight = true
	o.state = StateIdle
	o.mu.Unlock()

	started := time.Now()

	// The guard must drop no matter how the cycle ends, panics included,
	// or every later sync would be refused.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync cycle panicked: %v", r)
			logger.Error("Sync cycle panicked", err, nil)
		}
		o.finish(started, err)
	}()

	if !o.probe.IsOnline(ctx) {
		return ErrOffline
	}

	business, err := o.businessRepo.FindPrimary()
	if err != nil {
		return fmt.Errorf("no local business to sync: %w", err)
	}

	o.setState(StateRegistering)
	if _, err = o.registrar.Register(ctx, business); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	o.setState(StatePulling)
	pull := o.puller.Pull(ctx, business)
	// A failed business fetch poisons the whole cycle: pushing sales for a
	// profile we could not even read risks mismatched tenants. Failed users
	// or inventory steps only degrade the pull.
	if pull.BusinessErr != nil {
		return fmt.Errorf("business pull failed: %w", pull.BusinessErr)
	}

	o.setState(StatePushing)
	if _, err = o.pusher.Push(ctx, business); err != nil {
		return fmt.Errorf("sales push failed: %w", err)
	}

	if pullErr := pull.FirstError(); pullErr != nil {
		return fmt.Errorf("partial pull: %w", pullErr)
	}
	return nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.notify()
}

// finish releases the in-flight guard and records the cycle outcome. The
// marker file and the business row only advance on a fully clean cycle, so
// the recorded last-sync time never overstates what actually synced.
func (o *Orchestrator) finish(started time.Time, err error) {
	now := time.Now()

	o.mu.Lock()
	o.inFlight = false
	o.state = StateIdle
	if err == nil {
		o.lastTime = &now
		o.lastOK = true
		o.lastMsg = "sync completed"
	} else {
		o.lastOK = false
		o.lastMsg = err.Error()
	}
	o.mu.Unlock()

	if err == nil {
		if o.marker != nil {
			if werr := o.marker.Write(now); werr != nil {
				logger.Warn("Failed to write sync marker", map[string]interface{}{
					"error": werr.Error(),
				})
			}
		}
		if business, berr := o.businessRepo.FindPrimary(); berr == nil {
			if terr := o.businessRepo.TouchLastSynced(business.ID, now); terr != nil {
				logger.Warn("Failed to update business last sync time", map[string]interface{}{
					"error": terr.Error(),
				})
			}
		}
		logger.Info("Sync cycle completed", map[string]interface{}{
			"duration": time.Since(started).String(),
		})
	} else {
		logger.Warn("Sync cycle ended with error", map[string]interface{}{
			"duration": time.Since(started).String(),
			"error":    err.Error(),
		})
	}

	o.notify()
}

// notify broadcasts the current status. A broken notifier must never take
// the sync cycle down with it.
func (o *Orchestrator) notify() {
	if o.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Status notifier panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
		}
	}()
	o.notifier.NotifySyncStatus(o.Status())
}
