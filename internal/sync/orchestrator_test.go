package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/db"
)

// recordingNotifier captures every status broadcast for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	statuses []Status
}

func (n *recordingNotifier) NotifySyncStatus(status Status) {
	n.mu.Lock()
	n.statuses = append(n.statuses, status)
	n.mu.Unlock()
}

func (n *recordingNotifier) states() []State {
	n.mu.Lock()
	defer n.mu.Unlock()
	states := make([]State, 0, len(n.statuses))
	for _, s := range n.statuses {
		states = append(states, s.State)
	}
	return states
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	businessRepo repository.BusinessRepository
	salesRepo    repository.SalesRepository
	business     *model.Business
	marker       *Marker
	notifier     *recordingNotifier
}

func setupOrchestratorTest(t *testing.T, handler http.Handler) (*orchestratorFixture, func()) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)

	server := httptest.NewServer(handler)

	businessRepo := repository.NewBusinessRepository(database)
	userRepo := repository.NewUserRepository(database)
	inventoryRepo := repository.NewInventoryRepository(database)
	salesRepo := repository.NewSalesRepository(database)

	business := &model.Business{
		Name:   "Ada Pharmacy",
		Type:   model.BusinessPharmacy,
		Active: true,
	}
	require.NoError(t, businessRepo.Create(business))

	client := NewClient(server.URL, "key", time.Second)
	probe := NewProbe(server.URL, time.Second)
	conflicts := NewConflictTracker()
	marker := NewMarker(filepath.Join(t.TempDir(), "last_sync"))
	notifier := &recordingNotifier{}

	orchestrator := NewOrchestrator(
		probe,
		NewRegistrar(client, businessRepo),
		NewPullReconciler(client, businessRepo, userRepo, inventoryRepo, conflicts),
		NewPushReconciler(client, salesRepo, conflicts),
		businessRepo,
		salesRepo,
		marker,
		notifier,
	)

	fixture := &orchestratorFixture{
		orchestrator: orchestrator,
		businessRepo: businessRepo,
		salesRepo:    salesRepo,
		business:     business,
		marker:       marker,
		notifier:     notifier,
	}
	cleanup := func() {
		server.Close()
		db.CleanupTestDB(database)
	}
	return fixture, cleanup
}

// happySyncHandler serves a complete successful sync cycle.
func happySyncHandler(t *testing.T, salesCalled *bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/register_business_for_sync", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"business_id":"remote-1"}`))
	})
	mux.HandleFunc("/api/v1/businesses/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"business_id":"remote-1","name":"Ada Pharmacy","type":"pharmacy"}`))
	})
	mux.HandleFunc("/api/v1/users/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"username":"ada","password_hash":"$2a$10$h","role":"admin","active":true}]`))
	})
	mux.HandleFunc("/api/v1/inventory/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"product_name":"Paracetamol","category":"drug","sale_price":300,"stock":50,"item_type":"pack","active":true}]`))
	})
	mux.HandleFunc("/api/v1/sales", func(w http.ResponseWriter, r *http.Request) {
		if salesCalled != nil {
			*salesCalled = true
		}
		var req SalesPushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(SalesPushResponse{Recorded: len(req.Sales)})
	})
	return mux
}

func TestRunOnceFullCycle(t *testing.T) {
	fixture, cleanup := setupOrchestratorTest(t, happySyncHandler(t, nil))
	defer cleanup()

	require.NoError(t, fixture.salesRepo.Create(&model.SalesRecord{
		BusinessID:    fixture.business.ID,
		SoldAt:        time.Now(),
		GrandTotal:    300,
		ReceiptNumber: "RCP-100",
		Items: []model.SoldItem{
			{ProductName: "Paracetamol", Quantity: 1, UnitPrice: 300, LineTotal: 300},
		},
	}))

	require.NoError(t, fixture.orchestrator.RunOnce(context.Background()))

	status := fixture.orchestrator.Status()
	assert.False(t, status.IsSyncing)
	assert.True(t, status.LastSyncSuccess)
	require.NotNil(t, status.LastSyncTime)
	assert.Zero(t, status.PendingSales)

	// Registration, marker and last-synced bookkeeping all landed.
	stored, err := fixture.businessRepo.FindByID(fixture.business.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RemoteID)
	assert.Equal(t, "remote-1", *stored.RemoteID)
	assert.NotNil(t, stored.LastSyncedAt)

	marked, err := fixture.marker.Read()
	require.NoError(t, err)
	assert.False(t, marked.IsZero())

	// The cycle walked through every phase in order.
	states := fixture.notifier.states()
	assert.Contains(t, states, StateRegistering)
	assert.Contains(t, states, StatePulling)
	assert.Contains(t, states, StatePushing)
	assert.Equal(t, StateIdle, states[len(states)-1])
}

func TestRunOnceOffline(t *testing.T) {
	mux := http.NewServeMux() // no /health route would still answer 404; close instead
	fixture, cleanup := setupOrchestratorTest(t, mux)
	cleanup() // closes the server so the probe sees a dead link

	err := fixture.orchestrator.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrOffline)

	status := fixture.orchestrator.Status()
	assert.False(t, status.IsSyncing)
	assert.False(t, status.LastSyncSuccess)
	assert.Nil(t, status.LastSyncTime)

	marked, merr := fixture.marker.Read()
	require.NoError(t, merr)
	assert.True(t, marked.IsZero())
}

func TestRunOnceRejectsConcurrentCycle(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	fixture, cleanup := setupOrchestratorTest(t, mux)
	defer cleanup()

	done := make(chan error, 1)
	go func() {
		done <- fixture.orchestrator.RunOnce(context.Background())
	}()

	<-entered
	assert.ErrorIs(t, fixture.orchestrator.RunOnce(context.Background()), ErrAlreadySyncing)
	assert.ErrorIs(t, fixture.orchestrator.TriggerAsync(), ErrAlreadySyncing)
	assert.True(t, fixture.orchestrator.Status().IsSyncing)

	close(release)
	<-done

	// Guard released: the next cycle is accepted again.
	assert.False(t, fixture.orchestrator.Status().IsSyncing)
}

func TestRunOnceBusinessPullFailureHaltsPush(t *testing.T) {
	salesCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/register_business_for_sync", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"business_id":"remote-1"}`))
	})
	mux.HandleFunc("/api/v1/businesses/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database unavailable"}`))
	})
	mux.HandleFunc("/api/v1/users/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/v1/inventory/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/v1/sales", func(w http.ResponseWriter, r *http.Request) {
		salesCalled = true
		json.NewEncoder(w).Encode(SalesPushResponse{})
	})

	fixture, cleanup := setupOrchestratorTest(t, mux)
	defer cleanup()

	require.NoError(t, fixture.salesRepo.Create(&model.SalesRecord{
		BusinessID:    fixture.business.ID,
		SoldAt:        time.Now(),
		GrandTotal:    100,
		ReceiptNumber: "RCP-200",
	}))

	err := fixture.orchestrator.RunOnce(context.Background())
	require.Error(t, err)
	assert.False(t, salesCalled, "push must not run after a failed business pull")

	pending, err := fixture.salesRepo.CountUnsynced(fixture.business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	marked, merr := fixture.marker.Read()
	require.NoError(t, merr)
	assert.True(t, marked.IsZero())
}

func TestRunOncePartialPullStillPushes(t *testing.T) {
	salesCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/register_business_for_sync", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"business_id":"remote-1"}`))
	})
	mux.HandleFunc("/api/v1/businesses/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"business_id":"remote-1","name":"Ada Pharmacy","type":"pharmacy"}`))
	})
	mux.HandleFunc("/api/v1/users/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"users unavailable"}`))
	})
	mux.HandleFunc("/api/v1/inventory/business/remote-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/v1/sales", func(w http.ResponseWriter, r *http.Request) {
		salesCalled = true
		var req SalesPushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(SalesPushResponse{Recorded: len(req.Sales)})
	})

	fixture, cleanup := setupOrchestratorTest(t, mux)
	defer cleanup()

	require.NoError(t, fixture.salesRepo.Create(&model.SalesRecord{
		BusinessID:    fixture.business.ID,
		SoldAt:        time.Now(),
		GrandTotal:    100,
		ReceiptNumber: "RCP-300",
	}))

	err := fixture.orchestrator.RunOnce(context.Background())
	require.Error(t, err, "partial pull still surfaces as a failed cycle")
	assert.True(t, salesCalled, "sales push proceeds past a failed users pull")

	// The sale was delivered even though the cycle reported the pull failure.
	pending, perr := fixture.salesRepo.CountUnsynced(fixture.business.ID)
	require.NoError(t, perr)
	assert.Zero(t, pending)

	// But a partial cycle never advances the success marker.
	marked, merr := fixture.marker.Read()
	require.NoError(t, merr)
	assert.True(t, marked.IsZero())
}

func TestNotifierPanicDoesNotBreakCycle(t *testing.T) {
	fixture, cleanup := setupOrchestratorTest(t, happySyncHandler(t, nil))
	defer cleanup()

	fixture.orchestrator.notifier = panicNotifier{}

	assert.NoError(t, fixture.orchestrator.RunOnce(context.Background()))

	// The guard dropped, so later cycles are not locked out either.
	assert.NoError(t, fixture.orchestrator.RunOnce(context.Background()))
}

type panicNotifier struct{}

func (panicNotifier) NotifySyncStatus(Status) {
	panic("broadcast hub is gone")
}

func TestTriggerAsyncRunsInBackground(t *testing.T) {
	salesCalled := false
	fixture, cleanup := setupOrchestratorTest(t, happySyncHandler(t, &salesCalled))
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fixture.orchestrator.Start(ctx)
	defer fixture.orchestrator.Stop()

	require.NoError(t, fixture.orchestrator.TriggerAsync())

	require.Eventually(t, func() bool {
		return fixture.orchestrator.Status().LastSyncSuccess
	}, 5*time.Second, 20*time.Millisecond)
}
