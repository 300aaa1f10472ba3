package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/db"
)

type pullFixture struct {
	database      *gorm.DB
	server        *httptest.Server
	reconciler    *PullReconciler
	business      *model.Business
	userRepo      repository.UserRepository
	inventoryRepo repository.InventoryRepository
	conflicts     *ConflictTracker
}

func setupPullTest(t *testing.T, handler http.Handler) (*pullFixture, func()) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)

	server := httptest.NewServer(handler)

	businessRepo := repository.NewBusinessRepository(database)
	userRepo := repository.NewUserRepository(database)
	inventoryRepo := repository.NewInventoryRepository(database)

	remoteID := "remote-1"
	business := &model.Business{
		Name:     "Ngozi Provisions",
		Type:     model.BusinessProvisionStore,
		Active:   true,
		RemoteID: &remoteID,
	}
	require.NoError(t, businessRepo.Create(business))

	conflicts := NewConflictTracker()
	client := NewClient(server.URL, "key", time.Second)
	reconciler := NewPullReconciler(client, businessRepo, userRepo, inventoryRepo, conflicts)

	fixture := &pullFixture{
		database:      database,
		server:        server,
		reconciler:    reconciler,
		business:      business,
		userRepo:      userRepo,
		inventoryRepo: inventoryRepo,
		conflicts:     conflicts,
	}
	cleanup := func() {
		server.Close()
		db.CleanupTestDB(database)
	}
	return fixture, cleanup
}

func pullHandler(business, users, inventory http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/businesses/remote-1", business)
	mux.HandleFunc("/api/v1/users/business/remote-1", users)
	mux.HandleFunc("/api/v1/inventory/business/remote-1", inventory)
	return mux
}

func TestPullReplacesLocalData(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"business_id":"remote-1","name":"Ngozi Provisions","address":"5 Market Lane","type":"provision_store"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"username":"ngozi","password_hash":"$2a$10$hash1","role":"admin","active":true},
				{"username":"chidi","password_hash":"$2a$10$hash2","role":"sales","active":true}
			]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"product_name":"Indomie Carton","category":"food","sale_price":9500,"stock":40,"item_type":"unit","active":true},
				{"product_name":"Peak Milk Tin","category":"food","sale_price":1200,"stock":120,"item_type":"unit","active":true}
			]`))
		},
	))
	defer cleanup()

	// Pre-existing local rows that the pull must replace.
	require.NoError(t, fixture.userRepo.ReplaceForBusiness(fixture.business.ID, []model.User{
		{Username: "stale", PasswordHash: "x", Role: model.RoleViewer, Active: true},
	}))
	require.NoError(t, fixture.inventoryRepo.ReplaceForBusiness(fixture.business.ID, []model.InventoryItem{
		{ProductName: "Stale Item", SalePrice: 1, Stock: 1, Active: true},
	}))

	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	require.True(t, result.Success(), "pull failed: %v", result.FirstError())
	assert.Equal(t, 2, result.UsersPulled)
	assert.Equal(t, 2, result.ItemsPulled)
	assert.Equal(t, "5 Market Lane", fixture.business.Address)

	users, err := fixture.userRepo.FindByBusiness(fixture.business.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ngozi", users[0].Username)
	assert.Equal(t, "$2a$10$hash1", users[0].PasswordHash)

	items, err := fixture.inventoryRepo.FindByBusiness(fixture.business.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEqual(t, "Stale Item", item.ProductName)
		assert.True(t, item.Synced)
	}
}

func TestPullAbortsAfterUsersFailure(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"business_id":"remote-1","name":"Ngozi Provisions","type":"provision_store"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"users table locked"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("inventory must not be fetched after the users step failed")
		},
	))
	defer cleanup()

	require.NoError(t, fixture.inventoryRepo.ReplaceForBusiness(fixture.business.ID, []model.InventoryItem{
		{ProductName: "Local Stock", SalePrice: 600, Stock: 30, Active: true},
	}))

	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	assert.False(t, result.Success())
	assert.NoError(t, result.BusinessErr)
	assert.Error(t, result.UsersErr)
	assert.ErrorIs(t, result.InventoryErr, ErrStepSkipped)
	assert.Equal(t, []PullStep{StepUsers}, result.FailedSteps())
	assert.ErrorIs(t, result.FirstError(), result.UsersErr)

	// The skipped inventory step left local stock alone.
	items, err := fixture.inventoryRepo.FindByBusiness(fixture.business.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Local Stock", items[0].ProductName)
}

func TestPullBusinessFailureLeavesLocalDataUntouched(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"database unavailable"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("users must not be fetched after the business step failed")
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("inventory must not be fetched after the business step failed")
		},
	))
	defer cleanup()

	require.NoError(t, fixture.userRepo.ReplaceForBusiness(fixture.business.ID, []model.User{
		{Username: "ngozi", PasswordHash: "$2a$10$hash1", Role: model.RoleAdmin, Active: true},
	}))
	require.NoError(t, fixture.inventoryRepo.ReplaceForBusiness(fixture.business.ID, []model.InventoryItem{
		{ProductName: "Indomie Carton", SalePrice: 9500, Stock: 40, Active: true},
	}))

	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	assert.Error(t, result.BusinessErr)
	assert.ErrorIs(t, result.UsersErr, ErrStepSkipped)
	assert.ErrorIs(t, result.InventoryErr, ErrStepSkipped)
	assert.Equal(t, []PullStep{StepBusiness}, result.FailedSteps())

	// Users and inventory were never deleted, let alone recreated.
	users, err := fixture.userRepo.FindByBusiness(fixture.business.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ngozi", users[0].Username)

	items, err := fixture.inventoryRepo.FindByBusiness(fixture.business.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Indomie Carton", items[0].ProductName)
}

func TestPullEmptyBodyIsServerDataError(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK) // 200 with no body
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	))
	defer cleanup()

	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	assert.Error(t, result.BusinessErr)
	assert.True(t, IsServerDataError(result.BusinessErr))
	assert.ErrorIs(t, result.UsersErr, ErrStepSkipped)
	assert.ErrorIs(t, result.InventoryErr, ErrStepSkipped)
	assert.Equal(t, 0, result.UsersPulled)
}

func TestPullEmptyArraysAreValid(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"business_id":"remote-1","name":"Ngozi Provisions","type":"provision_store"}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	))
	defer cleanup()

	// Zero rows come back as [], not an empty body, and pull zero rows.
	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	require.True(t, result.Success(), "pull failed: %v", result.FirstError())
	assert.Equal(t, 0, result.UsersPulled)
	assert.Equal(t, 0, result.ItemsPulled)
}

func TestPullRecordsNameMismatchConflict(t *testing.T) {
	fixture, cleanup := setupPullTest(t, pullHandler(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"business_id":"remote-1","name":"Ngozi Stores","type":"provision_store"}`))
		},
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) },
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) },
	))
	defer cleanup()

	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	require.True(t, result.Success(), "pull failed: %v", result.FirstError())

	// Remote name wins, and the discrepancy is tracked.
	assert.Equal(t, "Ngozi Stores", fixture.business.Name)
	active := fixture.conflicts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, ConflictDataMismatch, active[0].Type)
	assert.Equal(t, "businesses", active[0].AffectedTable)
}

func TestPullRequiresRegistration(t *testing.T) {
	fixture, cleanup := setupPullTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unregistered business must not call the remote server")
	}))
	defer cleanup()

	fixture.business.RemoteID = nil
	result := fixture.reconciler.Pull(context.Background(), fixture.business)
	assert.ErrorIs(t, result.BusinessErr, ErrNotRegistered)
	assert.ErrorIs(t, result.UsersErr, ErrStepSkipped)
	assert.ErrorIs(t, result.InventoryErr, ErrStepSkipped)
}
