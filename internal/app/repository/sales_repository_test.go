package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSalesTest(t *testing.T) (*gorm.DB, SalesRepository, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	business := &model.Business{Name: "Chidinma Pharmacy", Type: model.BusinessPharmacy}
	require.NoError(t, testDB.Create(business).Error)

	repo := NewSalesRepository(testDB)
	return testDB, repo, business
}

func makeSale(businessID uint, receipt string, synced bool) *model.SalesRecord {
	return &model.SalesRecord{
		BusinessID:    businessID,
		SoldAt:        time.Now(),
		SalesPerson:   "amaka",
		GrandTotal:    1500,
		PaymentMethod: "cash",
		ReceiptNumber: receipt,
		Synced:        synced,
		Items: []model.SoldItem{
			{ProductName: "Paracetamol 500mg", Quantity: 2, UnitPrice: 500, LineTotal: 1000, Position: 0},
			{ProductName: "Vitamin C", Quantity: 1, UnitPrice: 500, LineTotal: 500, Position: 1},
		},
	}
}

func TestSalesRepository_CreateAndFind(t *testing.T) {
	testDB, repo, business := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	sale := makeSale(business.ID, "RCP-20260830-abc123def456", false)
	require.NoError(t, repo.Create(sale))
	assert.NotZero(t, sale.ID)

	found, err := repo.FindByID(sale.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Paracetamol 500mg", found.Items[0].ProductName)
	assert.Equal(t, "Vitamin C", found.Items[1].ProductName)

	// Receipt numbers are globally unique.
	dup := makeSale(business.ID, "RCP-20260830-abc123def456", false)
	assert.Error(t, repo.Create(dup))
}

func TestSalesRepository_FindUnsynced(t *testing.T) {
	testDB, repo, business := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(makeSale(business.ID, fmt.Sprintf("RCP-pending-%d", i), false)))
	}
	require.NoError(t, repo.Create(makeSale(business.ID, "RCP-done-0", true)))

	pending, err := repo.FindUnsynced(business.ID)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	// Oldest first, line items preloaded.
	assert.Equal(t, "RCP-pending-0", pending[0].ReceiptNumber)
	assert.Equal(t, "RCP-pending-2", pending[2].ReceiptNumber)
	assert.Len(t, pending[0].Items, 2)
}

func TestSalesRepository_MarkSynced(t *testing.T) {
	testDB, repo, business := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	first := makeSale(business.ID, "RCP-a", false)
	second := makeSale(business.ID, "RCP-b", false)
	third := makeSale(business.ID, "RCP-c", false)
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	require.NoError(t, repo.Create(third))

	require.NoError(t, repo.MarkSynced([]uint{first.ID, third.ID}))

	pending, err := repo.FindUnsynced(business.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "RCP-b", pending[0].ReceiptNumber)

	count, err := repo.CountUnsynced(business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSalesRepository_MarkSyncedEmptyBatch(t *testing.T) {
	testDB, repo, _ := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	assert.NoError(t, repo.MarkSynced(nil))
	assert.NoError(t, repo.MarkSynced([]uint{}))
}

func TestSalesRepository_ExistsByReceipt(t *testing.T) {
	testDB, repo, business := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(makeSale(business.ID, "RCP-known", false)))

	exists, err := repo.ExistsByReceipt("RCP-known")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByReceipt("RCP-unknown")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSalesRepository_FindByBusinessPagination(t *testing.T) {
	testDB, repo, business := setupSalesTest(t)
	defer db.CleanupTestDB(testDB)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sale := makeSale(business.ID, fmt.Sprintf("RCP-page-%d", i), false)
		sale.SoldAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(sale))
	}

	page, err := repo.FindByBusiness(business.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "RCP-page-4", page[0].ReceiptNumber, "newest sale first")

	next, err := repo.FindByBusiness(business.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "RCP-page-2", next[0].ReceiptNumber)
}
