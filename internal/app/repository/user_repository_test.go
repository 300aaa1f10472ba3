package repository

import (
	"testing"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	business := &model.Business{Name: "Chidinma Pharmacy", Type: model.BusinessPharmacy}
	require.NoError(t, testDB.Create(business).Error)

	repo := NewUserRepository(testDB)
	return testDB, repo, business
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo, business := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	otherBusiness := &model.Business{Name: "Other Shop", Type: model.BusinessHardware}
	require.NoError(t, testDB.Create(otherBusiness).Error)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				BusinessID:   business.ID,
				Username:     "amaka",
				PasswordHash: "hashedpassword",
				Role:         model.RoleSales,
				Active:       true,
			},
			wantErr: false,
		},
		{
			name: "Duplicate username in same business",
			user: &model.User{
				BusinessID:   business.ID,
				Username:     "amaka",
				PasswordHash: "hashedpassword",
				Role:         model.RoleAdmin,
			},
			wantErr: true,
		},
		{
			name: "Same username in another business",
			user: &model.User{
				BusinessID:   otherBusiness.ID,
				Username:     "amaka",
				PasswordHash: "hashedpassword",
				Role:         model.RoleAdmin,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	testDB, repo, business := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		BusinessID:   business.ID,
		Username:     "amaka",
		PasswordHash: "hashedpassword",
		Role:         model.RoleSales,
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByUsername(business.ID, "amaka")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByUsername(business.ID, "nobody")
	assert.Error(t, err)

	// Scoped to the business, not global.
	_, err = repo.FindByUsername(business.ID+1, "amaka")
	assert.Error(t, err)
}

func TestUserRepository_ReplaceForBusiness(t *testing.T) {
	testDB, repo, business := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	otherBusiness := &model.Business{Name: "Other Shop", Type: model.BusinessHardware}
	require.NoError(t, testDB.Create(otherBusiness).Error)

	require.NoError(t, repo.Create(&model.User{
		BusinessID: business.ID, Username: "old_local", PasswordHash: "x", Role: model.RoleSales,
	}))
	require.NoError(t, repo.Create(&model.User{
		BusinessID: otherBusiness.ID, Username: "bystander", PasswordHash: "x", Role: model.RoleSales,
	}))

	pulled := []model.User{
		{Username: "amaka", PasswordHash: "remote-hash-1", Role: model.RoleAdmin, Active: true},
		{Username: "obi", PasswordHash: "remote-hash-2", Role: model.RoleSales, Active: true},
	}
	require.NoError(t, repo.ReplaceForBusiness(business.ID, pulled))

	users, err := repo.FindByBusiness(business.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amaka", users[0].Username)
	assert.Equal(t, "obi", users[1].Username)

	// The local-only account is gone for good, not soft deleted.
	var count int64
	require.NoError(t, testDB.Unscoped().Model(&model.User{}).
		Where("business_id = ? AND username = ?", business.ID, "old_local").
		Count(&count).Error)
	assert.Zero(t, count)

	// Other tenants are untouched.
	others, err := repo.FindByBusiness(otherBusiness.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "bystander", others[0].Username)
}

func TestUserRepository_ReplaceForBusinessEmptySet(t *testing.T) {
	testDB, repo, business := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.User{
		BusinessID: business.ID, Username: "amaka", PasswordHash: "x", Role: model.RoleSales,
	}))

	require.NoError(t, repo.ReplaceForBusiness(business.ID, nil))

	users, err := repo.FindByBusiness(business.ID)
	require.NoError(t, err)
	assert.Empty(t, users)
}
