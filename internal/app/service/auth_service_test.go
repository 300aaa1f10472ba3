package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/db"
	"github.com/eberechi/shopsync-backend/pkg/util"
)

func setupAuthTest(t *testing.T) (AuthService, *model.Business, repository.UserRepository, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	businessRepo := repository.NewBusinessRepository(database)
	userRepo := repository.NewUserRepository(database)

	business := &model.Business{Name: "Ada Pharmacy", Type: model.BusinessPharmacy, Active: true}
	require.NoError(t, businessRepo.Create(business))

	svc := NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	return svc, business, userRepo, database
}

func seedUser(t *testing.T, userRepo repository.UserRepository, businessID uint, username, password string, active bool) *model.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		BusinessID:   businessID,
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleSales,
		Active:       active,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)
	seedUser(t, userRepo, business.ID, "ada", "correct-horse", true)

	user, tokens, err := svc.Login(business.ID, "ada", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	require.NotNil(t, tokens)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, business.ID, claims.BusinessID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)
	seedUser(t, userRepo, business.ID, "ada", "correct-horse", true)

	_, _, err := svc.Login(business.ID, "ada", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, business, _, _ := setupAuthTest(t)

	_, _, err := svc.Login(business.ID, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeactivatedUser(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)
	seedUser(t, userRepo, business.ID, "ada", "correct-horse", false)

	_, _, err := svc.Login(business.ID, "ada", "correct-horse")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)

	// A hash created at a lower cost than current policy, e.g. pulled from
	// an older install.
	weakHash, err := util.HashPasswordAtCost("correct-horse", util.DefaultHashCost-4)
	require.NoError(t, err)
	user := &model.User{
		BusinessID:   business.ID,
		Username:     "ada",
		PasswordHash: weakHash,
		Role:         model.RoleSales,
		Active:       true,
	}
	require.NoError(t, userRepo.Create(user))
	require.True(t, util.NeedsRehash(user.PasswordHash))

	_, _, err = svc.Login(business.ID, "ada", "correct-horse")
	require.NoError(t, err)

	stored, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, weakHash, stored.PasswordHash)
	assert.False(t, util.NeedsRehash(stored.PasswordHash))
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "correct-horse"))
}

func TestChangePassword(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)
	user := seedUser(t, userRepo, business.ID, "ada", "old-password", true)

	require.NoError(t, svc.ChangePassword(user.ID, "old-password", "new-password"))

	_, _, err := svc.Login(business.ID, "ada", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(business.ID, "ada", "new-password")
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, business, userRepo, _ := setupAuthTest(t)
	user := seedUser(t, userRepo, business.ID, "ada", "old-password", true)

	err := svc.ChangePassword(user.ID, "not-it", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
