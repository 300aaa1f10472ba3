package service

import (
	"errors"
	"time"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/pkg/logger"
	"github.com/eberechi/shopsync-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is deactivated")
)

type AuthService interface {
	Login(businessID uint, username, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Login(businessID uint, username, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"business_id": businessID,
		"username":    username,
	})

	user, err := s.userRepo.FindByUsername(businessID, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"business_id": businessID,
				"username":    username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !user.Active {
		logger.Warn("Login failed: user deactivated", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrUserInactive
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id":  user.ID,
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	// Hashes created at a weaker cost (older installs, hashes pulled from
	// the central server) are upgraded while the plaintext is in hand. A
	// failed upgrade does not block the login.
	if util.NeedsRehash(user.PasswordHash) {
		if rehashed, herr := util.HashPassword(password); herr == nil {
			user.PasswordHash = rehashed
			if uerr := s.userRepo.Update(user); uerr != nil {
				logger.Warn("Failed to store upgraded password hash", map[string]interface{}{
					"user_id": user.ID,
					"error":   uerr.Error(),
				})
			}
		}
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.BusinessID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":     user.ID,
		"business_id": user.BusinessID,
		"role":        user.Role,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
