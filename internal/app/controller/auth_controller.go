package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/app/repository"
	"github.com/eberechi/shopsync-backend/internal/app/service"
	apperrors "github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/internal/middleware"
	"gorm.io/gorm"
)

type AuthController struct {
	authService  service.AuthService
	businessRepo repository.BusinessRepository
}

func NewAuthController(authService service.AuthService, businessRepo repository.BusinessRepository) *AuthController {
	return &AuthController{
		authService:  authService,
		businessRepo: businessRepo,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// Login handles operator login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Username and password are required")
		return
	}

	// A desktop install holds exactly one business; logins are scoped to it.
	business, err := ctrl.businessRepo.FindPrimary()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "No business has been set up on this machine")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "find business")
		return
	}

	user, tokens, err := ctrl.authService.Login(business.ID, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect username or password")
		case errors.Is(err, service.ErrUserInactive):
			apperrors.Forbidden(c, "This account has been deactivated")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"username": req.Username,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"user": gin.H{
			"id":          user.ID,
			"business_id": user.BusinessID,
			"username":    user.Username,
			"role":        user.Role,
		},
		"tokens": tokens,
	})
}

// GetProfile returns the authenticated operator
// GET /api/v1/auth/me
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"business_id": user.BusinessID,
			"username":    user.Username,
			"role":        user.Role,
			"active":      user.Active,
			"created_at":  user.CreatedAt,
		},
	})
}

// ChangePassword updates the authenticated operator's password
// POST /api/v1/auth/change_password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "New password must be at least 6 characters")
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Current password is incorrect")
			return
		}
		log.Error("Password change failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
