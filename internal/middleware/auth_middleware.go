package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/app/model"
	"github.com/eberechi/shopsync-backend/internal/errors"
	"github.com/eberechi/shopsync-backend/pkg/util"
)

// Context keys for the authenticated operator
const (
	UserIDKey     = "user_id"
	BusinessIDKey = "business_id"
	UsernameKey   = "username"
	UserRoleKey   = "user_role"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the JWT and stores the operator identity in the
// request context. Websocket clients cannot set headers, so a token query
// parameter is accepted as a fallback.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, 401, errors.AuthTokenInvalid, "Invalid authorization header")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			token = c.Query("token")
			if token == "" {
				errors.Unauthorized(c, "Please log in to continue")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, 401, errors.AuthTokenExpired, "Your session has expired, please log in again")
			} else {
				errors.RespondWithError(c, 401, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(BusinessIDKey, claims.BusinessID)
		c.Set(UsernameKey, claims.Username)
		c.Set(UserRoleKey, model.UserRole(claims.Role))

		c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		value, exists := c.Get(UserRoleKey)
		if !exists {
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}
		role, ok := value.(model.UserRole)
		if !ok || !allowed[role] {
			errors.Forbidden(c, "Your role does not allow this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetBusinessID returns the authenticated operator's business id.
func GetBusinessID(c *gin.Context) uint {
	if value, exists := c.Get(BusinessIDKey); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUserID returns the authenticated operator's user id.
func GetUserID(c *gin.Context) uint {
	if value, exists := c.Get(UserIDKey); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
