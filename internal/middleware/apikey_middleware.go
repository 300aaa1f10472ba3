package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/eberechi/shopsync-backend/internal/errors"
)

const apiKeyHeader = "X-API-Key"

// APIKeyMiddleware guards the central sync endpoints. Local installs
// authenticate with a shared key rather than per-operator tokens because the
// caller is the sync engine, not a person.
func APIKeyMiddleware(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		provided := c.GetHeader(apiKeyHeader)
		if provided == "" {
			log.Warn("Missing API key", map[string]interface{}{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
			errors.RespondWithError(c, 401, errors.AuthAPIKeyInvalid, "API key is required")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			log.Warn("Invalid API key", map[string]interface{}{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
			errors.RespondWithError(c, 401, errors.AuthAPIKeyInvalid, "Invalid API key")
			c.Abort()
			return
		}

		c.Next()
	}
}
