package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code, see codes.go
	Message string `json:"message"` // human-readable message
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcut helpers for the common cases.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to do that"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// ParseAndRespond converts a raw error into a coded response, overriding the
// fallback status when the parsed code implies a better one.
func ParseAndRespond(c *gin.Context, fallbackStatus int, err error, context string) {
	info := ParseError(err, context)

	status := fallbackStatus
	switch info.Code {
	case ResourceNotFound:
		status = http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, SalesDuplicateReceipt,
		InventoryProductExists, InventoryBarcodeExists, AuthUsernameExists, BusinessNameExists:
		status = http.StatusConflict
	case ValidationRequired:
		status = http.StatusBadRequest
	}
	RespondWithError(c, status, info.Code, info.Message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again shortly"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
