package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code plus message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw database or service error into a code/message
// pair safe to show to operators. Handles both sqlite and postgres constraint
// phrasing since the app runs on either driver.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// Unique constraint: postgres says "duplicate key ... unique constraint",
	// sqlite says "UNIQUE constraint failed: table.column".
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "Referenced record does not exist or is still in use"}
	}

	if strings.Contains(errStrLower, "null value") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "Could not reach the remote service. Please try again shortly"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again shortly"}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "receipt_number"):
		return ErrorInfo{Code: SalesDuplicateReceipt, Message: "A sale with this receipt number already exists"}
	case strings.Contains(errLower, "idx_inventory_business_product") || strings.Contains(errLower, "product_name"):
		return ErrorInfo{Code: InventoryProductExists, Message: "A product with this name already exists"}
	case strings.Contains(errLower, "idx_inventory_business_barcode") || strings.Contains(errLower, "barcode"):
		return ErrorInfo{Code: InventoryBarcodeExists, Message: "This barcode is already assigned to another product"}
	case strings.Contains(errLower, "idx_users_business_username") || strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "This username is already taken"}
	case strings.Contains(errLower, "businesses") && strings.Contains(errLower, "name"):
		return ErrorInfo{Code: BusinessNameExists, Message: "A business with this name already exists"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "business"):
		return "Business not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "inventory"), strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "sale"):
		return "Sales record not found"
	default:
		return "Requested record not found"
	}
}
