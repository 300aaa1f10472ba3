package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The desktop frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthAPIKeyInvalid      = "AUTH_API_KEY_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Business (BUSINESS_) ====================
	BusinessNotFound      = "BUSINESS_NOT_FOUND"
	BusinessNameExists    = "BUSINESS_NAME_EXISTS"
	BusinessNotRegistered = "BUSINESS_NOT_REGISTERED"

	// ==================== Inventory (INVENTORY_) ====================
	InventoryNotFound          = "INVENTORY_NOT_FOUND"
	InventoryProductExists     = "INVENTORY_PRODUCT_EXISTS"
	InventoryBarcodeExists     = "INVENTORY_BARCODE_EXISTS"
	InventoryInsufficientStock = "INVENTORY_INSUFFICIENT_STOCK"

	// ==================== Sales (SALES_) ====================
	SalesNotFound         = "SALES_NOT_FOUND"
	SalesDuplicateReceipt = "SALES_DUPLICATE_RECEIPT"
	SalesEmptyItems       = "SALES_EMPTY_ITEMS"

	// ==================== Sync (SYNC_) ====================
	SyncOffline       = "SYNC_OFFLINE"
	SyncInProgress    = "SYNC_IN_PROGRESS"
	SyncNetworkError  = "SYNC_NETWORK_ERROR"
	SyncServerData    = "SYNC_SERVER_DATA_ERROR"
	SyncAuthError     = "SYNC_AUTH_ERROR"
	SyncNotRegistered = "SYNC_NOT_REGISTERED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
