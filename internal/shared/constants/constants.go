package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderUserAgent     = "User-Agent"
	HeaderRetryAfter    = "Retry-After"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyUserID              = "user_id"
	ContextKeyUserRole            = "user_role"
	ContextKeyUserEmail           = "user_email"
	ContextKeyRequestID           = "request_id"
	ContextKeySessionID           = "session_id"
	ContextKeyAPITokenID          = "api_token_id"
	ContextKeyAPITokenPermissions = "api_token_permissions"

	// User status
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"

	// Database table names
	TableUsers      = "users"
	TableAPITokens  = "api_tokens"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TableProducts   = "products"

	// RateLimitWindowSeconds is the fixed window of per-token API rate limits.
	RateLimitWindowSeconds = 60

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
	ErrMsgRateLimited         = "Too many requests"
	ErrMsgCSRFMismatch        = "CSRF token mismatch"
)
