package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers         = "users"
	TableCustomers     = "customers"
	TableProducts      = "products"
	TableAssignments   = "assignments"
	TableLedgerEntries = "ledger_entries"
	TableCasbinRules   = "casbin_rule"

	// Roles
	RoleAdmin = "admin"
	RoleUser  = "user"

	// Redis key prefixes
	RedisKeyLedgerLock   = "subtrack:ledger:lock:"
	RedisKeyReminderLock = "subtrack:reminder:lock:"
	RedisChannelEvents   = "subtrack:events"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
