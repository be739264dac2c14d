package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	HeaderXUserID     = "X-User-ID"
	HeaderRetryAfter  = "Retry-After"

	ContentTypeJSON = "application/json"

	ContextKeyRequestID     = "request_id"
	ContextKeyUserID        = "user_id"
	ContextKeyAction        = "action"
	ContextKeyActionSuccess = "action_success"
	ContextKeyAuthRequest   = "auth_request"
	ContextKeyGuardResource = "guard_resource"
	ContextKeyGuardAction   = "guard_action"

	// Caller identity used when a request names no user.
	GuestUserID = "Guest"

	TableApplications = "applications"
	TableLicenseKeys  = "keys"
	TablePermissions  = "permissions"

	// Body of GET /.
	HealthBanner = "API IS RUNNING OK"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgInvalidAction       = "Invalid action!"
	ErrMsgInvalidRequest      = "Invalid request body!"
	ErrMsgPermissionDenied    = "Permission denied!"
	ErrMsgTooManyRequests     = "Too many requests, please try again later!"
)
