package appErrors

// Error codes grouped by domain
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeInvalidEmailDomain ErrorCode = "INVALID_EMAIL_DOMAIN"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole    ErrorCode = "INVALID_USER_ROLE"

	// Resources
	CodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	CodeEmailNotFound ErrorCode = "EMAIL_NOT_FOUND"

	// Password reset flow
	CodeInvalidResetCode ErrorCode = "INVALID_RESET_CODE"
	CodeResetCodeExpired ErrorCode = "RESET_CODE_EXPIRED"

	// System errors
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeFileError     ErrorCode = "FILE_ERROR"
)
