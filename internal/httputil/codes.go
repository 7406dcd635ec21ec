package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidUserID      = "INVALID_USER_ID"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNoFieldsToUpdate   = "NO_FIELDS_TO_UPDATE"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)
