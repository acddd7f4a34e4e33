package dto

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeTooManyAttempts    ErrorCode = "AUTH_009"

	// Authorization errors
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeConflict         ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field" example:"credits"`
	Message string `json:"message" example:"credits must be greater than 0"`
}

// ErrorResponse is the body of every non-2xx response. Error is always a
// human-readable string.
type ErrorResponse struct {
	Error  string       `json:"error" example:"term not found"`
	Code   ErrorCode    `json:"code,omitempty" example:"RES_001"`
	Fields []FieldError `json:"fields,omitempty"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
		Code:  code,
	}
}

// WithFields attaches per-field validation failures.
func (e *ErrorResponse) WithFields(fields []FieldError) *ErrorResponse {
	e.Fields = fields
	return e
}
