package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Catalog errors
var (
	ErrTermNotFound      = NewResourceNotFoundError("term not found")
	ErrTermAlreadyExists = NewConflictError("term with this name already exists")
	ErrTermHasSections   = NewConflictError("term has sections and cannot be deleted")

	ErrCourseNotFound      = NewResourceNotFoundError("course not found")
	ErrCourseAlreadyExists = NewConflictError("course with this code already exists")
	ErrCourseHasSections   = NewConflictError("course has sections and cannot be deleted")

	ErrSectionNotFound = NewResourceNotFoundError("section not found")
)

// User errors
var (
	ErrUserNotFound       = NewResourceNotFoundError("user not found")
	ErrEmailAlreadyExists = NewConflictError("email already exists")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound = NewResourceNotFoundError("enrollment not found")
	ErrSectionFull        = NewConflictError("section is at capacity")
	ErrEnrollmentDropped  = NewConflictError("dropped enrollment cannot change status")
)

// Notification errors
var (
	ErrNotificationNotFound = NewResourceNotFoundError("notification not found")
	ErrNotNotificationOwner = NewForbiddenError("notification belongs to another user")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
