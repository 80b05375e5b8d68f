package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Infrastructure errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Catalog errors. Each wraps ErrResourceNotFound so handlers can map them
// with a single errors.Is check.
var (
	ErrTrainingNotFound = NewResourceNotFoundError("training not found")
	ErrContentNotFound  = NewResourceNotFoundError("training content not found")
	ErrBlogPostNotFound = NewResourceNotFoundError("blog post not found")
	ErrPriceNotFound    = NewResourceNotFoundError("price not found")
	ErrNoPromotion      = NewResourceNotFoundError("no promotion configured")
)

// Content integrity errors, reported by registry validation
var (
	ErrSlugMismatch    = errors.New("registry key does not match metadata slug")
	ErrDuplicateSlug   = errors.New("slug registered more than once")
	ErrMissingMetadata = errors.New("content registered without metadata")
	ErrInvalidContent  = errors.New("invalid content")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
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
