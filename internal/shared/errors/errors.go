package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies application errors into the recovery classes the
// board core distinguishes between.
type ErrorType string

const (
	// ErrorTypeIndexUnavailable marks reads that failed because the store is
	// missing a composite index for the requested filter/sort combination.
	// Recovered by query-tier escalation, never surfaced once a tier succeeds.
	ErrorTypeIndexUnavailable ErrorType = "INDEX_UNAVAILABLE"

	// ErrorTypeTransientRemote marks remote matcher failures (timeout,
	// non-2xx, malformed payload). Always recovered by the local fallback.
	ErrorTypeTransientRemote ErrorType = "TRANSIENT_REMOTE"

	// ErrorTypeNotFound marks a missing document. During view resolution it
	// is treated as optional absence, not a failure.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeAuthentication marks a missing or invalid caller identity.
	// The only class that fails fast to the caller.
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION"

	// ErrorTypeValidation marks rejected input (empty message text, bad
	// category, malformed request body).
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeStore marks genuine connectivity/permission failures reaching
	// the final query tier. Surfaced to the caller.
	ErrorTypeStore ErrorType = "STORE"

	// ErrorTypeConflict marks a write that collided with an existing document.
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal is the catch-all for programming errors.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// Common application errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthenticated      = errors.New("please log in")
	ErrIndexUnavailable     = errors.New("required index unavailable")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrEmptyMessage         = errors.New("message text is empty")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidStatus        = errors.New("invalid item status")
	ErrConflict             = errors.New("resource conflict")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewIndexUnavailableError creates an index-unavailable error
func NewIndexUnavailableError(message string) *AppError {
	return NewAppError(ErrorTypeIndexUnavailable, message, http.StatusFailedDependency)
}

// NewTransientRemoteError creates a transient remote matcher error
func NewTransientRemoteError(message string) *AppError {
	return NewAppError(ErrorTypeTransientRemote, message, http.StatusBadGateway)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewStoreError creates a store connectivity/permission error
func NewStoreError(message string) *AppError {
	return NewAppError(ErrorTypeStore, message, http.StatusServiceUnavailable)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsIndexUnavailable checks if an error is the index-unavailable class that
// the query executor is allowed to absorb by tier escalation.
func IsIndexUnavailable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeIndexUnavailable
	}
	return errors.Is(err, ErrIndexUnavailable)
}

// IsTransientRemote checks if an error is a recoverable remote matcher failure
func IsTransientRemote(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeTransientRemote
	}
	return false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrConversationNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeAuthentication
	}
	return errors.Is(err, ErrUnauthenticated)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrConflict)
}

// IsStore checks if an error is a store failure
func IsStore(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeStore
	}
	return false
}
