// Package errors provides structured error handling for the relay endpoint,
// with HTTP status code mapping and response formatting.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates a malformed relay request (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeForbidden indicates a missing or mismatched service key (HTTP 403)
	TypeForbidden ErrorType = "forbidden"
	// TypeMisconfigured indicates no service key is configured on this
	// instance (HTTP 500). An ops error, deliberately distinct from
	// TypeForbidden so alerts can tell attacker from misconfiguration.
	TypeMisconfigured ErrorType = "misconfigured"
	// TypeDelivery indicates the chat transport failed to send (HTTP 500)
	TypeDelivery ErrorType = "delivery"
	// TypeInternal indicates an uncategorized server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured relay error with type, message, and cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeForbidden:
		return http.StatusForbidden
	case TypeMisconfigured, TypeDelivery, TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON structure sent to the Core Service.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// ForbiddenError creates a new authentication failure (HTTP 403).
func ForbiddenError(message string) *Error {
	return &Error{
		Type:    TypeForbidden,
		Message: message,
		Context: make(map[string]any),
	}
}

// MisconfiguredError creates a new server-misconfiguration error (HTTP 500).
func MisconfiguredError(message string) *Error {
	return &Error{
		Type:    TypeMisconfigured,
		Message: message,
		Context: make(map[string]any),
	}
}

// DeliveryError creates a new transport-send failure (HTTP 500).
func DeliveryError(message string, cause error) *Error {
	return &Error{
		Type:    TypeDelivery,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// InternalError creates a new uncategorized server error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("An unexpected error occurred", err)
}
