package core

import (
	"errors"
	"fmt"
)

// Kind classifies a Core Service failure for rendering decisions. The set is
// closed: every call site switches over these five values and nothing else.
type Kind string

const (
	// KindBadRequest indicates the Core Service rejected the input (HTTP 400).
	KindBadRequest Kind = "bad_request"
	// KindNotFound indicates the resource does not exist or is not owned by
	// the caller (HTTP 404). An expected outcome for deletes, not a failure.
	KindNotFound Kind = "not_found"
	// KindConflict indicates a duplicate, e.g. subscribing twice (HTTP 409).
	KindConflict Kind = "conflict"
	// KindUnavailable covers 5xx responses, timeouts and transport failures.
	KindUnavailable Kind = "unavailable"
	// KindUnknown covers everything else, including protocol violations.
	KindUnknown Kind = "unknown"
)

// Fixed messages for kinds where the backend body must not leak to users.
const (
	msgNotFound    = "Resource not found"
	msgUnavailable = "System is temporarily unavailable, please try again later"
)

// Error is a structured Core Service failure. Message is already safe to show
// to an end user; Status is zero when no HTTP response was received.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("core api: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("core api: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// classify maps a non-2xx response to an Error. bodyMessage is the message
// field parsed from the error body, or "" when the body had none.
func classify(status int, bodyMessage string) *Error {
	if bodyMessage == "" {
		bodyMessage = fmt.Sprintf("HTTP %d error", status)
	}

	switch {
	case status == 400:
		return &Error{Kind: KindBadRequest, Message: bodyMessage, Status: status}
	case status == 404:
		return &Error{Kind: KindNotFound, Message: msgNotFound, Status: status}
	case status == 409:
		return &Error{Kind: KindConflict, Message: bodyMessage, Status: status}
	case status >= 500:
		return &Error{Kind: KindUnavailable, Message: msgUnavailable, Status: status}
	default:
		return &Error{Kind: KindUnknown, Message: bodyMessage, Status: status}
	}
}

// unavailable wraps a transport-level failure (no response received).
func unavailable(cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: msgUnavailable, Cause: cause}
}

// AsError extracts a *Error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr, true
	}
	return nil, false
}
