package scrapemill

import (
	"errors"
	"fmt"
)

// Error codes used across the application to classify failures.
// Codes drive the executor's retry decisions: EUNAVAILABLE, ECRASHED, and
// ETIMEOUT are retryable; everything else terminates the attempt.
const (
	ECRASHED     = "crashed"     // renderer process failure, restart required
	EINTERNAL    = "internal"    // unexpected internal error
	EINVALID     = "invalid"     // validation failed, not retried
	ENOTFOUND    = "not_found"   // entity does not exist
	ETIMEOUT     = "timeout"     // operation exceeded its wall-clock budget
	EUNAVAILABLE = "unavailable" // transient failure (network blip, navigation error)
)

// Error represents an application-specific error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("scrapemill error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper to construct an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsRetryable reports whether the error represents a transient condition
// that a fresh attempt could resolve.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case EUNAVAILABLE, ECRASHED, ETIMEOUT:
		return true
	default:
		return false
	}
}
