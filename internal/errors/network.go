// Package errors defines the error kinds the pipeline distinguishes.
package errors

import (
	"errors"
	"fmt"
)

// NetworkError represents an unrecoverable request failure: a
// connection error after retries, a timeout, or an unretryable HTTP
// status. The orchestrator absorbs it and reports absence.
type NetworkError struct {
	StatusCode int
	Message    string
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// NewNetworkError creates a NetworkError without a status code.
func NewNetworkError(message string) *NetworkError {
	return &NetworkError{Message: message}
}

// NewHTTPError creates a NetworkError for an unexpected HTTP status.
func NewHTTPError(statusCode int, message string) *NetworkError {
	return &NetworkError{StatusCode: statusCode, Message: message}
}

// IsNetworkError reports whether err is a NetworkError (even when
// wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
