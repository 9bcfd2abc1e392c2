// Package clients provides HTTP client adapters for downstream services.
package clients

import (
	"errors"
	"fmt"
)

// Client errors represent failures in the HTTP client layer.
// They are translated to domain errors by the ACL adapters.
var (
	// ErrMaxRetriesExceeded is returned after all attempts have been exhausted.
	// The last attempt's error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("decoding response")
)

// StatusError reports a non-2xx response from a downstream service.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	}

	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
