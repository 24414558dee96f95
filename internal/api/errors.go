// ABOUTME: Error taxonomy for the API layer
// ABOUTME: Typed errors so callers can branch with errors.Is/As instead of strings

package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized means the session is invalid. The transport has
	// already cleared the credential store; callers must not retry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the session is valid but lacks permission.
	// The session is left intact.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks 404 responses on an already-resolved base.
	ErrNotFound = errors.New("not found")

	// ErrTimeout marks requests that exceeded their deadline.
	ErrTimeout = errors.New("request timed out")
)

// ValidationError is a 400 response; the server message is meant for
// the user to correct their input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return "validation failed: " + e.Message
}

// ConflictError is a 409 response, typically a duplicate key.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message == "" {
		return "conflict"
	}
	return "conflict: " + e.Message
}

// StatusError is any other non-2xx response. The raw body is kept for
// diagnostics.
type StatusError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// NetworkError means no HTTP response arrived at all.
type NetworkError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out", e.URL)
	}
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrTimeout && e.Timeout
}

// NoEndpointError means every candidate base for a resource family was
// probed without success.
type NoEndpointError struct {
	Family     string
	Candidates []string
	LastErr    error
}

func (e *NoEndpointError) Error() string {
	msg := fmt.Sprintf("no %s endpoint reachable (tried %s)", e.Family, strings.Join(e.Candidates, ", "))
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e *NoEndpointError) Unwrap() error { return e.LastErr }
