package x2

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid x2 configuration")
	// ErrInvalidArgument indicates the caller passed a value of the wrong shape
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIncompleteWrite indicates a write returned no record ID
	ErrIncompleteWrite = errors.New("no ID returned, write likely failed server-side")
	// ErrFieldNotFound indicates no field matched a lookup
	ErrFieldNotFound = errors.New("field not found")
)

// TransportError represents a failed round trip to the CRM. StatusCode is
// zero when the request never produced a response.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("x2 %s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("x2 %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a not found response
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *TransportError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DecodeError indicates the CRM answered with a body that is not the JSON
// the operation expected.
type DecodeError struct {
	Path        string
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("x2 decode %s (%s): %v", e.Path, e.ContentType, e.Err)
	}
	return fmt.Sprintf("x2 decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
