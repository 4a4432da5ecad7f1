package cloudmersive

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid cloudmersive configuration")
	// ErrUnauthorized indicates authentication failure
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited indicates the account quota or rate limit was hit
	ErrRateLimited = errors.New("rate limited")
	// ErrUnsuccessful indicates the service answered but reported Successful=false
	ErrUnsuccessful = errors.New("operation was not successful")
	// ErrEmptyInput indicates an input document without content
	ErrEmptyInput = errors.New("input document is empty")
)

// APIError represents a non-2xx answer from the Cloudmersive API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	Header     http.Header
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("cloudmersive API error: status %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.IsUnauthorized()
	case ErrNotFound:
		return e.IsNotFound()
	case ErrRateLimited:
		return e.IsRateLimited()
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the error indicates an exhausted quota
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the error was caused on the server side
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// OperationError is returned alongside a decoded result whose Successful flag is false.
type OperationError struct {
	Operation string
	Message   string
}

func (e *OperationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Operation, ErrUnsuccessful)
	}
	return fmt.Sprintf("%s: %v: %s", e.Operation, ErrUnsuccessful, e.Message)
}

func (e *OperationError) Unwrap() error {
	return ErrUnsuccessful
}
