package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrAuth means the API token is missing or was rejected.
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork means the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")
	// ErrAPI means the API answered with a non-2xx status other than 401.
	ErrAPI = errors.New("api error")
	// ErrMalformedPayload means a response body did not have the expected shape.
	ErrMalformedPayload = errors.New("malformed payload")
)

// APIError carries the status of a failed API response.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d for %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("api error: status %d for %s", e.StatusCode, e.URL)
}

func (e *APIError) Unwrap() error { return ErrAPI }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
