package walver

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is matched by the ConfigurationError New returns when no
	// API key was resolved.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("invalid verification request")

	// ErrDuplicateID is returned by CreateVerification when Walver already has a
	// verification with the requested ID.
	ErrDuplicateID = &DuplicateIDError{}
)

// ConfigurationError is returned when the client cannot be configured.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("walver: configuration: %v", e.Err)
	}
	return fmt.Sprintf("walver: configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError reports a verification request rejected before it was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateIDError reports an HTTP 409 from /new.
type DuplicateIDError struct{}

func (e *DuplicateIDError) Error() string {
	return "ID for the verification already exists. Choose another ID."
}

// APIError is a non-2xx response from Walver. Body is the response body as
// received.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, string(e.Body))
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
