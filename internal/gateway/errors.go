package gateway

import (
	"errors"
	"fmt"
)

// AuthError indicates invalid credentials or a missing/expired token.
// Unauthorized is set when the backend answered 401.
type AuthError struct {
	Message      string
	StatusCode   int
	Unauthorized bool
	Cause        error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// UploadError indicates the backend could not parse an uploaded file.
type UploadError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upload error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upload error: %s", e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// OptimizeError indicates an optimize call failed or returned a malformed payload.
type OptimizeError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *OptimizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("optimize error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("optimize error: %s", e.Message)
}

func (e *OptimizeError) Unwrap() error {
	return e.Cause
}

// ExportError indicates the PDF export or its download failed.
type ExportError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// MatchError indicates a match-jobs call failed.
type MatchError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("match error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("match error: %s", e.Message)
}

func (e *MatchError) Unwrap() error {
	return e.Cause
}

// NetworkError indicates the backend was unreachable or answered with a non-JSON error body.
type NetworkError struct {
	Op         Operation
	Message    string
	StatusCode int
	Cause      error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error during %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %s", e.Op, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Unauthorized
}

// statusError is a JSON error response not yet mapped to an operation-specific type.
type statusError struct {
	StatusCode int
	Detail     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP status %d: %s", e.StatusCode, e.Detail)
}
