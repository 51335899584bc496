package domain

import (
	"errors"
	"fmt"
)

// The two failure classes the data layer distinguishes. Validation
// failures happen locally before any remote call and always leave state
// unchanged. Remote failures come back from the gateway; callers must
// not touch memory or cache when they see one.
var (
	// ErrValidation is the sentinel all ValidationError values wrap.
	ErrValidation = errors.New("validation failed")

	// ErrRemote is the sentinel all RemoteError values wrap.
	ErrRemote = errors.New("remote operation failed")

	// ErrNotFound is returned for business-key lookups with no match.
	ErrNotFound = errors.New("not found")
)

// RemoteErrorCode classifies gateway failures.
type RemoteErrorCode string

const (
	// RemoteErrorUnknown covers network failures and anything the
	// backend did not classify.
	RemoteErrorUnknown RemoteErrorCode = "unknown"
	// RemoteErrorUniqueViolation maps the backend's duplicate-key
	// constraint failure (postgres 23505).
	RemoteErrorUniqueViolation RemoteErrorCode = "unique_violation"
	// RemoteErrorNotFound maps a missing-row failure on update/delete.
	RemoteErrorNotFound RemoteErrorCode = "not_found"
)

// RemoteError wraps a failure from the remote data gateway.
type RemoteError struct {
	Code  RemoteErrorCode
	Table string
	Op    string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s on %s: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// NewRemoteError builds a RemoteError for the given table operation.
func NewRemoteError(code RemoteErrorCode, table, op string, err error) *RemoteError {
	return &RemoteError{Code: code, Table: table, Op: op, Err: err}
}

// IsUniqueViolation reports whether err is a remote duplicate-key
// failure. Street creation relies on this to treat duplicates as benign.
func IsUniqueViolation(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == RemoteErrorUniqueViolation
}

// ValidationError is a local, pre-network failure. Fields maps field
// names to messages when the failure is field-specific.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError with a plain message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewFieldValidationError builds a ValidationError with field details.
func NewFieldValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeBadRequest = "bad_request"
	ErrorTypeConflict   = "conflict"
	ErrorTypeRemote     = "remote_error"
	ErrorTypeInternal   = "internal_error"
)
