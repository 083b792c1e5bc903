package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError for callers that need to decide how to react
// (surface to the client, retry, alert).
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindConflict   ErrorKind = "CONFLICT"
	KindInvariant  ErrorKind = "INVARIANT_VIOLATION"
	KindTransient  ErrorKind = "TRANSIENT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches another DomainError with the same kind and code, so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Retryable reports whether the whole operation may be retried from the top
func (e *DomainError) Retryable() bool {
	return e.Kind == KindTransient
}

// WithCause returns a copy of the error carrying the given cause
func (e *DomainError) WithCause(err error) *DomainError {
	cp := *e
	cp.cause = err
	return &cp
}

// NewDomainError creates a new domain error. Errors created without an explicit kind
// are treated as validation errors.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed, missing or non-positive input
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError reports a reference that does not exist in the caller's tenant
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError reports a business rule violated by the current state
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewInvariantViolation reports a failed internal consistency check
func NewInvariantViolation(code, message string) *DomainError {
	return &DomainError{Kind: KindInvariant, Code: code, Message: message}
}

// NewTransientError reports a connectivity or timeout failure; the unit of work may be retried
func NewTransientError(message string, cause error) *DomainError {
	return &DomainError{Kind: KindTransient, Code: "TRANSIENT", Message: message, cause: cause}
}

// KindOf returns the kind of err when it is (or wraps) a DomainError
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a DomainError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTransient reports whether err may be retried from the top of the unit of work
func IsTransient(err error) bool {
	return IsKind(err, KindTransient)
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewConflictError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewConflictError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrTransient           = NewTransientError("Temporary storage failure, retry the operation", nil)
)
