package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Upstream (Gemini) errors
	ErrUpstreamTransient  ErrorCode = "UPSTREAM_TRANSIENT"
	ErrUpstreamOverloaded ErrorCode = "UPSTREAM_OVERLOADED"
	ErrUpstreamNotFound   ErrorCode = "UPSTREAM_NOT_FOUND"
	ErrLLMServiceError    ErrorCode = "LLM_SERVICE_ERROR"
	ErrMalformedOutput    ErrorCode = "MALFORMED_MODEL_OUTPUT"

	// Storage errors
	ErrStorageConflict ErrorCode = "STORAGE_CONFLICT"
	ErrStorageFatal    ErrorCode = "STORAGE_FATAL"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from err, or ErrInternal if err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(ErrInternal, message, cause)
}

func NewUpstreamTransientError(message string, cause error) *DomainError {
	return NewError(ErrUpstreamTransient, message, cause)
}

// NewUpstreamOverloadedError marks a 503 that survived the full retry budget.
// It is kept distinct from the generic upstream error so the HTTP layer can
// tell the user to retry later.
func NewUpstreamOverloadedError(message string, cause error) *DomainError {
	return NewError(ErrUpstreamOverloaded, message, cause)
}

func NewUpstreamNotFoundError(message string, cause error) *DomainError {
	return NewError(ErrUpstreamNotFound, message, cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", cause)
}

func NewMalformedOutputError(message string, cause error) *DomainError {
	return NewError(ErrMalformedOutput, message, cause)
}

func NewStorageFatalError(message string, cause error) *DomainError {
	return NewError(ErrStorageFatal, message, cause)
}
