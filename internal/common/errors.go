// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates a lookup produced no result.
	ErrNotFound = errors.New("not found")

	// ErrImageProcessing indicates the source image could not be decoded or
	// prepared. Fatal to the current scan attempt.
	ErrImageProcessing = errors.New("image processing failed")

	// ErrRecognitionService indicates the vision service call failed
	// (network, auth, quota). Retryable and surfaced to the user.
	ErrRecognitionService = errors.New("recognition service failed")

	// ErrCatalogLookup indicates a single catalog adapter failed. Callers
	// treat this as "not found" for that candidate.
	ErrCatalogLookup = errors.New("catalog lookup failed")

	// ErrImportFormat indicates malformed interchange data on import. The
	// store is left unchanged.
	ErrImportFormat = errors.New("invalid import data")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRecognitionService) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
