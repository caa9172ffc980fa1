// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Backend errors.
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInfeasibleOutfit   = errors.New("no outfit could be generated")

	// Builder errors.
	ErrResolveInFlight = errors.New("outfit generation already in progress")
	ErrAlreadyRated    = errors.New("outfit already rated")
	ErrNoOutfit        = errors.New("no outfit to rate")

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

// UserMessage extracts the message to display for an error: the server's
// reason verbatim when one was provided, else a generic failure line.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	if errors.Is(err, ErrInfeasibleOutfit) {
		return "No outfit could be generated; add more items first"
	}
	return "Something went wrong talking to the backend"
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
