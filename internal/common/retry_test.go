package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomcli/loom/internal/service"
)

func fastRetryOpts() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return nil
	}, fastRetryOpts())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient"), Retryable: true}
		}
		return nil
	}, fastRetryOpts())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("still down"), Retryable: true}
	}, fastRetryOpts())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad request"), Retryable: false}
	}, fastRetryOpts())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_PlainErrorNotRetried(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return NewUserError("Item not found", ErrNotFound)
	}, fastRetryOpts())

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrNotFound)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Item not found", userErr.UserMessage)
}

func TestWithRetry_ExhaustionPreservesCause(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return &RetryableError{
			Err:       NewUserError("Server melting", ErrBackendUnavailable),
			Retryable: true,
		}
	}, fastRetryOpts())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Server melting", userErr.UserMessage)
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	opts := fastRetryOpts()
	opts.InitialDelay = time.Hour

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, func() error {
		calls++
		return &RetryableError{Err: errors.New("transient"), Retryable: true}
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "backend unavailable", err: ErrBackendUnavailable, want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "non-retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: false}, want: false},
		{name: "plain error", err: errors.New("x"), want: false},
		{name: "not found", err: ErrNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
