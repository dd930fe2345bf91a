package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askdoc/askdoc/internal/pkg/errs"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{RetryAttempts: 3, RetryDelay: time.Millisecond})

	calls := 0
	err := p.run(context.Background(), "flaky", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryExhaustedUpstream(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{RetryAttempts: 2, RetryDelay: time.Millisecond})

	cause := errors.New("400 bad request")
	err := p.run(context.Background(), "call", func(ctx context.Context) error {
		return cause
	})
	require.ErrorIs(t, err, errs.ErrUpstream)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, errs.ErrTransient)
	require.Contains(t, err.Error(), "call after 2 attempts")
}

func TestRetryExhaustedTransientOnTimeout(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{RetryAttempts: 2, RetryDelay: time.Millisecond})

	err := p.run(context.Background(), "call", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})
	require.ErrorIs(t, err, errs.ErrTransient)
	require.NotErrorIs(t, err, errs.ErrUpstream)
}

func TestRetryPerAttemptTimeout(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		CallTimeout:   5 * time.Millisecond,
	})

	err := p.run(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, errs.ErrTransient)
}

func TestRetryStopsOnCanceledParent(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{RetryAttempts: 5, RetryDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := p.run(ctx, "call", func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestRetryDefaults(t *testing.T) {
	p := newRetryPolicy(PipelineOptions{})
	require.Equal(t, 3, p.attempts)
	require.Equal(t, 200*time.Millisecond, p.delay)
}
