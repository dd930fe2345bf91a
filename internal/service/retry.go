package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc/internal/pkg/errs"
)

// PipelineOptions bounds every external call the pipelines make.
type PipelineOptions struct {
	RetryAttempts int
	RetryDelay    time.Duration
	CallTimeout   time.Duration
}

type retryPolicy struct {
	attempts int
	delay    time.Duration
	timeout  time.Duration
}

func newRetryPolicy(opts PipelineOptions) retryPolicy {
	p := retryPolicy{
		attempts: opts.RetryAttempts,
		delay:    opts.RetryDelay,
		timeout:  opts.CallTimeout,
	}
	if p.attempts <= 0 {
		p.attempts = 3
	}
	if p.delay <= 0 {
		p.delay = 200 * time.Millisecond
	}
	return p
}

// run executes fn with a per-attempt timeout and a doubling delay
// between attempts. When the budget is exhausted, the error is tagged
// errs.ErrTransient if the last failure looked like a timeout, and
// errs.ErrUpstream otherwise, so the handler can tell "try again" from
// "misconfigured".
func (p retryPolicy) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	delay := p.delay
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if p.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == p.attempts {
			break
		}
		logutil.GetLogger(ctx).Warn("retrying external call",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	kind := errs.ErrUpstream
	if isTimeout(lastErr) {
		kind = errs.ErrTransient
	}
	return fmt.Errorf("%s after %d attempts: %w", op, p.attempts, errors.Join(kind, lastErr))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
