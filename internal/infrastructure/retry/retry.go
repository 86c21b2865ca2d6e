package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"

	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/metrics"
)

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 100 * time.Millisecond
	DefaultMaxDelay  = 2 * time.Second
)

// Controller wraps a fallible operation with bounded attempts and capped
// exponential backoff. One backoff policy applies to every call site; per-kind
// variation is deliberately not supported.
//
// The controller never decides retryability itself: the caller supplies the
// predicate, which is expected to distinguish "retry because failed" from
// "retry because the payload was empty" via the provider's sentinel errors.
type Controller struct {
	service   string
	attempts  uint
	baseDelay time.Duration
	maxDelay  time.Duration
	retryIf   func(error) bool
}

// NewController creates a retry controller. attempts must be >= 1; values
// below 1 are clamped so an operation always runs at least once.
func NewController(service string, attempts uint, baseDelay, maxDelay time.Duration, retryIf func(error) bool) *Controller {
	if attempts < 1 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if maxDelay < baseDelay {
		maxDelay = DefaultMaxDelay
	}
	return &Controller{
		service:   service,
		attempts:  attempts,
		baseDelay: baseDelay,
		maxDelay:  maxDelay,
		retryIf:   retryIf,
	}
}

// Attempts returns the configured attempt bound.
func (c *Controller) Attempts() uint {
	return c.attempts
}

// Do executes op with the controller's retry policy. On success it returns
// nil immediately; once attempts are exhausted it returns the last error. It
// never panics past this boundary; the caller decides whether to fall back
// or propagate.
func (c *Controller) Do(ctx context.Context, operation string, op func() error) error {
	return retry.Do(
		op,
		retry.Attempts(c.attempts),
		retry.Delay(c.baseDelay),
		retry.MaxDelay(c.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(c.retryIf),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			attempt := int(n + 1)
			metrics.RecordExternalAPIRetry(c.service, operation, attempt)

			backoff := c.backoffFor(n)
			metrics.RecordRetryBackoff(operation, backoff.Seconds())

			logging.Warn(ctx, "Upstream retry attempt", logging.Fields{
				"service":      c.service,
				"operation":    operation,
				"attempt":      attempt,
				"max_attempts": c.attempts,
				"backoff_ms":   backoff.Milliseconds(),
				"error":        err.Error(),
			})
		}),
	)
}

// backoffFor returns the nominal wait before attempt n+2 (exponential,
// capped). Jitter added by retry-go is not reflected here; this feeds logs
// and metrics only.
func (c *Controller) backoffFor(n uint) time.Duration {
	backoff := c.baseDelay << n
	if backoff > c.maxDelay || backoff <= 0 {
		backoff = c.maxDelay
	}
	return backoff
}
