package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func alwaysRetry(error) bool { return true }

func newFastController(attempts uint, retryIf func(error) bool) *Controller {
	return NewController("test", attempts, time.Millisecond, 2*time.Millisecond, retryIf)
}

func TestController_SucceedsFirstTry(t *testing.T) {
	c := newFastController(3, alwaysRetry)
	calls := 0

	err := c.Do(context.Background(), "op", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestController_RetriesUntilSuccess(t *testing.T) {
	c := newFastController(5, alwaysRetry)
	calls := 0

	err := c.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestController_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	c := newFastController(3, alwaysRetry)
	calls := 0

	err := c.Do(context.Background(), "op", func() error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestController_PredicateShortCircuitsNonRetryable(t *testing.T) {
	c := newFastController(5, func(err error) bool {
		return !errors.Is(err, errPermanent)
	})
	calls := 0

	err := c.Do(context.Background(), "op", func() error {
		calls++
		return errPermanent
	})

	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, calls)
}

func TestController_ContextCancellationStopsRetrying(t *testing.T) {
	c := NewController("test", 10, 50*time.Millisecond, 100*time.Millisecond, alwaysRetry)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := c.Do(ctx, "op", func() error {
		calls++
		return errTransient
	})

	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestNewController_ClampsInvalidInputs(t *testing.T) {
	c := NewController("test", 0, -time.Second, -time.Second, alwaysRetry)

	assert.Equal(t, uint(1), c.Attempts())
	assert.Equal(t, DefaultBaseDelay, c.baseDelay)
	assert.Equal(t, DefaultMaxDelay, c.maxDelay)
}

func TestController_BackoffIsExponentialAndCapped(t *testing.T) {
	c := NewController("test", 5, 100*time.Millisecond, 300*time.Millisecond, alwaysRetry)

	assert.Equal(t, 100*time.Millisecond, c.backoffFor(0))
	assert.Equal(t, 200*time.Millisecond, c.backoffFor(1))
	assert.Equal(t, 300*time.Millisecond, c.backoffFor(2))
	assert.Equal(t, 300*time.Millisecond, c.backoffFor(10))
}
