package yahoo

import "errors"

var (
	// ErrRetryableRequest covers transient upstream failures (network errors,
	// timeouts, 5xx responses). Callers may retry.
	ErrRetryableRequest = errors.New("retryable yahoo API request failed")

	// ErrRateLimited is returned on HTTP 429 or provider-signaled throttling.
	// Retryable, but worth backing off for.
	ErrRateLimited = errors.New("yahoo API rate limited")

	// ErrAuthExpired means the crumb/cookie session is no longer accepted.
	// The client self-heals once per call; if the refreshed session still
	// fails, the error surfaces wrapped as retryable.
	ErrAuthExpired = errors.New("yahoo session expired")

	// ErrNonRetryable covers definitive upstream rejections (4xx other than
	// auth and throttling). Retrying cannot help.
	ErrNonRetryable = errors.New("non-retryable yahoo API error")

	// ErrInvalidParams means the caller-supplied parameters are structurally
	// invalid (empty symbol, no valid modules). Never sent upstream.
	ErrInvalidParams = errors.New("invalid request parameters")

	// ErrEmptyPayload means the provider answered with a structurally valid
	// but empty body (no results for the symbol). Treated as retryable since
	// it is usually a transient upstream glitch.
	ErrEmptyPayload = errors.New("yahoo API returned empty payload")
)

// IsRetryable reports whether the retry controller should spend another
// attempt on err.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRetryableRequest) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrEmptyPayload)
}
