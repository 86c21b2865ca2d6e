package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/metrics"
)

// Middleware applies per-client rate limiting to inbound requests.
// Operational endpoints are exempt so probes and scrapes never get throttled.
type Middleware struct {
	limiter   *ClientLimiter
	skipPaths map[string]bool
	enabled   bool
}

// NewMiddleware builds the middleware from configuration.
func NewMiddleware(cfg config.RateLimitConfig) *Middleware {
	skipPaths := map[string]bool{
		"/health":  true,
		"/ready":   true,
		"/metrics": true,
	}

	var limiter *ClientLimiter
	if cfg.Enabled {
		limiter = NewClientLimiter(cfg.Capacity, cfg.RefillRate)
	}

	return &Middleware{
		limiter:   limiter,
		skipPaths: skipPaths,
		enabled:   cfg.Enabled,
	}
}

// Handler wraps next with the rate limit check.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled || m.skipPaths[r.URL.Path] || strings.HasPrefix(r.URL.Path, "/swagger/") {
			next.ServeHTTP(w, r)
			return
		}

		clientID := clientID(r)
		allowed := m.limiter.Allow(clientID)
		remaining := m.limiter.Tokens(clientID)

		metrics.RecordRateLimitResult(allowed)

		if !allowed {
			logging.Warn(r.Context(), "Rate limit exceeded", logging.Fields{
				"client_id": clientID,
				"path":      r.URL.Path,
				"method":    r.Method,
			})
			writeRateLimitError(w)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

// clientID picks the bucket key: forwarded IP when behind a proxy, remote
// address otherwise.
func clientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	remoteAddr := r.RemoteAddr
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}
	return remoteAddr
}

func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "RATE_LIMIT_EXCEEDED",
		"message": "Rate limit exceeded. Please slow down your requests.",
		"code":    http.StatusTooManyRequests,
	})
}
