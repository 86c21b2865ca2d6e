package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-data-service/internal/infrastructure/config"
)

func TestTokenBucket_ConsumesDownToZero(t *testing.T) {
	bucket := NewTokenBucket(3, 1)

	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())
}

func TestClientLimiter_IsolatesClients(t *testing.T) {
	limiter := NewClientLimiter(1, 1)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	// A different client has its own bucket.
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, 2, limiter.ClientCount())
}

func TestMiddleware_BlocksWhenExhausted(t *testing.T) {
	m := NewMiddleware(config.RateLimitConfig{Enabled: true, Capacity: 1, RefillRate: 1})
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/quote/AAPL", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/quote/AAPL", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_SkipsOperationalPaths(t *testing.T) {
	m := NewMiddleware(config.RateLimitConfig{Enabled: true, Capacity: 1, RefillRate: 1})
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMiddleware_DisabledPassesEverything(t *testing.T) {
	m := NewMiddleware(config.RateLimitConfig{Enabled: false})
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quote/AAPL", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientID_PrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientID(r))

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.RemoteAddr = "192.168.1.5:54321"
	assert.Equal(t, "192.168.1.5", clientID(r2))
}
