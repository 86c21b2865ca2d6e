package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachepkg "stock-data-service/internal/infrastructure/repositories/cache"
)

// brokenCache fails every operation, simulating a lost Redis connection.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func (brokenCache) GetStale(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func (brokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

func (brokenCache) Has(ctx context.Context, key string) bool { return false }

func TestHealth_AlwaysOK(t *testing.T) {
	h := NewHealthHandler(brokenCache{}, "1.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
}

func TestReady_CacheWorking(t *testing.T) {
	h := NewHealthHandler(cachepkg.NewMemoryCache(), "1.0.0")

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "ready", body.Services["cache"])
}

func TestReady_CacheBroken(t *testing.T) {
	h := NewHealthHandler(brokenCache{}, "1.0.0")

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Services["cache"], "error")
}
