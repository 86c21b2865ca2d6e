package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_DefaultsWhenNoFileOrEnv(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 6, cfg.Cache.StaleFactor)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL.Quote)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Earnings)
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
	assert.True(t, cfg.Fallback.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoader_EnvVarOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoader_FallbackDisabledViaEnv(t *testing.T) {
	t.Setenv("FALLBACK_ENABLED", "false")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.False(t, cfg.Fallback.Enabled)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("ENVIRONMENT", "")
	assert.Equal(t, "development", GetEnvironment())

	t.Setenv("ENV", "Production")
	assert.Equal(t, "production", GetEnvironment())
}

func TestValidator_AcceptsDefaults(t *testing.T) {
	err := NewValidator().Validate(GetDefaultConfig())
	assert.NoError(t, err)
}

func TestValidator_RejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "memcached" },
			wantErr: "backend",
		},
		{
			name:    "stale factor below one",
			mutate:  func(c *Config) { c.Cache.StaleFactor = 0 },
			wantErr: "stale factor",
		},
		{
			name:    "zero quote ttl",
			mutate:  func(c *Config) { c.Cache.TTL.Quote = 0 },
			wantErr: "TTL",
		},
		{
			name: "redis backend without addr",
			mutate: func(c *Config) {
				c.Cache.Backend = "redis"
				c.Cache.Redis.Addr = ""
			},
			wantErr: "address",
		},
		{
			name:    "provider url not http",
			mutate:  func(c *Config) { c.Provider.BaseURL = "ftp://example.com" },
			wantErr: "base URL",
		},
		{
			name: "max backoff below base backoff",
			mutate: func(c *Config) {
				c.Provider.BaseBackoff = 2 * time.Second
				c.Provider.MaxBackoff = time.Second
			},
			wantErr: "backoff",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.Provider.MaxRetries = 0 },
			wantErr: "max retries",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "level",
		},
		{
			name: "rate limit enabled with zero capacity",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Capacity = 0
			},
			wantErr: "capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_SkipsRateLimitWhenDisabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Capacity = 0
	cfg.RateLimit.RefillRate = 0

	assert.NoError(t, NewValidator().Validate(cfg))
}
