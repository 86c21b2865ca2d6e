package config

import (
	"fmt"
	"strings"
	"time"
)

// Validator validates configuration values before the service starts
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate performs comprehensive validation of the configuration
func (v *Validator) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := v.validateServer(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateCache(&config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateProvider(&config.Provider); err != nil {
		return fmt.Errorf("provider config validation failed: %w", err)
	}

	if err := v.validateRateLimit(&config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateServer(server *ServerConfig) error {
	if server.Port <= 0 || server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", server.Port)
	}
	if server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got: %v", server.ShutdownTimeout)
	}
	return nil
}

func (v *Validator) validateCache(cache *CacheConfig) error {
	backend := strings.ToLower(cache.Backend)
	if backend != "memory" && backend != "redis" {
		return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", cache.Backend)
	}

	if cache.StaleFactor < 1 {
		return fmt.Errorf("stale factor must be at least 1, got: %d", cache.StaleFactor)
	}

	ttls := map[string]time.Duration{
		"quote":    cache.TTL.Quote,
		"history":  cache.TTL.History,
		"summary":  cache.TTL.Summary,
		"search":   cache.TTL.Search,
		"trending": cache.TTL.Trending,
		"gainers":  cache.TTL.Gainers,
		"earnings": cache.TTL.Earnings,
	}
	for kind, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%s TTL must be positive, got: %v", kind, ttl)
		}
	}

	if backend == "redis" {
		if cache.Redis.Addr == "" {
			return fmt.Errorf("redis address cannot be empty when backend is redis")
		}
		if !strings.Contains(cache.Redis.Addr, ":") {
			return fmt.Errorf("invalid redis address format: %s (expected host:port)", cache.Redis.Addr)
		}
		if cache.Redis.DB < 0 {
			return fmt.Errorf("redis DB must be non-negative, got: %d", cache.Redis.DB)
		}
	}

	return nil
}

func (v *Validator) validateProvider(provider *ProviderConfig) error {
	if provider.BaseURL == "" {
		return fmt.Errorf("provider base URL cannot be empty")
	}
	if !strings.HasPrefix(provider.BaseURL, "http://") && !strings.HasPrefix(provider.BaseURL, "https://") {
		return fmt.Errorf("provider base URL must start with http:// or https://, got: %s", provider.BaseURL)
	}
	if provider.SessionURL == "" {
		return fmt.Errorf("provider session URL cannot be empty")
	}
	if provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive, got: %v", provider.Timeout)
	}
	if provider.RequestTimeout <= 0 {
		return fmt.Errorf("provider request timeout must be positive, got: %v", provider.RequestTimeout)
	}
	if provider.MaxRetries < 1 {
		return fmt.Errorf("provider max retries must be at least 1, got: %d", provider.MaxRetries)
	}
	if provider.BaseBackoff <= 0 {
		return fmt.Errorf("provider base backoff must be positive, got: %v", provider.BaseBackoff)
	}
	if provider.MaxBackoff < provider.BaseBackoff {
		return fmt.Errorf("provider max backoff (%v) must be >= base backoff (%v)", provider.MaxBackoff, provider.BaseBackoff)
	}
	if provider.RateLimitPerMinute <= 0 {
		return fmt.Errorf("provider rate limit per minute must be positive, got: %d", provider.RateLimitPerMinute)
	}
	return nil
}

func (v *Validator) validateRateLimit(rl *RateLimitConfig) error {
	if !rl.Enabled {
		return nil
	}
	if rl.Capacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got: %d", rl.Capacity)
	}
	if rl.RefillRate <= 0 {
		return fmt.Errorf("rate limit refill rate must be positive, got: %d", rl.RefillRate)
	}
	return nil
}

func (v *Validator) validateLogging(logging *LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logging.Level)
	}

	format := strings.ToLower(logging.Format)
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'text')", logging.Format)
	}

	return nil
}
