package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Provider  ProviderConfig  `yaml:"provider" mapstructure:"provider"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Fallback  FallbackConfig  `yaml:"fallback" mapstructure:"fallback"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig contains cache system configuration
type CacheConfig struct {
	Backend     string        `yaml:"backend" mapstructure:"backend"`
	StaleFactor int           `yaml:"stale_factor" mapstructure:"stale_factor"`
	TTL         KindTTLConfig `yaml:"ttl" mapstructure:"ttl"`
	Redis       RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// KindTTLConfig holds the cache TTL per data kind
type KindTTLConfig struct {
	Quote    time.Duration `yaml:"quote" mapstructure:"quote"`
	History  time.Duration `yaml:"history" mapstructure:"history"`
	Summary  time.Duration `yaml:"summary" mapstructure:"summary"`
	Search   time.Duration `yaml:"search" mapstructure:"search"`
	Trending time.Duration `yaml:"trending" mapstructure:"trending"`
	Gainers  time.Duration `yaml:"gainers" mapstructure:"gainers"`
	Earnings time.Duration `yaml:"earnings" mapstructure:"earnings"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ProviderConfig contains upstream financial-data provider configuration
type ProviderConfig struct {
	BaseURL            string        `yaml:"base_url" mapstructure:"base_url"`
	SessionURL         string        `yaml:"session_url" mapstructure:"session_url"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxRetries         int           `yaml:"max_retries" mapstructure:"max_retries"`
	BaseBackoff        time.Duration `yaml:"base_backoff" mapstructure:"base_backoff"`
	MaxBackoff         time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
	UserAgent          string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// RateLimitConfig contains inbound rate limiting configuration
type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity   int  `yaml:"capacity" mapstructure:"capacity"`
	RefillRate int  `yaml:"refill_rate" mapstructure:"refill_rate"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FallbackConfig contains synthetic fallback configuration
type FallbackConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:     "memory",
			StaleFactor: 6,
			TTL: KindTTLConfig{
				Quote:    60 * time.Second,
				History:  5 * time.Minute,
				Summary:  10 * time.Minute,
				Search:   10 * time.Minute,
				Trending: 5 * time.Minute,
				Gainers:  5 * time.Minute,
				Earnings: time.Hour,
			},
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
			},
		},
		Provider: ProviderConfig{
			BaseURL:            "https://query1.finance.yahoo.com",
			SessionURL:         "https://fc.yahoo.com",
			Timeout:            10 * time.Second,
			RequestTimeout:     10 * time.Second,
			MaxRetries:         3,
			BaseBackoff:        100 * time.Millisecond,
			MaxBackoff:         2 * time.Second,
			RateLimitPerMinute: 60,
			UserAgent:          "Mozilla/5.0 (compatible; stock-data-service/1.0)",
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			Capacity:   100,
			RefillRate: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Fallback: FallbackConfig{
			Enabled: true,
		},
	}
}
