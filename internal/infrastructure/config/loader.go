package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	if err := l.setupViper(); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	if err := l.v.ReadInConfig(); err != nil {
		// If config.yaml doesn't exist, use only env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() error {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/stock-data")

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("STOCK_DATA") // STOCK_DATA_SERVER_PORT, ...
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()

	return nil
}

// bindEnvVars maps specific environment variables to configuration keys
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":                    "PORT",
		"cache.backend":                  "CACHE_BACKEND",
		"cache.stale_factor":             "CACHE_STALE_FACTOR",
		"cache.redis.addr":               "REDIS_ADDR",
		"cache.redis.password":           "REDIS_PASSWORD",
		"cache.redis.db":                 "REDIS_DB",
		"provider.base_url":              "PROVIDER_BASE_URL",
		"provider.session_url":           "PROVIDER_SESSION_URL",
		"provider.timeout":               "PROVIDER_TIMEOUT",
		"provider.max_retries":           "PROVIDER_MAX_RETRIES",
		"provider.rate_limit_per_minute": "PROVIDER_RATE_LIMIT_PER_MINUTE",
		"logging.level":                  "LOG_LEVEL",
		"logging.format":                 "LOG_FORMAT",
		"rate_limit.capacity":            "RATE_LIMIT_CAPACITY",
		"rate_limit.refill_rate":         "RATE_LIMIT_REFILL_RATE",
		"rate_limit.enabled":             "RATE_LIMIT_ENABLED",
		"fallback.enabled":               "FALLBACK_ENABLED",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars handles env var special cases
func (l *Loader) overrideWithEnvVars(config *Config) {
	if fallback := os.Getenv("FALLBACK_ENABLED"); fallback == "false" || fallback == "0" {
		config.Fallback.Enabled = false
	}
}

// GetEnvironment determines the current environment from env vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development"
	}
	return env
}
