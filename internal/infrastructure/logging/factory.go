package logging

import (
	"fmt"
	"os"
)

// LoggerFactory builds the base logger and its domain specializations
type LoggerFactory struct {
	baseLogger Logger
}

// NewLoggerFactory creates a new logger factory
func NewLoggerFactory(config *LoggerConfig) (*LoggerFactory, error) {
	if config == nil {
		config = DefaultConfig()
	}

	baseLogger, err := NewStructuredLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create base logger: %w", err)
	}

	return &LoggerFactory{
		baseLogger: baseLogger,
	}, nil
}

// GetBaseLogger returns the base logger
func (f *LoggerFactory) GetBaseLogger() Logger {
	return f.baseLogger
}

// UpdateLogLevel updates the base logger level
func (f *LoggerFactory) UpdateLogLevel(level LogLevel) {
	f.baseLogger.SetLevel(level)
}

// LoggerSet contains all specialized loggers
type LoggerSet struct {
	Base        Logger
	HTTP        HTTPLogger
	ExternalAPI ExternalAPILogger
	Cache       CacheLogger
	Market      MarketLogger
}

// GetLoggerSet returns the complete set of specialized loggers
func (f *LoggerFactory) GetLoggerSet() *LoggerSet {
	return &LoggerSet{
		Base:        f.baseLogger,
		HTTP:        NewHTTPLogger(f.baseLogger),
		ExternalAPI: NewExternalAPILogger(f.baseLogger),
		Cache:       NewCacheLogger(f.baseLogger),
		Market:      NewMarketLogger(f.baseLogger),
	}
}

// Global factory instance
var (
	globalFactory *LoggerFactory
	globalLoggers *LoggerSet
)

// InitializeGlobalLoggers initializes the global logger set
func InitializeGlobalLoggers(config *LoggerConfig) error {
	factory, err := NewLoggerFactory(config)
	if err != nil {
		return fmt.Errorf("failed to initialize global loggers: %w", err)
	}

	globalFactory = factory
	globalLoggers = factory.GetLoggerSet()
	return nil
}

// InitializeGlobalLoggersWithDefaults initializes global loggers with defaults
func InitializeGlobalLoggersWithDefaults(service, version, environment string, level LogLevel) error {
	config := NewConfig(service, version, environment).WithLevel(level)
	return InitializeGlobalLoggers(config)
}

// GetGlobalLogger returns the global base logger
func GetGlobalLogger() Logger {
	if globalLoggers == nil {
		_ = InitializeGlobalLoggersWithDefaults("stock-data-service", "1.0.0", "development", LevelInfo)
	}
	return globalLoggers.Base
}

// GetGlobalLoggers returns the full global logger set
func GetGlobalLoggers() *LoggerSet {
	if globalLoggers == nil {
		_ = InitializeGlobalLoggersWithDefaults("stock-data-service", "1.0.0", "development", LevelInfo)
	}
	return globalLoggers
}

// SetGlobalLogLevel updates the global log level
func SetGlobalLogLevel(level LogLevel) {
	if globalFactory != nil {
		globalFactory.UpdateLogLevel(level)
	}
}

// ConfigFromEnvironment builds a configuration from environment variables
func ConfigFromEnvironment(service, version string) *LoggerConfig {
	config := NewConfig(service, version, getEnvOrDefault("ENVIRONMENT", "development"))

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.WithLevel(LogLevelFromString(level))
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		config.WithFormat(LogFormatFromString(format))
	}

	if source := os.Getenv("LOG_ADD_SOURCE"); source == "true" {
		config.WithSource(true)
	}

	return config
}

// getEnvOrDefault reads an environment variable with a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
