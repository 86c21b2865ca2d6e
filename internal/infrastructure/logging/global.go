package logging

import (
	"context"
)

// Convenience wrappers over the global logger set.

// Debug logs a debug message using the global logger
func Debug(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Debug(ctx, message, fields)
}

// Info logs an info message using the global logger
func Info(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Info(ctx, message, fields)
}

// Warn logs a warning message using the global logger
func Warn(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Warn(ctx, message, fields)
}

// Error logs an error message using the global logger
func Error(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Error(ctx, message, fields)
}

// WarnWithError logs a warning message with error details using the global logger
func WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().WarnWithError(ctx, message, err, fields)
}

// ErrorWithError logs an error message with error details using the global logger
func ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().ErrorWithError(ctx, message, err, fields)
}

// ExternalRequest logs upstream call details using the global external API logger
func ExternalRequest(ctx context.Context, service, endpoint string, durationMs float64, statusCode int, fields Fields) {
	GetGlobalLoggers().ExternalAPI.RequestCompleted(ctx, service, endpoint, statusCode, durationMs)
}

// CacheOperation logs cache operations using the global cache logger
func CacheOperation(ctx context.Context, operation, key string, hit bool, fields Fields) {
	cacheLogger := GetGlobalLoggers().Cache
	if hit {
		cacheLogger.Hit(ctx, key, operation)
	} else {
		cacheLogger.Miss(ctx, key, operation)
	}
}

// HTTP returns the global HTTP logger
func HTTP() HTTPLogger {
	return GetGlobalLoggers().HTTP
}

// ExternalAPI returns the global external API logger
func ExternalAPI() ExternalAPILogger {
	return GetGlobalLoggers().ExternalAPI
}

// Cache returns the global cache logger
func Cache() CacheLogger {
	return GetGlobalLoggers().Cache
}

// Market returns the global market data logger
func Market() MarketLogger {
	return GetGlobalLoggers().Market
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	SetGlobalLogLevel(level)
}
