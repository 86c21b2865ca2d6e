package logging

import (
	"context"
)

// BaseDomainLogger implements the shared behavior of domain loggers
type BaseDomainLogger struct {
	Logger
	domain string
}

// Domain returns the logger's domain
func (dl *BaseDomainLogger) Domain() string {
	return dl.domain
}

// logWithDomain attaches the domain field before logging
func (dl *BaseDomainLogger) logWithDomain(ctx context.Context, level LogLevel, message string, fields Fields) {
	if fields == nil {
		fields = make(Fields)
	}
	fields[FieldDomain] = dl.domain

	switch level {
	case LevelDebug:
		dl.Logger.Debug(ctx, message, fields)
	case LevelInfo:
		dl.Logger.Info(ctx, message, fields)
	case LevelWarn:
		dl.Logger.Warn(ctx, message, fields)
	case LevelError:
		dl.Logger.Error(ctx, message, fields)
	}
}

func (dl *BaseDomainLogger) Debug(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelDebug, message, fields)
}

func (dl *BaseDomainLogger) Info(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelInfo, message, fields)
}

func (dl *BaseDomainLogger) Warn(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelWarn, message, fields)
}

func (dl *BaseDomainLogger) Error(ctx context.Context, message string, fields Fields) {
	dl.logWithDomain(ctx, LevelError, message, fields)
}

// HTTPDomainLogger is the HTTP specialization
type HTTPDomainLogger struct {
	*BaseDomainLogger
}

// NewHTTPLogger creates a new HTTP logger
func NewHTTPLogger(baseLogger Logger) HTTPLogger {
	return &HTTPDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{
			Logger: baseLogger,
			domain: "http",
		},
	}
}

func (hl *HTTPDomainLogger) RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, 0).
		WithUserAgent(userAgent).
		WithRemoteIP(remoteIP).
		Build()

	hl.Info(ctx, "HTTP request received", fields)
}

func (hl *HTTPDomainLogger) RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithCustomField(FieldDuration, duration).
		Build()

	level := LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = LevelWarn
	} else if statusCode >= 500 {
		level = LevelError
	}

	hl.logWithDomain(ctx, level, "HTTP request completed", fields)
}

func (hl *HTTPDomainLogger) RequestFailed(ctx context.Context, method, path string, statusCode int, err error, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithError(err).
		WithCustomField(FieldDuration, duration).
		Build()

	hl.ErrorWithError(ctx, "HTTP request failed", err, fields)
}

// ExternalAPIDomainLogger is the upstream provider specialization
type ExternalAPIDomainLogger struct {
	*BaseDomainLogger
}

// NewExternalAPILogger creates a new external API logger
func NewExternalAPILogger(baseLogger Logger) ExternalAPILogger {
	return &ExternalAPIDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{
			Logger: baseLogger,
			domain: "external_api",
		},
	}
}

func (el *ExternalAPIDomainLogger) RequestStarted(ctx context.Context, service, endpoint, method string) {
	el.Debug(ctx, "External API request started", Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldMethod:           method,
	})
}

func (el *ExternalAPIDomainLogger) RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64) {
	el.Info(ctx, "External API request completed", Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalStatus:   statusCode,
		FieldExternalDuration: duration,
	})
}

func (el *ExternalAPIDomainLogger) RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64) {
	fields := Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalStatus:   statusCode,
		FieldExternalDuration: duration,
	}
	el.ErrorWithError(ctx, "External API request failed", err, fields)
}

// CacheDomainLogger is the cache specialization
type CacheDomainLogger struct {
	*BaseDomainLogger
}

// NewCacheLogger creates a new cache logger
func NewCacheLogger(baseLogger Logger) CacheLogger {
	return &CacheDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{
			Logger: baseLogger,
			domain: "cache",
		},
	}
}

func (cl *CacheDomainLogger) Hit(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache hit", NewFieldBuilder().WithCache(operation, key, true).Build())
}

func (cl *CacheDomainLogger) Miss(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache miss", NewFieldBuilder().WithCache(operation, key, false).Build())
}

func (cl *CacheDomainLogger) Set(ctx context.Context, key string, ttl float64) {
	cl.Debug(ctx, "Cache set", Fields{
		FieldCacheKey: key,
		FieldCacheTTL: ttl,
	})
}

func (cl *CacheDomainLogger) Delete(ctx context.Context, key string) {
	cl.Debug(ctx, "Cache delete", Fields{
		FieldCacheKey: key,
	})
}

func (cl *CacheDomainLogger) CacheError(ctx context.Context, operation, key string, err error) {
	cl.ErrorWithError(ctx, "Cache operation failed", err, Fields{
		FieldCacheOperation: operation,
		FieldCacheKey:       key,
	})
}

// MarketDomainLogger is the data-access specialization
type MarketDomainLogger struct {
	*BaseDomainLogger
}

// NewMarketLogger creates a new market data logger
func NewMarketLogger(baseLogger Logger) MarketLogger {
	return &MarketDomainLogger{
		BaseDomainLogger: &BaseDomainLogger{
			Logger: baseLogger,
			domain: "market",
		},
	}
}

func (ml *MarketDomainLogger) DataRequested(ctx context.Context, kind, symbol string) {
	ml.Debug(ctx, "Market data requested", Fields{
		FieldDataKind: kind,
		FieldSymbol:   symbol,
	})
}

func (ml *MarketDomainLogger) DataServed(ctx context.Context, kind, symbol, source string, cached bool) {
	ml.Info(ctx, "Market data served", NewFieldBuilder().
		WithMarketContext(kind, symbol, source, cached).
		Build())
}

func (ml *MarketDomainLogger) FallbackActivated(ctx context.Context, kind, symbol string, err error) {
	ml.WarnWithError(ctx, "Serving synthetic fallback data", err, Fields{
		FieldDataKind: kind,
		FieldSymbol:   symbol,
		FieldMock:     true,
	})
}

func (ml *MarketDomainLogger) FetchFailed(ctx context.Context, kind, symbol string, err error) {
	ml.ErrorWithError(ctx, "Market data fetch failed", err, Fields{
		FieldDataKind: kind,
		FieldSymbol:   symbol,
	})
}
