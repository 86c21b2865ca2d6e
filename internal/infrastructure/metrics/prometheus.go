package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the stock data service
var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_data_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Cache metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // operation: get/get_stale/set/delete, result: hit/miss/stale_hit/success/error
	)

	// External API metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_data_external_api_request_duration_seconds",
			Help:    "External API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_external_api_retries_total",
			Help: "Total number of external API retry attempts",
		},
		[]string{"service", "operation", "attempt"},
	)

	ProviderRateLimitDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_provider_rate_limit_drops_total",
			Help: "Total number of HTTP 429 responses from the upstream provider",
		},
		[]string{"endpoint"},
	)

	ProviderSessionRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_provider_session_refreshes_total",
			Help: "Total number of upstream session/crumb refreshes",
		},
		[]string{"result"}, // result: success/error
	)

	RetryBackoffDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_data_retry_backoff_duration_seconds",
			Help:    "Backoff wait applied between retry attempts",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"operation"},
	)

	// Business metrics
	DataRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_requests_total",
			Help: "Total number of data requests by kind",
		},
		[]string{"kind", "cache_result"}, // cache_result: hit/miss/stale
	)

	FallbackActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_fallback_activations_total",
			Help: "Total number of synthetic fallback responses served",
		},
		[]string{"kind"},
	)

	StaleServesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_stale_serves_total",
			Help: "Total number of stale cache values served after a failed refresh",
		},
		[]string{"kind"},
	)

	CurrentPrices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stock_data_current_prices",
			Help: "Last served price per symbol",
		},
		[]string{"symbol"},
	)

	// Rate limiting metrics (inbound)
	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_data_rate_limit_requests_total",
			Help: "Total number of requests processed by the inbound rate limiter",
		},
		[]string{"result"}, // result: allowed/blocked
	)

	// Service info
	ServiceInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stock_data_service_info",
			Help: "Service build and configuration information",
		},
		[]string{"version", "cache_backend"},
	)
)

// RecordHTTPRequest records metrics for one completed HTTP request
func RecordHTTPRequest(method, path string, statusCode int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordCacheOperation records one cache operation outcome
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordExternalAPICall records one upstream provider call
func RecordExternalAPICall(service, endpoint string, statusCode int, durationMs float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(durationMs / 1000)
}

// RecordExternalAPIRetry records one retry attempt against the provider
func RecordExternalAPIRetry(service, operation string, attempt int) {
	ExternalAPIRetries.WithLabelValues(service, operation, strconv.Itoa(attempt)).Inc()
}

// RecordProviderRateLimitDrop records an upstream 429
func RecordProviderRateLimitDrop(endpoint string) {
	ProviderRateLimitDrops.WithLabelValues(endpoint).Inc()
}

// RecordSessionRefresh records an upstream session refresh attempt
func RecordSessionRefresh(success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	ProviderSessionRefreshes.WithLabelValues(result).Inc()
}

// RecordRetryBackoff records the backoff wait for one retry attempt
func RecordRetryBackoff(operation string, seconds float64) {
	RetryBackoffDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordDataRequest records a data request by kind and cache outcome
func RecordDataRequest(kind, cacheResult string) {
	DataRequestsTotal.WithLabelValues(kind, cacheResult).Inc()
}

// RecordFallbackActivation records one synthetic fallback response
func RecordFallbackActivation(kind string) {
	FallbackActivationsTotal.WithLabelValues(kind).Inc()
}

// RecordStaleServe records one stale value served after a failed refresh
func RecordStaleServe(kind string) {
	StaleServesTotal.WithLabelValues(kind).Inc()
}

// UpdateCurrentPrice updates the last served price gauge
func UpdateCurrentPrice(symbol string, price float64) {
	CurrentPrices.WithLabelValues(symbol).Set(price)
}

// RecordRateLimitResult records an inbound rate limiter decision
func RecordRateLimitResult(allowed bool) {
	result := "allowed"
	if !allowed {
		result = "blocked"
	}
	RateLimitRequestsTotal.WithLabelValues(result).Inc()
}

// SetServiceInfo sets the static service info gauge
func SetServiceInfo(version, cacheBackend string) {
	ServiceInfo.WithLabelValues(version, cacheBackend).Set(1)
}
