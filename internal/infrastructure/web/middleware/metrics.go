package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"stock-data-service/internal/infrastructure/metrics"
)

// Metrics records request counts and latencies per route template. The mux
// route template keeps the cardinality bounded: /api/v1/quote/{symbol}
// instead of one label value per symbol.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				path = template
			}
		}
		if wrapped.statusCode == 0 {
			wrapped.statusCode = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, path, wrapped.statusCode, time.Since(start).Seconds())
	})
}
