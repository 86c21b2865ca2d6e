package middleware

import (
	"net/http"
	"time"

	"stock-data-service/internal/infrastructure/logging"
)

// responseWriter captures the status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// RequestTracing assigns every request an ID, carries it through the context
// and logs start and completion with timing.
func RequestTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := logging.GenerateRequestID()
		startTime := time.Now()

		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithStartTime(ctx, startTime)
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w}

		logging.HTTP().RequestReceived(ctx, r.Method, r.URL.Path, r.Header.Get("User-Agent"), remoteIP(r))

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		durationMs := float64(time.Since(startTime).Nanoseconds()) / 1e6
		if wrapped.statusCode == 0 {
			wrapped.statusCode = http.StatusOK
		}
		logging.HTTP().RequestCompleted(ctx, r.Method, r.URL.Path, wrapped.statusCode, durationMs)
	})
}

// remoteIP extracts the client IP, preferring proxy headers.
func remoteIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
