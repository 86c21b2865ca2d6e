package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stock-data-service/internal/infrastructure/logging"
)

// Server wraps the HTTP listener with sane timeouts and graceful shutdown.
type Server struct {
	httpServer *http.Server
	port       int
}

func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		port: port,
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	logging.Info(context.Background(), "HTTP server starting", logging.Fields{
		"port":      s.port,
		"endpoints": []string{"/api/v1/quote", "/api/v1/quotes", "/api/v1/history", "/api/v1/summary", "/api/v1/search", "/api/v1/trending", "/api/v1/gainers", "/api/v1/earnings", "/health", "/ready", "/metrics", "/swagger/"},
	})

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until the context is done.
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "HTTP server shutting down", logging.Fields{"port": s.port})

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) GetPort() int {
	return s.port
}
