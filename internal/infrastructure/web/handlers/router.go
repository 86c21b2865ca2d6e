package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "stock-data-service/internal/docs"
	"stock-data-service/internal/infrastructure/ratelimit"
	"stock-data-service/internal/infrastructure/web/middleware"
)

// NewRouter assembles the HTTP surface: market data endpoints under
// /api/v1, health probes, Prometheus metrics and the Swagger UI.
func NewRouter(market *MarketHandler, health *HealthHandler, limiter *ratelimit.Middleware) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestTracing)
	router.Use(middleware.Metrics)
	router.Use(middleware.CORS)
	router.Use(limiter.Handler)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/quote", market.GetQuote).Methods(http.MethodGet)
	api.HandleFunc("/quotes", market.GetQuotes).Methods(http.MethodGet)
	api.HandleFunc("/history", market.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/summary", market.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/search", market.Search).Methods(http.MethodGet)
	api.HandleFunc("/trending", market.GetTrending).Methods(http.MethodGet)
	api.HandleFunc("/gainers", market.GetGainers).Methods(http.MethodGet)
	api.HandleFunc("/earnings", market.GetEarnings).Methods(http.MethodGet)

	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	router.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	}).Methods(http.MethodGet)

	return router
}
