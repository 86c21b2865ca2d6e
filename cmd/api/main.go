package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-data-service/internal/application/services"
	"stock-data-service/internal/infrastructure/config"
	"stock-data-service/internal/infrastructure/fallback"
	"stock-data-service/internal/infrastructure/logging"
	"stock-data-service/internal/infrastructure/metrics"
	"stock-data-service/internal/infrastructure/provider/yahoo"
	"stock-data-service/internal/infrastructure/ratelimit"
	cacherepo "stock-data-service/internal/infrastructure/repositories/cache"
	"stock-data-service/internal/infrastructure/retry"
	"stock-data-service/internal/infrastructure/web/handlers"
	"stock-data-service/internal/infrastructure/web/server"
)

const serviceVersion = "1.0.0"

// @title Stock Data Service API
// @version 1.0
// @description Caching proxy for stock quotes, historical bars, company summaries, search, trending lists and earnings calendars with synthetic fallback.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logCfg := logging.NewConfig("stock-data-service", serviceVersion, config.GetEnvironment()).
		WithLevel(logging.LogLevelFromString(cfg.Logging.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Logging.Format))
	if err := logging.InitializeGlobalLoggers(logCfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx := context.Background()
	logging.Info(ctx, "Starting stock data service", logging.Fields{
		"version":     serviceVersion,
		"environment": config.GetEnvironment(),
	})

	cacheStore, err := cacherepo.NewFactory().CreateCache(cacherepo.Config{
		Type:        cacherepo.CacheType(cfg.Cache.Backend),
		StaleFactor: cfg.Cache.StaleFactor,
		RedisAddr:   cfg.Cache.Redis.Addr,
		RedisDB:     cfg.Cache.Redis.DB,
		Password:    cfg.Cache.Redis.Password,
	})
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create cache", err, nil)
		os.Exit(1)
	}

	metrics.SetServiceInfo(serviceVersion, cfg.Cache.Backend)

	provider := yahoo.NewClient(cfg.Provider)
	retrier := retry.NewController(
		"yahoo",
		uint(cfg.Provider.MaxRetries),
		cfg.Provider.BaseBackoff,
		cfg.Provider.MaxBackoff,
		yahoo.IsRetryable,
	)
	generator := fallback.New()

	marketService := services.NewMarketService(
		provider,
		cacheStore,
		retrier,
		generator,
		cfg.Cache.TTL,
		cfg.Fallback.Enabled,
	)

	marketHandler := handlers.NewMarketHandler(marketService)
	healthHandler := handlers.NewHealthHandler(cacheStore, serviceVersion)
	rateLimiter := ratelimit.NewMiddleware(cfg.RateLimit)

	router := handlers.NewRouter(marketHandler, healthHandler, rateLimiter)
	srv := server.NewServer(router, cfg.Server.Port)

	go func() {
		if err := srv.Start(); err != nil {
			logging.ErrorWithError(ctx, "HTTP server failed", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logging.Info(ctx, "Shutdown signal received", logging.Fields{"signal": sig.String()})

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(shutdownCtx, "Graceful shutdown failed", err, nil)
		os.Exit(1)
	}

	logging.Info(ctx, "Service stopped", nil)
}
