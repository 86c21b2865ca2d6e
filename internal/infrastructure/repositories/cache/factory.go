package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock-data-service/internal/domain/interfaces"
	"stock-data-service/internal/infrastructure/logging"
)

// CacheType represents the type of cache implementation.
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds cache configuration options.
type Config struct {
	Type        CacheType
	StaleFactor int
	RedisAddr   string
	RedisDB     int
	Password    string
}

// Factory provides methods to create cache instances.
type Factory struct{}

// NewFactory creates a new cache factory.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateCache creates a cache instance based on configuration.
func (f *Factory) CreateCache(config Config) (interfaces.Cache, error) {
	ctx := context.Background()

	if config.StaleFactor < 1 {
		config.StaleFactor = DefaultStaleFactor
	}

	switch config.Type {
	case CacheTypeMemory:
		logging.Info(ctx, "Creating memory cache", logging.Fields{
			"type":         "memory",
			"stale_factor": config.StaleFactor,
		})
		return NewMemoryCacheWithStaleFactor(config.StaleFactor), nil

	case CacheTypeRedis:
		logging.Info(ctx, "Creating Redis cache", logging.Fields{
			"type":     "redis",
			"addr":     config.RedisAddr,
			"database": config.RedisDB,
		})
		return f.createRedisCache(config)

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", config.Type)
	}
}

// createRedisCache creates and tests the Redis connection.
func (f *Factory) createRedisCache(config Config) (interfaces.Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.Password,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.RedisAddr, err)
	}

	logging.Info(context.Background(), "Redis connection established successfully", logging.Fields{
		"addr":     config.RedisAddr,
		"database": config.RedisDB,
	})

	c := &RedisCache{client: rdb, staleFactor: config.StaleFactor}
	return c, nil
}
