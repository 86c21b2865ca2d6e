package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock-data-service/internal/domain/interfaces"
)

// redisEnvelope wraps a cached value with its freshness deadline. The Redis
// key TTL covers the whole stale window; freshness is decided client-side so
// expired-but-retained values stay readable through GetStale.
type redisEnvelope struct {
	Value      string    `json:"value"`
	FreshUntil time.Time `json:"fresh_until"`
}

// RedisCache implements the Cache interface using Redis.
type RedisCache struct {
	client      *redis.Client
	staleFactor int
}

// NewRedisCache creates a new Redis cache instance.
func NewRedisCache(addr, password string, db int) interfaces.Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return NewRedisCacheWithClient(rdb)
}

// NewRedisCacheWithClient creates a Redis cache around an existing client.
func NewRedisCacheWithClient(client *redis.Client) interfaces.Cache {
	return &RedisCache{
		client:      client,
		staleFactor: DefaultStaleFactor,
	}
}

// Has reports whether a fresh entry exists for key.
func (r *RedisCache) Has(ctx context.Context, key string) bool {
	_, err := r.Get(ctx, key)
	return err == nil
}

// Get retrieves a fresh value from Redis.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	env, err := r.getEnvelope(ctx, key)
	if err != nil {
		return "", err
	}

	if !time.Now().Before(env.FreshUntil) {
		return "", ErrKeyExpired
	}

	return env.Value, nil
}

// GetStale retrieves a value from Redis regardless of freshness. Entries past
// the stale window have been dropped by the Redis key TTL.
func (r *RedisCache) GetStale(ctx context.Context, key string) (string, error) {
	env, err := r.getEnvelope(ctx, key)
	if err != nil {
		return "", err
	}
	return env.Value, nil
}

// Set stores a value with TTL, keeping the Redis key alive for the whole
// stale window.
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	env := redisEnvelope{
		Value:      value,
		FreshUntil: time.Now().Add(ttl),
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal cache envelope for %s: %w", key, err)
	}

	return r.client.Set(ctx, key, payload, ttl*time.Duration(r.staleFactor)).Err()
}

// Delete removes a key from Redis.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks if the Redis connection is alive.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Size returns the number of keys in Redis (for debugging).
func (r *RedisCache) Size(ctx context.Context) (int64, error) {
	return r.client.DBSize(ctx).Result()
}

// FlushAll removes all keys from Redis (for testing).
func (r *RedisCache) FlushAll(ctx context.Context) error {
	return r.client.FlushAll(ctx).Err()
}

func (r *RedisCache) getEnvelope(ctx context.Context, key string) (*redisEnvelope, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	var env redisEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache envelope for %s: %w", key, err)
	}
	return &env, nil
}
