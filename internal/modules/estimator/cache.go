// README: Prediction cache keyed by dataset fingerprint, parameters and query.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PredictionCache stores raw model outputs. A miss is (0, false, nil).
type PredictionCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, price float64) error
}

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "farecast:estimate:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (float64, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	v, err := c.client.Get(ctx, c.prefix+key).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, price float64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.prefix+key, price, c.ttl).Err()
}

func predictionKey(fingerprint, paramsKey string, q Query) string {
	return fmt.Sprintf("%s|%s|%.4f|%d", fingerprint, paramsKey, q.Distance, q.Hour)
}
