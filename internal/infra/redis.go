// README: Redis client initialization for the prediction cache.
package infra

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingAttempts = 3

// NewRedis connects to addr, retrying the initial ping a few times.
func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	var lastErr error
	for i := 0; i < redisPingAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			return client, nil
		}
		log.Printf("redis ping attempt %d/%d failed: %v", i+1, redisPingAttempts, lastErr)
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	client.Close()
	return nil, fmt.Errorf("redis ping failed after %d attempts: %w", redisPingAttempts, lastErr)
}
