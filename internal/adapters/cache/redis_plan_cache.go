package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache memoizes serialized plan responses keyed by a digest of
// the resolved request. Entries expire on their TTL; Redis is treated as
// best-effort shared state, so a miss is never an error.
type RedisPlanCache struct {
	client *redis.Client
}

func NewRedisPlanCache(client *redis.Client) *RedisPlanCache {
	return &RedisPlanCache{client: client}
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("plan cache get %q: %w", key, err)
	}

	return b, true, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("plan cache put %q: %w", key, err)
	}

	return nil
}
