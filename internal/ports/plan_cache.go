package ports

import (
	"context"
	"time"
)

// Optional response cache for the planning endpoint. A nil cache (not
// configured) simply skips memoization; misses return ok=false, not an
// error.
type PlanCache interface {
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
