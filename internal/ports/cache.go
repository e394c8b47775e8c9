package ports

import (
	"context"
	"time"
)

// Cache is a small read-through cache plus webhook delivery deduplication.
// Implementations must be safe for concurrent use; a broken cache should
// degrade to misses, never block reads.
type Cache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// MarkOnce returns true the first time key is seen within ttl, false on
	// repeats. Used to drop exact duplicate webhook deliveries.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Mailer delivers account emails. Sending is an external concern; the
// default implementation only logs.
type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
}
