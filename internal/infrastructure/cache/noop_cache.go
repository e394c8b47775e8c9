package cache

import (
	"context"
	"time"

	"appnube-sync-layer/internal/ports"
)

// NoopCache is used when Redis is not configured. Reads always miss and
// MarkOnce always grants the slot.
type NoopCache struct{}

// NewNoopCache creates a cache that stores nothing
func NewNoopCache() ports.Cache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	return false, nil
}

func (NoopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (NoopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (NoopCache) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}
