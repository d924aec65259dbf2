package ports

import (
	"context"
	"time"
)

// CacheEntry is a cached normalized result.
type CacheEntry struct {
	Names     []string
	CreatedAt time.Time
}

// ResponseCache stores normalized names by request fingerprint.
type ResponseCache interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Put(ctx context.Context, key string, names []string) error
	Evict(ctx context.Context, key string) error
}
