package observability

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
)

// Cache counts response cache hits and misses.
type Cache struct {
	inner    ports.ResponseCache
	registry *metrics.Registry
}

func NewCache(inner ports.ResponseCache, reg *metrics.Registry) *Cache {
	return &Cache{inner: inner, registry: reg}
}

func (c *Cache) Get(ctx context.Context, key string) (ports.CacheEntry, bool, error) {
	entry, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		c.registry.CacheLookup(ok)
	}
	return entry, ok, err
}

func (c *Cache) Put(ctx context.Context, key string, names []string) error {
	return c.inner.Put(ctx, key, names)
}

func (c *Cache) Evict(ctx context.Context, key string) error {
	return c.inner.Evict(ctx, key)
}

var _ ports.ResponseCache = (*Cache)(nil)
