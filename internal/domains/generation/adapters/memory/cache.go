package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

const (
	DefaultCacheTTL      = 24 * time.Hour
	DefaultCacheCapacity = 100
)

var _ ports.ResponseCache = (*Cache)(nil)

type cacheItem struct {
	key   string
	entry ports.CacheEntry
}

// Cache is a bounded, TTL-expiring response cache shared by all requests in the process.
// Entries are kept in insertion order so the oldest one is evicted first.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

func NewCache(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		order:    list.New(),
		items:    map[string]*list.Element{},
		now:      time.Now,
	}
}

// WithClock overrides the time source, primarily for tests.
func (c *Cache) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) Get(_ context.Context, key string) (ports.CacheEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	el, ok := c.items[key]
	if !ok {
		return ports.CacheEntry{}, false, nil
	}
	return cloneEntry(el.Value.(*cacheItem).entry), true, nil
}

// Put stores names under key. Sweep, eviction and insert happen under one lock so the
// cache never holds more than capacity entries.
func (c *Cache) Put(_ context.Context, key string, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
	for c.order.Len() >= c.capacity {
		c.removeLocked(c.order.Front())
	}
	entry := ports.CacheEntry{Names: append([]string(nil), names...), CreatedAt: c.now()}
	c.items[key] = c.order.PushBack(&cacheItem{key: key, entry: entry})
	return nil
}

func (c *Cache) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
	return nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	return c.order.Len()
}

func (c *Cache) sweepLocked() {
	now := c.now()
	for el := c.order.Front(); el != nil; {
		item := el.Value.(*cacheItem)
		if now.Sub(item.entry.CreatedAt) < c.ttl {
			break
		}
		next := el.Next()
		c.removeLocked(el)
		el = next
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	item := c.order.Remove(el).(*cacheItem)
	delete(c.items, item.key)
}

func cloneEntry(e ports.CacheEntry) ports.CacheEntry {
	return ports.CacheEntry{Names: append([]string(nil), e.Names...), CreatedAt: e.CreatedAt}
}
