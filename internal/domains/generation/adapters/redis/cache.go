package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

var _ ports.ResponseCache = (*Cache)(nil)

const (
	cacheKeyPrefix = "namegen:cache:"
	cacheIndexKey  = "namegen:cache:index"
)

// putBounded writes the entry, drops index members older than the TTL, then trims the
// index to capacity oldest-first. All steps run in one script so replicas never overshoot.
var putBounded = goredis.NewScript(`
local now = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])
local capacity = tonumber(ARGV[4])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
redis.call('ZADD', KEYS[2], now, KEYS[1])
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', now - ttl)
local overflow = redis.call('ZCARD', KEYS[2]) - capacity
if overflow > 0 then
  local evicted = redis.call('ZPOPMIN', KEYS[2], overflow)
  for i = 1, #evicted, 2 do
    redis.call('DEL', evicted[i])
  end
end
return 1
`)

type cachedNames struct {
	Names     []string  `json:"names"`
	CreatedAt time.Time `json:"createdAt"`
}

// Cache shares normalized responses between API replicas.
type Cache struct {
	client   goredis.UniversalClient
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewCache(client goredis.UniversalClient, ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if capacity <= 0 {
		capacity = 100
	}
	return &Cache{client: client, ttl: ttl, capacity: capacity, now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) (ports.CacheEntry, bool, error) {
	if err := c.ensureClient(); err != nil {
		return ports.CacheEntry{}, false, err
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ports.CacheEntry{}, false, nil
	}
	if err != nil {
		return ports.CacheEntry{}, false, err
	}
	var decoded cachedNames
	if err := json.Unmarshal(raw, &decoded); err != nil {
		_ = c.Evict(ctx, key)
		return ports.CacheEntry{}, false, nil
	}
	return ports.CacheEntry{Names: decoded.Names, CreatedAt: decoded.CreatedAt}, true, nil
}

func (c *Cache) Put(ctx context.Context, key string, names []string) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	now := c.now()
	payload, err := json.Marshal(cachedNames{Names: names, CreatedAt: now})
	if err != nil {
		return err
	}
	return putBounded.Run(ctx, c.client,
		[]string{cacheKeyPrefix + key, cacheIndexKey},
		payload, now.UnixMilli(), c.ttl.Milliseconds(), c.capacity,
	).Err()
}

func (c *Cache) Evict(ctx context.Context, key string) error {
	if err := c.ensureClient(); err != nil {
		return err
	}
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, cacheKeyPrefix+key)
		pipe.ZRem(ctx, cacheIndexKey, cacheKeyPrefix+key)
		return nil
	})
	return err
}

func (c *Cache) ensureClient() error {
	if c == nil || c.client == nil {
		return errors.New("redis response cache not configured")
	}
	return nil
}
