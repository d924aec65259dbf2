package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.CooldownTracker = (*Cooldowns)(nil)

const cooldownKeyPrefix = "namegen:cooldown:"

// Cooldowns uses SET NX with an expiry so the window is shared across replicas.
type Cooldowns struct {
	client goredis.UniversalClient
}

func NewCooldowns(client goredis.UniversalClient) *Cooldowns {
	return &Cooldowns{client: client}
}

func (c *Cooldowns) Start(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	if c == nil || c.client == nil {
		return false, 0, errors.New("redis cooldown tracker not configured")
	}
	redisKey := cooldownKeyPrefix + key
	started, err := c.client.SetNX(ctx, redisKey, 1, window).Result()
	if err != nil {
		return false, 0, err
	}
	if started {
		return true, 0, nil
	}
	remaining, err := c.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

func (c *Cooldowns) Cancel(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return errors.New("redis cooldown tracker not configured")
	}
	return c.client.Del(ctx, cooldownKeyPrefix+key).Err()
}
