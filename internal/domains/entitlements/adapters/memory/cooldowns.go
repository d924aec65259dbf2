package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.CooldownTracker = (*Cooldowns)(nil)

// Cooldowns tracks open cooldown windows per caller key.
type Cooldowns struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{until: map[string]time.Time{}, now: time.Now}
}

// WithClock overrides the time source, primarily for tests.
func (c *Cooldowns) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cooldowns) Start(_ context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if until, ok := c.until[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	c.until[key] = now.Add(window)
	for k, until := range c.until {
		if !now.Before(until) {
			delete(c.until, k)
		}
	}
	return true, 0, nil
}

func (c *Cooldowns) Cancel(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.until, key)
	return nil
}
