package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.GuestLedger = (*GuestLedger)(nil)

// DefaultGuestWindow bounds how long a guest counter survives without activity.
const DefaultGuestWindow = 24 * time.Hour

const guestKeyPrefix = "namegen:guest:"

// incrementBelow bumps the counter only while it is under the limit, atomically on the server.
var incrementBelow = goredis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return {current, 0}
end
current = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return {current, 1}
`)

var decrementFloor = goredis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current > 0 then
  return redis.call('DECR', KEYS[1])
end
return 0
`)

// GuestLedger keeps guest counters in Redis so every API replica shares them.
type GuestLedger struct {
	client goredis.UniversalClient
	window time.Duration
}

func NewGuestLedger(client goredis.UniversalClient, window time.Duration) *GuestLedger {
	if window <= 0 {
		window = DefaultGuestWindow
	}
	return &GuestLedger{client: client, window: window}
}

func (l *GuestLedger) IncrementBelow(ctx context.Context, token string, limit int) (int, bool, error) {
	if err := l.ensureClient(); err != nil {
		return 0, false, err
	}
	key := guestKey(token)
	res, err := incrementBelow.Run(ctx, l.client, []string{key}, limit, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, false, err
	}
	if len(res) != 2 {
		return 0, false, errors.New("unexpected guest ledger script reply")
	}
	return int(res[0]), res[1] == 1, nil
}

func (l *GuestLedger) Decrement(ctx context.Context, token string) error {
	if err := l.ensureClient(); err != nil {
		return err
	}
	return decrementFloor.Run(ctx, l.client, []string{guestKey(token)}).Err()
}

func (l *GuestLedger) Count(ctx context.Context, token string) (int, error) {
	if err := l.ensureClient(); err != nil {
		return 0, err
	}
	n, err := l.client.Get(ctx, guestKey(token)).Int()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

func (l *GuestLedger) ensureClient() error {
	if l == nil || l.client == nil {
		return errors.New("redis guest ledger not configured")
	}
	return nil
}

func guestKey(token string) string {
	return guestKeyPrefix + strings.TrimSpace(token)
}
