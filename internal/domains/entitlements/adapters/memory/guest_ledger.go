package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.GuestLedger = (*GuestLedger)(nil)

// GuestLedger counts guest generations per token in process memory.
type GuestLedger struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewGuestLedger() *GuestLedger {
	return &GuestLedger{counts: map[string]int{}}
}

func (l *GuestLedger) IncrementBelow(_ context.Context, token string, limit int) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.counts[token]
	if current >= limit {
		return current, false, nil
	}
	current++
	l.counts[token] = current
	return current, true, nil
}

func (l *GuestLedger) Decrement(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[token] > 0 {
		l.counts[token]--
	}
	return nil
}

func (l *GuestLedger) Count(_ context.Context, token string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[token], nil
}
