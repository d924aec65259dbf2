package application

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

// DefaultGuestLimit is the number of free generations a guest gets before signing up.
const DefaultGuestLimit = 5

// ClientCounterPolicy trusts the count the client echoes back in its header.
// It keeps no server state, so a client that resets its counter resets its quota.
type ClientCounterPolicy struct{}

func NewClientCounterPolicy() ClientCounterPolicy { return ClientCounterPolicy{} }

func (ClientCounterPolicy) Admit(_ context.Context, _ string, priorCount, limit int) (int, bool, error) {
	if priorCount >= limit {
		return priorCount, false, nil
	}
	return priorCount + 1, true, nil
}

// Release is a no-op: the client only advances its counter after a successful response.
func (ClientCounterPolicy) Release(context.Context, string) error { return nil }

// LedgerPolicy keeps the authoritative count server-side, keyed by guest token.
// The client header can still deny early (a client reporting itself at the limit)
// but never admits: admission is decided by the ledger count alone.
type LedgerPolicy struct {
	ledger ports.GuestLedger
}

func NewLedgerPolicy(ledger ports.GuestLedger) *LedgerPolicy {
	return &LedgerPolicy{ledger: ledger}
}

func (p *LedgerPolicy) Admit(ctx context.Context, token string, _ int, limit int) (int, bool, error) {
	if p == nil || p.ledger == nil {
		return 0, false, ErrNotConfigured
	}
	return p.ledger.IncrementBelow(ctx, token, limit)
}

func (p *LedgerPolicy) Release(ctx context.Context, token string) error {
	if p == nil || p.ledger == nil {
		return ErrNotConfigured
	}
	return p.ledger.Decrement(ctx, token)
}

var (
	_ ports.GuestPolicy = ClientCounterPolicy{}
	_ ports.GuestPolicy = (*LedgerPolicy)(nil)
)
