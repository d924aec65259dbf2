package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

// Gate decides per tier whether a generation may proceed and reserves quota for it.
type Gate struct {
	credits   ports.CreditStore
	guests    ports.GuestPolicy
	limits    ports.Limits
	cooldowns ports.CooldownTracker
	usage     ports.UsageRecorder
}

// GateOption customises optional gate collaborators.
type GateOption func(*Gate)

// WithCooldowns enables per-caller cooldown enforcement for guests and free accounts.
func WithCooldowns(tracker ports.CooldownTracker) GateOption {
	return func(g *Gate) { g.cooldowns = tracker }
}

// WithUsageRecorder wires the durable usage log.
func WithUsageRecorder(recorder ports.UsageRecorder) GateOption {
	return func(g *Gate) { g.usage = recorder }
}

// NewGate wires the credit store, guest policy, and limits.
func NewGate(credits ports.CreditStore, guests ports.GuestPolicy, limits ports.Limits, opts ...GateOption) *Gate {
	if guests == nil {
		guests = NewClientCounterPolicy()
	}
	if limits == nil {
		limits = ports.StaticLimits{Guest: DefaultGuestLimit}
	}
	g := &Gate{credits: credits, guests: guests, limits: limits, usage: ports.NoopUsageRecorder}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.usage == nil {
		g.usage = ports.NoopUsageRecorder
	}
	return g
}

// CheckAndConsume evaluates the identity and, when allowed, reserves one unit of quota.
// Premium accounts are never charged and never cooled down. A cooldown window opened
// here is cancelled again when the attempt is denied further down.
func (g *Gate) CheckAndConsume(ctx context.Context, identity domain.Identity, priorCount int) (domain.Decision, error) {
	if identity.IsGuest() {
		return g.checkGuest(ctx, identity, priorCount)
	}
	if identity.Tier() == domain.TierPremium {
		return domain.Allow(0, false), nil
	}
	if g.credits == nil {
		return domain.Decision{}, ErrNotConfigured
	}
	balance, err := g.credits.Balance(ctx, identity.AccountID())
	if err != nil {
		return domain.Decision{}, fmt.Errorf("read credit balance: %w", err)
	}
	if balance <= 0 {
		return domain.Deny(domain.ReasonUpgradeRequired), nil
	}
	started, denied, err := g.startCooldown(ctx, identity)
	if err != nil || denied != nil {
		return derefDecision(denied), err
	}
	ok, err := g.credits.TryConsume(ctx, identity.AccountID())
	if err != nil {
		g.cancelCooldown(ctx, identity, started)
		return domain.Decision{}, fmt.Errorf("consume credit: %w", err)
	}
	if !ok {
		g.cancelCooldown(ctx, identity, started)
		return domain.Deny(domain.ReasonUpgradeRequired), nil
	}
	decision := domain.Allow(0, true)
	decision.CooldownStarted = started
	return decision, nil
}

func (g *Gate) checkGuest(ctx context.Context, identity domain.Identity, priorCount int) (domain.Decision, error) {
	if identity.GuestToken() == "" {
		return domain.Deny(domain.ReasonGuestTokenMissing), nil
	}
	if priorCount < 0 {
		return domain.Decision{}, domain.ErrInvalidCount
	}
	limit := g.limits.GuestLimit(ctx)
	// A client reporting itself at the limit is denied without touching any server state.
	if priorCount >= limit {
		return domain.Deny(domain.ReasonGuestLimitReached), nil
	}
	started, denied, err := g.startCooldown(ctx, identity)
	if err != nil || denied != nil {
		return derefDecision(denied), err
	}
	updated, allowed, err := g.guests.Admit(ctx, identity.GuestToken(), priorCount, limit)
	if err != nil {
		g.cancelCooldown(ctx, identity, started)
		return domain.Decision{}, fmt.Errorf("admit guest: %w", err)
	}
	if !allowed {
		g.cancelCooldown(ctx, identity, started)
		return domain.Deny(domain.ReasonGuestLimitReached), nil
	}
	decision := domain.Allow(updated, true)
	decision.CooldownStarted = started
	return decision, nil
}

// startCooldown reports whether a window was opened, or a denial when one is already open.
func (g *Gate) startCooldown(ctx context.Context, identity domain.Identity) (bool, *domain.Decision, error) {
	if g.cooldowns == nil {
		return false, nil, nil
	}
	window := g.limits.GenerationCooldown(ctx)
	if window <= 0 {
		return false, nil, nil
	}
	started, remaining, err := g.cooldowns.Start(ctx, identity.Key(), window)
	if err != nil {
		return false, nil, fmt.Errorf("start cooldown: %w", err)
	}
	if started {
		return true, nil, nil
	}
	d := domain.Deny(domain.ReasonCooldownActive)
	d.RetryAfter = remaining
	return false, &d, nil
}

// cancelCooldown is best effort on deny paths; the denial itself is what the caller sees.
func (g *Gate) cancelCooldown(ctx context.Context, identity domain.Identity, started bool) {
	if !started || g.cooldowns == nil {
		return
	}
	_ = g.cooldowns.Cancel(ctx, identity.Key())
}

// Release undoes a reservation taken by CheckAndConsume: it refunds the credit or
// ledger slot and closes the cooldown window the attempt opened.
func (g *Gate) Release(ctx context.Context, identity domain.Identity, decision domain.Decision) error {
	if !decision.Allowed {
		return nil
	}
	var cooldownErr error
	if decision.CooldownStarted && g.cooldowns != nil {
		if err := g.cooldowns.Cancel(ctx, identity.Key()); err != nil {
			cooldownErr = fmt.Errorf("cancel cooldown: %w", err)
		}
	}
	if !decision.Consumed {
		return cooldownErr
	}
	var refundErr error
	switch {
	case identity.IsGuest():
		refundErr = g.guests.Release(ctx, identity.GuestToken())
	case g.credits == nil:
		refundErr = ErrNotConfigured
	default:
		refundErr = g.credits.Refund(ctx, identity.AccountID())
	}
	return errors.Join(refundErr, cooldownErr)
}

// RecordUsage logs a successful account generation; guests leave no durable trace.
func (g *Gate) RecordUsage(ctx context.Context, identity domain.Identity, event ports.UsageEvent) error {
	if identity.IsGuest() {
		return nil
	}
	event.AccountID = identity.AccountID()
	return g.usage.RecordUsage(ctx, event)
}

func derefDecision(d *domain.Decision) domain.Decision {
	if d == nil {
		return domain.Decision{}
	}
	return *d
}

var _ ports.Gate = (*Gate)(nil)
