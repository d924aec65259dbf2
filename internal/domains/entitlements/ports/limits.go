package ports

import (
	"context"
	"time"
)

// Limits exposes the runtime-tunable thresholds the gate enforces.
type Limits interface {
	GuestLimit(ctx context.Context) int
	GenerationCooldown(ctx context.Context) time.Duration
}

// StaticLimits is a fixed Limits value, handy for tests and bootstrapping.
type StaticLimits struct {
	Guest    int
	Cooldown time.Duration
}

func (s StaticLimits) GuestLimit(context.Context) int { return s.Guest }

func (s StaticLimits) GenerationCooldown(context.Context) time.Duration { return s.Cooldown }
