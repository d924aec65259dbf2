package ports

import (
	"context"
	"time"
)

// CooldownTracker enforces a minimum spacing between generations per caller key.
type CooldownTracker interface {
	// Start opens a window for key unless one is already open; it returns the time left when blocked.
	Start(ctx context.Context, key string, window time.Duration) (started bool, remaining time.Duration, err error)
	// Cancel closes the window for key so an attempt that did not complete leaves no cooldown behind.
	Cancel(ctx context.Context, key string) error
}
