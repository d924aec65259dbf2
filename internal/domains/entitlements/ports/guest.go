package ports

import "context"

// GuestPolicy decides whether a guest may generate, given the client-supplied prior count.
type GuestPolicy interface {
	// Admit returns the count to echo back and whether the attempt is allowed.
	Admit(ctx context.Context, token string, priorCount, limit int) (updated int, allowed bool, err error)
	// Release undoes a successful Admit when the generation does not complete.
	Release(ctx context.Context, token string) error
}

// GuestLedger is a server-side counter keyed by guest token.
type GuestLedger interface {
	// IncrementBelow bumps the counter iff it is below limit and returns the resulting count.
	IncrementBelow(ctx context.Context, token string, limit int) (count int, ok bool, err error)
	Decrement(ctx context.Context, token string) error
	Count(ctx context.Context, token string) (int, error)
}
