package ports

import (
	"context"
	"errors"
)

var ErrAccountNotFound = errors.New("account credit balance not found")

// CreditStore keeps the durable per-account generation balance.
type CreditStore interface {
	// TryConsume decrements the balance by one iff it is positive, in a single atomic step.
	TryConsume(ctx context.Context, accountID int64) (bool, error)
	// Refund returns one credit taken by TryConsume.
	Refund(ctx context.Context, accountID int64) error
	// Grant adds credits to the account balance.
	Grant(ctx context.Context, accountID int64, amount int) error
	Balance(ctx context.Context, accountID int64) (int, error)
}
