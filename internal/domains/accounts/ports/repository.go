package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	// Create inserts a new account and assigns its ID; ErrEmailTaken on duplicates.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	Count(ctx context.Context) (int64, error)
}

// SubscriptionRepository tracks premium subscriptions.
type SubscriptionRepository interface {
	Activate(ctx context.Context, accountID int64, expiresAt *time.Time) (*domain.Subscription, error)
	// ActiveFor returns the subscription that grants premium at now, or nil.
	ActiveFor(ctx context.Context, accountID int64, now time.Time) (*domain.Subscription, error)
	// DeactivateExpired flips every active subscription with expires_at <= now and reports how many changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
