package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application/types"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
)

// Service exposes account use cases to adapters.
type Service interface {
	Register(ctx context.Context, email, password string) (*types.Profile, error)
	Login(ctx context.Context, email, password string) (*types.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (entdomain.Identity, error)
	Profile(ctx context.Context, accountID int64) (*types.Profile, error)
	ActivatePremium(ctx context.Context, accountID int64, duration time.Duration) (*types.Profile, error)
	ExpireSubscriptions(ctx context.Context) (int64, error)
	PurgeSessions(ctx context.Context) (int64, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}
