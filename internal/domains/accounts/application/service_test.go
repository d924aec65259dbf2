package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/memory"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	entmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/memory"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
)

type fixedLimits int

func (f fixedLimits) FreeUserLimit(context.Context) int { return int(f) }

type recordedActivity struct {
	accountID int64
	action    string
}

type activityLog struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (a *activityLog) Record(_ context.Context, accountID int64, action string, _ map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedActivity{accountID: accountID, action: action})
	return nil
}

type fixture struct {
	svc      *Service
	credits  *entmemory.CreditStore
	activity *activityLog
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		credits:  entmemory.NewCreditStore(),
		activity: &activityLog{},
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(
		memory.NewRepository(),
		memory.NewSubscriptionRepository(),
		memory.NewSessionStore(),
		f.credits,
		WithLimits(fixedLimits(3)),
		WithActivityRecorder(f.activity),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func TestRegister_GrantsFreeCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.svc.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, entdomain.TierFree, profile.Tier)
	require.Equal(t, 3, profile.Credits)

	balance, err := f.credits.Balance(ctx, profile.Account.ID)
	require.NoError(t, err)
	require.Equal(t, 3, balance)
	require.Len(t, f.activity.entries, 1)
	require.Equal(t, ActionAccountRegistered, f.activity.entries[0].action)
}

func TestRegister_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "ada@example.com", "short")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = f.svc.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "ADA@example.com", "password456")
	require.ErrorIs(t, err, ErrConflict)
}

func TestLoginResolveLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered, err := f.svc.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = f.svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrAuthentication)

	login, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, f.now.Add(DefaultSessionTTL), login.ExpiresAt)

	identity, err := f.svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.False(t, identity.IsGuest())
	require.Equal(t, registered.Account.ID, identity.AccountID())
	require.Equal(t, entdomain.TierFree, identity.Tier())

	require.NoError(t, f.svc.Logout(ctx, login.Token))
	_, err = f.svc.Resolve(ctx, login.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolve_SessionExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	login, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	f.now = f.now.Add(DefaultSessionTTL)
	_, err = f.svc.Resolve(ctx, login.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	purged, err := f.svc.PurgeSessions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}

func TestActivatePremium_TierFollowsSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered, err := f.svc.Register(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	login, err := f.svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	profile, err := f.svc.ActivatePremium(ctx, registered.Account.ID, time.Hour)
	require.NoError(t, err)
	require.Equal(t, entdomain.TierPremium, profile.Tier)
	require.NotNil(t, profile.PremiumUntil)

	identity, err := f.svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, entdomain.TierPremium, identity.Tier())

	f.now = f.now.Add(2 * time.Hour)
	identity, err = f.svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, entdomain.TierFree, identity.Tier())

	expired, err := f.svc.ExpireSubscriptions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), expired)
}

func TestEnsureAdmin_CreatesOrPromotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdmin(ctx, "root@example.com", "password123"))
	require.NoError(t, f.svc.EnsureAdmin(ctx, "root@example.com", "password123"))
	login, err := f.svc.Login(ctx, "root@example.com", "password123")
	require.NoError(t, err)
	identity, err := f.svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.True(t, identity.IsAdmin())

	_, err = f.svc.Register(ctx, "ops@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.svc.EnsureAdmin(ctx, "ops@example.com", "ignored-password"))
	login, err = f.svc.Login(ctx, "ops@example.com", "password123")
	require.NoError(t, err)
	identity, err = f.svc.Resolve(ctx, login.Token)
	require.NoError(t, err)
	require.True(t, identity.IsAdmin())

	require.NoError(t, f.svc.EnsureAdmin(ctx, "", ""))
}
