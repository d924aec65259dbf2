package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	entports "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	// DefaultFreeUserLimit seeds new accounts when no limits provider is wired.
	DefaultFreeUserLimit = 10

	ActionAccountRegistered = "account.registered"
	ActionPremiumActivated  = "account.premium_activated"
)

// Service exposes the account bounded context use cases.
type Service struct {
	repo          ports.Repository
	subscriptions ports.SubscriptionRepository
	sessions      ports.SessionStore
	credits       entports.CreditStore
	limits        ports.Limits
	activity      ports.ActivityRecorder
	sessionTTL    time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

type Option func(*Service)

func WithLimits(limits ports.Limits) Option {
	return func(s *Service) { s.limits = limits }
}

func WithActivityRecorder(recorder ports.ActivityRecorder) Option {
	return func(s *Service) { s.activity = recorder }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(repo ports.Repository, subscriptions ports.SubscriptionRepository, sessions ports.SessionStore, credits entports.CreditStore, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		subscriptions: subscriptions,
		sessions:      sessions,
		credits:       credits,
		activity:      ports.NoopActivityRecorder,
		sessionTTL:    DefaultSessionTTL,
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.activity == nil {
		s.activity = ports.NoopActivityRecorder
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Register creates the account and grants the configured free credits.
func (s *Service) Register(ctx context.Context, email, password string) (*types.Profile, error) {
	account, err := domain.NewAccount(email, password)
	if err != nil {
		return nil, mapError(err)
	}
	return s.create(ctx, account)
}

func (s *Service) create(ctx context.Context, account *domain.Account) (*types.Profile, error) {
	saved, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, mapError(err)
	}
	credits := s.freeUserLimit(ctx)
	if err := s.credits.Grant(ctx, saved.ID, credits); err != nil {
		return nil, fmt.Errorf("grant initial credits: %w", err)
	}
	if err := s.activity.Record(ctx, saved.ID, ActionAccountRegistered, map[string]string{"email": saved.Email}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record registration", slog.Int64("accountId", saved.ID), slog.String("error", err.Error()))
	}
	return &types.Profile{Account: saved, Tier: entdomain.TierFree, Credits: credits}, nil
}

func (s *Service) freeUserLimit(ctx context.Context) int {
	if s.limits == nil {
		return DefaultFreeUserLimit
	}
	if n := s.limits.FreeUserLimit(ctx); n >= 0 {
		return n
	}
	return 0
}

// Login verifies the credentials and issues a fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, errInvalidCredentials)
	}
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrAuthentication, errInvalidCredentials)
		}
		return nil, err
	}
	if !account.CheckPassword(password) {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, errInvalidCredentials)
	}
	session := domain.Session{
		Token:     uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	profile, err := s.profileFor(ctx, account)
	if err != nil {
		return nil, err
	}
	return &types.LoginResult{Token: session.Token, ExpiresAt: session.ExpiresAt, Profile: profile}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a bearer token to an identity with the effective tier.
func (s *Service) Resolve(ctx context.Context, token string) (entdomain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entdomain.Identity{}, ErrUnauthenticated
	}
	session, err := s.sessions.Lookup(ctx, token, s.now())
	if err != nil {
		return entdomain.Identity{}, mapError(err)
	}
	account, err := s.repo.GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return entdomain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return entdomain.Identity{}, err
	}
	sub, err := s.subscriptions.ActiveFor(ctx, account.ID, s.now())
	if err != nil {
		return entdomain.Identity{}, err
	}
	return entdomain.Account(account.ID, tierOf(sub), roleOf(account)), nil
}

func (s *Service) Profile(ctx context.Context, accountID int64) (*types.Profile, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.profileFor(ctx, account)
}

func (s *Service) profileFor(ctx context.Context, account *domain.Account) (*types.Profile, error) {
	sub, err := s.subscriptions.ActiveFor(ctx, account.ID, s.now())
	if err != nil {
		return nil, err
	}
	credits, err := s.credits.Balance(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("read credit balance: %w", err)
	}
	profile := &types.Profile{Account: account, Tier: tierOf(sub), Credits: credits}
	if sub != nil {
		profile.PremiumUntil = sub.ExpiresAt
	}
	return profile, nil
}

// ActivatePremium opens a premium subscription; a non-positive duration never expires.
func (s *Service) ActivatePremium(ctx context.Context, accountID int64, duration time.Duration) (*types.Profile, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	var expiresAt *time.Time
	if duration > 0 {
		until := s.now().Add(duration)
		expiresAt = &until
	}
	if _, err := s.subscriptions.Activate(ctx, account.ID, expiresAt); err != nil {
		return nil, err
	}
	meta := map[string]string{}
	if expiresAt != nil {
		meta["expiresAt"] = expiresAt.UTC().Format(time.RFC3339)
	}
	if err := s.activity.Record(ctx, account.ID, ActionPremiumActivated, meta); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record premium activation", slog.Int64("accountId", account.ID), slog.String("error", err.Error()))
	}
	return s.profileFor(ctx, account)
}

// ExpireSubscriptions deactivates subscriptions past their expiry.
func (s *Service) ExpireSubscriptions(ctx context.Context) (int64, error) {
	return s.subscriptions.DeactivateExpired(ctx, s.now())
}

func (s *Service) PurgeSessions(ctx context.Context) (int64, error) {
	return s.sessions.PurgeExpired(ctx, s.now())
}

// EnsureAdmin creates the bootstrap admin or promotes an existing account with that email.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		return s.repo.UpdateRole(ctx, existing.ID, domain.RoleAdmin)
	case !errors.Is(err, ports.ErrNotFound):
		return err
	}
	account, err := domain.NewAccount(email, password)
	if err != nil {
		return mapError(err)
	}
	account.Role = domain.RoleAdmin
	_, err = s.create(ctx, account)
	return err
}

func tierOf(sub *domain.Subscription) entdomain.Tier {
	if sub != nil {
		return entdomain.TierPremium
	}
	return entdomain.TierFree
}

func roleOf(account *domain.Account) entdomain.Role {
	if account.IsAdmin() {
		return entdomain.RoleAdmin
	}
	return entdomain.RoleUser
}

var _ ports.Service = (*Service)(nil)
