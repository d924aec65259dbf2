package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
)

const tracerName = "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/observability/service"

// Service decorates the account service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core account service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, password string) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Register")
	defer span.End()
	profile, err := s.inner.Register(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register account")
	}
	span.SetAttributes(attribute.Int64("account.id", profile.Account.ID))
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "account registered", slog.Int64("accountId", profile.Account.ID), slog.Int("credits", profile.Credits))
	return profile, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx)
	return result, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "AccountService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Resolve(ctx context.Context, token string) (entdomain.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Resolve")
	defer span.End()
	identity, err := s.inner.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, application.ErrUnauthenticated) {
			span.SetAttributes(attribute.Bool("account.authenticated", false))
			return identity, err
		}
		return identity, s.handleError(ctx, span, err, "failed to resolve session")
	}
	span.SetAttributes(attribute.Int64("account.id", identity.AccountID()), attribute.String("account.tier", string(identity.Tier())))
	return identity, nil
}

func (s *Service) Profile(ctx context.Context, accountID int64) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.Profile", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()
	return s.inner.Profile(ctx, accountID)
}

func (s *Service) ActivatePremium(ctx context.Context, accountID int64, duration time.Duration) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ActivatePremium", trace.WithAttributes(attribute.Int64("account.id", accountID)))
	defer span.End()
	profile, err := s.inner.ActivatePremium(ctx, accountID, duration)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to activate premium", slog.Int64("accountId", accountID))
	}
	s.logInfo(ctx, "premium activated", slog.Int64("accountId", accountID), slog.Duration("duration", duration))
	return profile, nil
}

func (s *Service) ExpireSubscriptions(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ExpireSubscriptions")
	defer span.End()
	n, err := s.inner.ExpireSubscriptions(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to expire subscriptions")
	}
	s.logInfo(ctx, "expired subscriptions swept", slog.Int64("count", n))
	return n, nil
}

func (s *Service) PurgeSessions(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.PurgeSessions")
	defer span.End()
	n, err := s.inner.PurgeSessions(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge sessions")
	}
	s.logInfo(ctx, "expired sessions purged", slog.Int64("count", n))
	return n, nil
}

func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	ctx, span := s.tracer.Start(ctx, "AccountService.EnsureAdmin")
	defer span.End()
	if err := s.inner.EnsureAdmin(ctx, email, password); err != nil {
		return s.handleError(ctx, span, err, "failed to bootstrap admin account")
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, application.ErrAuthentication) || errors.Is(err, application.ErrConflict) {
		level = slog.LevelInfo
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("accounts.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("accounts.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{registered: registered, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ports.Service = (*Service)(nil)
