package application

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/ports"
)

const DefaultProviderTTL = 30 * time.Second

// Provider serves setting values from a short-lived snapshot of the repository.
// A failed reload keeps serving the previous snapshot, or the defaults when there is none.
type Provider struct {
	repo   ports.Repository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	values   map[domain.Key]int
	loadedAt time.Time
}

type ProviderOption func(*Provider)

func WithTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithProviderClock overrides the time source, primarily for tests.
func WithProviderClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewProvider(repo ports.Repository, opts ...ProviderOption) *Provider {
	p := &Provider{
		repo:   repo,
		ttl:    DefaultProviderTTL,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Value returns the effective value for key.
func (p *Provider) Value(ctx context.Context, key domain.Key) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.values == nil || p.now().Sub(p.loadedAt) >= p.ttl {
		p.reload(ctx)
	}
	if v, ok := p.values[key]; ok {
		return v
	}
	return domain.Defaults[key]
}

func (p *Provider) reload(ctx context.Context) {
	stored, err := p.repo.List(ctx)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load settings", slog.String("error", err.Error()))
		if p.values == nil {
			p.values = withDefaults(nil)
			p.loadedAt = p.now()
		}
		return
	}
	p.values = withDefaults(stored)
	p.loadedAt = p.now()
}

// Invalidate drops the snapshot so the next read hits the repository.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = nil
}

func (p *Provider) GuestLimit(ctx context.Context) int {
	return p.Value(ctx, domain.KeyGuestLimit)
}

func (p *Provider) FreeUserLimit(ctx context.Context) int {
	return p.Value(ctx, domain.KeyFreeUserLimit)
}

func (p *Provider) GenerationCooldown(ctx context.Context) time.Duration {
	return time.Duration(p.Value(ctx, domain.KeyGenerationCooldown)) * time.Second
}

func withDefaults(stored []domain.Setting) map[domain.Key]int {
	values := make(map[domain.Key]int, len(domain.Defaults))
	for k, v := range domain.Defaults {
		values[k] = v
	}
	for _, s := range stored {
		values[s.Key] = s.Value
	}
	return values
}
