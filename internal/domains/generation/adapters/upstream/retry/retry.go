package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
)

const (
	DefaultMaxAttempts     = 3
	DefaultAttemptTimeout  = 30 * time.Second
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 5 * time.Second
)

var _ ports.NameGenerator = (*Generator)(nil)

// Generator retries transient upstream failures with exponential backoff.
// Each attempt gets its own deadline; rejected requests are returned immediately.
type Generator struct {
	inner           ports.NameGenerator
	maxAttempts     int
	attemptTimeout  time.Duration
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *slog.Logger
	metrics         *metrics.Registry
}

type Option func(*Generator)

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func WithAttemptTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithIntervals tunes the backoff schedule.
func WithIntervals(initial, max time.Duration) Option {
	return func(g *Generator) {
		if initial > 0 {
			g.initialInterval = initial
		}
		if max > 0 {
			g.maxInterval = max
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

func WithMetrics(reg *metrics.Registry) Option {
	return func(g *Generator) { g.metrics = reg }
}

func New(inner ports.NameGenerator, opts ...Option) *Generator {
	g := &Generator{
		inner:           inner,
		maxAttempts:     DefaultMaxAttempts,
		attemptTimeout:  DefaultAttemptTimeout,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

func (g *Generator) Provider() string { return g.inner.Provider() }

func (g *Generator) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.initialInterval
	policy.MaxInterval = g.maxInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() (string, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
		out, err := g.inner.Complete(attemptCtx, req)
		if err == nil {
			g.metrics.UpstreamAttempt(g.Provider(), "success")
			return out, nil
		}
		if ctx.Err() != nil {
			g.metrics.UpstreamAttempt(g.Provider(), "cancelled")
			return "", backoff.Permanent(ctx.Err())
		}
		if !retryable(err) {
			g.metrics.UpstreamAttempt(g.Provider(), "rejected")
			return "", backoff.Permanent(err)
		}
		g.metrics.UpstreamAttempt(g.Provider(), "transient")
		g.logger.LogAttrs(ctx, slog.LevelWarn, "upstream attempt failed",
			slog.String("provider", g.Provider()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.maxAttempts-1)), ctx)
	return backoff.RetryWithData(operation, bounded)
}

// retryable reports transport failures and per-attempt timeouts; everything else is final.
func retryable(err error) bool {
	if errors.Is(err, ports.ErrUpstreamRejected) {
		return false
	}
	return errors.Is(err, ports.ErrUpstreamUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
