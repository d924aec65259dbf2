package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
)

const tracerName = "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/observability/gate"

// Gate decorates the entitlement gate with tracing, logging, and decision counters.
type Gate struct {
	inner   ports.Gate
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *metrics.Registry
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(g *Gate) { g.tracer = tr }
}

func WithMetrics(reg *metrics.Registry) Option {
	return func(g *Gate) { g.metrics = reg }
}

// New wraps the core gate.
func New(inner ports.Gate, opts ...Option) ports.Gate {
	g := &Gate{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.tracer == nil {
		g.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

func (g *Gate) CheckAndConsume(ctx context.Context, identity domain.Identity, priorCount int) (domain.Decision, error) {
	ctx, span := g.tracer.Start(ctx, "EntitlementGate.CheckAndConsume", trace.WithAttributes(identityAttrs(identity)...))
	defer span.End()
	decision, err := g.inner.CheckAndConsume(ctx, identity, priorCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.LogAttrs(ctx, slog.LevelError, "entitlement check failed", slog.String("identity", kind(identity)), slog.String("error", err.Error()))
		g.metrics.GateDecision(kind(identity), "error", "")
		return decision, err
	}
	span.SetAttributes(attribute.Bool("gate.allowed", decision.Allowed), attribute.String("gate.reason", string(decision.Reason)))
	if decision.Allowed {
		g.metrics.GateDecision(kind(identity), "allow", "")
		return decision, nil
	}
	g.metrics.GateDecision(kind(identity), "deny", string(decision.Reason))
	g.logger.LogAttrs(ctx, slog.LevelInfo, "generation denied",
		slog.String("identity", kind(identity)),
		slog.Int64("accountId", identity.AccountID()),
		slog.String("reason", string(decision.Reason)),
	)
	return decision, nil
}

func (g *Gate) Release(ctx context.Context, identity domain.Identity, decision domain.Decision) error {
	ctx, span := g.tracer.Start(ctx, "EntitlementGate.Release", trace.WithAttributes(identityAttrs(identity)...))
	defer span.End()
	if err := g.inner.Release(ctx, identity, decision); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.LogAttrs(ctx, slog.LevelError, "failed to release reservation", slog.String("identity", kind(identity)), slog.String("error", err.Error()))
		return err
	}
	if decision.Consumed {
		g.logger.LogAttrs(ctx, slog.LevelInfo, "reservation released", slog.String("identity", kind(identity)), slog.Int64("accountId", identity.AccountID()))
	}
	return nil
}

func (g *Gate) RecordUsage(ctx context.Context, identity domain.Identity, event ports.UsageEvent) error {
	ctx, span := g.tracer.Start(ctx, "EntitlementGate.RecordUsage", trace.WithAttributes(identityAttrs(identity)...))
	defer span.End()
	if err := g.inner.RecordUsage(ctx, identity, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.LogAttrs(ctx, slog.LevelError, "failed to record usage", slog.Int64("accountId", identity.AccountID()), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func kind(identity domain.Identity) string {
	if identity.IsGuest() {
		return "guest"
	}
	return string(identity.Tier())
}

func identityAttrs(identity domain.Identity) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("identity.kind", kind(identity))}
	if !identity.IsGuest() {
		attrs = append(attrs, attribute.Int64("account.id", identity.AccountID()))
	}
	return attrs
}

var _ ports.Gate = (*Gate)(nil)
