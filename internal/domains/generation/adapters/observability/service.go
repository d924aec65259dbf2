package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
)

const tracerName = "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/observability/service"

// Service decorates the generation service with tracing, logging, and metrics.
type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	metrics  serviceMetrics
	registry *metrics.Registry
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

// WithMetrics also reports outcomes to the Prometheus registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.registry = reg }
}

// New wraps the core generation service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Generate(ctx context.Context, identity entdomain.Identity, priorCount int, input types.GenerateInput) (*types.GenerateResult, error) {
	attrs := []attribute.KeyValue{
		attribute.String("generation.category", input.Category),
		attribute.String("generation.language", input.Language),
		attribute.Int("generation.keywords", len(input.Keywords)),
		attribute.Bool("identity.guest", identity.IsGuest()),
	}
	ctx, span := s.tracer.Start(ctx, "GenerationService.Generate", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "generating names",
		slog.String("category", input.Category),
		slog.String("language", input.Language),
		slog.Bool("guest", identity.IsGuest()),
	)
	result, err := s.inner.Generate(ctx, identity, priorCount, input)
	if err != nil {
		outcome := outcomeFor(err)
		s.metrics.recordFailed(ctx, outcome)
		s.registry.Generation(outcome)
		if outcome == "denied" {
			span.SetAttributes(attribute.String("generation.outcome", outcome))
			return nil, err
		}
		attrsOut := []slog.Attr{slog.String("outcome", outcome)}
		var contentErr *application.ContentError
		if errors.As(err, &contentErr) {
			attrsOut = append(attrsOut, slog.String("upstream.raw", contentErr.Raw))
		}
		return nil, s.handleError(ctx, span, err, "generation failed", attrsOut...)
	}
	fromCache := result.Record != nil && result.Record.Entity != nil && result.Record.Entity.FromCache
	span.SetAttributes(attribute.Bool("generation.from_cache", fromCache))
	s.metrics.recordCompleted(ctx, fromCache)
	s.registry.Generation("success")
	s.logInfo(ctx, "names generated", slog.Bool("fromCache", fromCache), slog.Int("guestCount", result.GuestCount))
	return result, nil
}

func (s *Service) History(ctx context.Context, limit int) ([]*types.GenerationRecord, error) {
	ctx, span := s.tracer.Start(ctx, "GenerationService.History", trace.WithAttributes(attribute.Int("history.limit", limit)))
	defer span.End()

	records, err := s.inner.History(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list history", slog.Int("limit", limit))
	}
	span.SetAttributes(attribute.Int("history.count", len(records)))
	return records, nil
}

func (s *Service) Categories(ctx context.Context, query string, language string) ([]domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "GenerationService.Categories")
	defer span.End()

	categories, err := s.inner.Categories(ctx, query, language)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search categories", slog.String("language", language))
	}
	return categories, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, entdomain.ErrDenied):
		return "denied"
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, application.ErrPersistence):
		return "persistence_error"
	case errors.Is(err, application.ErrGenerationFailed):
		return "upstream_error"
	default:
		return "error"
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	completed metric.Int64Counter
	failed    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	completed, _ := m.Int64Counter("generation.service.completed", metric.WithDescription("Number of successful generations"))
	failed, _ := m.Int64Counter("generation.service.failed", metric.WithDescription("Number of rejected or failed generations"))
	return serviceMetrics{completed: completed, failed: failed}
}

func (m serviceMetrics) recordCompleted(ctx context.Context, fromCache bool) {
	if m.completed != nil {
		m.completed.Add(ctx, 1, metric.WithAttributes(attribute.Bool("generation.from_cache", fromCache)))
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context, outcome string) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("generation.outcome", outcome)))
	}
}

var _ ports.Service = (*Service)(nil)
