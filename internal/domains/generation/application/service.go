package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	entports "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

const (
	// DefaultHistoryLimit applies when a caller asks for history without a limit.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps a single history page.
	MaxHistoryLimit = 100
)

// Service exposes the generation use cases.
type Service struct {
	gate         entports.Gate
	cache        ports.ResponseCache
	orchestrator ports.Orchestrator
	history      ports.HistoryRepository
	nameCount    int
	logger       *slog.Logger
}

type Option func(*Service)

// WithNameCount overrides how many names each generation returns.
func WithNameCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.nameCount = n
		}
	}
}

// WithLogger sets the logger used for failures that do not fail the request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the gate, cache, orchestrator, and history store.
func NewService(gate entports.Gate, cache ports.ResponseCache, orchestrator ports.Orchestrator, history ports.HistoryRepository, opts ...Option) *Service {
	s := &Service{
		gate:         gate,
		cache:        cache,
		orchestrator: orchestrator,
		history:      history,
		nameCount:    DefaultNameCount,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// NameCount reports the configured number of names per generation.
func (s *Service) NameCount() int { return s.nameCount }

// Generate validates, checks entitlements, then produces and persists names.
// Quota reserved by the gate is released whenever the generation does not complete,
// including when the caller goes away mid-request.
func (s *Service) Generate(ctx context.Context, identity entdomain.Identity, priorCount int, input types.GenerateInput) (*types.GenerateResult, error) {
	req, err := domain.NewRequest(input.Keywords, input.Category, input.Language)
	if err != nil {
		return nil, mapError(err)
	}
	if s.gate == nil || s.orchestrator == nil {
		return nil, errors.New("generation service not configured")
	}
	decision, err := s.gate.CheckAndConsume(ctx, identity, priorCount)
	if err != nil {
		return nil, mapError(err)
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.gate.Release(releaseCtx, identity, decision); err != nil {
			s.logger.LogAttrs(releaseCtx, slog.LevelError, "failed to release entitlement reservation", slog.String("error", err.Error()))
		}
	}()

	key := CacheKey(req, s.nameCount)
	pipelineInput := types.PipelineInput{Request: req, NameCount: s.nameCount}
	if cached, ok := s.lookup(ctx, key); ok {
		pipelineInput.CachedNames = cached
	}
	record, err := s.orchestrator.Run(ctx, pipelineInput)
	if err != nil {
		return nil, mapPipelineError(err)
	}
	if record == nil || record.Entity == nil {
		return nil, ErrPersistence
	}
	if len(pipelineInput.CachedNames) == 0 && s.cache != nil {
		if err := s.cache.Put(ctx, key, record.Entity.Names); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to cache generation", slog.String("error", err.Error()))
		}
	}
	completed = true

	usage := entports.UsageEvent{
		Category:  req.Category,
		Language:  string(req.Language),
		Keywords:  req.Keywords,
		FromCache: record.Entity.FromCache,
	}
	if err := s.gate.RecordUsage(context.WithoutCancel(ctx), identity, usage); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to record usage", slog.Int64("accountId", identity.AccountID()), slog.String("error", err.Error()))
	}
	return &types.GenerateResult{Record: record, GuestCount: decision.UpdatedCount, IsGuest: identity.IsGuest()}, nil
}

func (s *Service) lookup(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "response cache lookup failed", slog.String("error", err.Error()))
		return nil, false
	}
	if !ok || len(entry.Names) != s.nameCount {
		return nil, false
	}
	return entry.Names, true
}

// History returns stored generations newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*types.GenerationRecord, error) {
	if s.history == nil {
		return nil, errors.New("history repository not configured")
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.history.ListRecent(ctx, limit)
}

// Categories searches the category catalog in the requested language.
func (s *Service) Categories(_ context.Context, query string, language string) ([]domain.Category, error) {
	lang, err := domain.ParseLanguage(language)
	if err != nil {
		return nil, mapError(err)
	}
	return domain.SearchCategories(strings.TrimSpace(query), lang), nil
}

var _ ports.Service = (*Service)(nil)
