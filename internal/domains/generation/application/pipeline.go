package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

// Pipeline calls the upstream model, normalizes its answer, and persists accepted generations.
type Pipeline struct {
	generator ports.NameGenerator
	history   ports.HistoryRepository
}

func NewPipeline(generator ports.NameGenerator, history ports.HistoryRepository) *Pipeline {
	return &Pipeline{generator: generator, history: history}
}

// ProduceNames returns exactly count normalized names or a *ContentError / transport error.
func (p *Pipeline) ProduceNames(ctx context.Context, req domain.Request, count int) ([]string, error) {
	if p == nil || p.generator == nil {
		return nil, errors.New("name generator not configured")
	}
	if count <= 0 {
		count = DefaultNameCount
	}
	raw, err := p.generator.Complete(ctx, BuildCompletion(req, count))
	if err != nil {
		return nil, err
	}
	return Normalize(raw, count)
}

// Persist appends the generation to history.
func (p *Pipeline) Persist(ctx context.Context, generation *domain.Generation) (*types.GenerationRecord, error) {
	if p == nil || p.history == nil {
		return nil, fmt.Errorf("%w: history repository not configured", ErrPersistence)
	}
	record, err := p.history.Append(ctx, generation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return record, nil
}

var _ ports.Pipeline = (*Pipeline)(nil)
