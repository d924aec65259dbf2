package ports

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

// Pipeline holds the two steps of a generation after the gate: produce names, then persist them.
type Pipeline interface {
	ProduceNames(ctx context.Context, req domain.Request, count int) ([]string, error)
	Persist(ctx context.Context, generation *domain.Generation) (*types.GenerationRecord, error)
}

// Orchestrator runs the pipeline inline or as a durable workflow.
type Orchestrator interface {
	Run(ctx context.Context, input types.PipelineInput) (*types.GenerationRecord, error)
}
