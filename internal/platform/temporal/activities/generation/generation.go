package generation

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	genapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	gentypes "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	genports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

const (
	// ProduceNamesActivityName calls the upstream model and normalizes its answer.
	ProduceNamesActivityName = "generation.activities.ProduceNames"
	// PersistGenerationActivityName appends an accepted generation to history.
	PersistGenerationActivityName = "generation.activities.PersistGeneration"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeContent     = "GenerationContent"
	ErrTypeRejected    = "UpstreamRejected"
	ErrTypeUnavailable = "UpstreamUnavailable"
	ErrTypePersistence = "Persistence"
)

// ProduceNamesInput is the activity payload for one upstream call.
type ProduceNamesInput struct {
	Request domain.Request
	Count   int
}

// Activities wraps the generation pipeline for the Temporal worker.
type Activities struct {
	pipeline genports.Pipeline
}

// NewActivities expects a pipeline whose generator does not retry on its own; Temporal owns retries here.
func NewActivities(pipeline genports.Pipeline) *Activities {
	return &Activities{pipeline: pipeline}
}

func (a *Activities) ProduceNames(ctx context.Context, input ProduceNamesInput) ([]string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.pipeline == nil {
		logger.Error("produce names activity not initialized")
		return nil, errors.New("produce names activity not initialized")
	}
	logger.Info("ProduceNames activity started", "category", input.Request.Category, "count", input.Count)
	names, err := a.pipeline.ProduceNames(ctx, input.Request, input.Count)
	if err != nil {
		var contentErr *genapp.ContentError
		switch {
		case errors.As(err, &contentErr):
			logger.Error("ProduceNames received unusable content", "error", err, "raw", contentErr.Raw)
			return nil, temporal.NewNonRetryableApplicationError(contentErr.Error(), ErrTypeContent, err)
		case errors.Is(err, genports.ErrUpstreamRejected):
			logger.Error("ProduceNames rejected by upstream", "error", err)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeRejected, err)
		default:
			logger.Warn("ProduceNames attempt failed", "error", err)
			return nil, temporal.NewApplicationErrorWithCause(err.Error(), ErrTypeUnavailable, err)
		}
	}
	logger.Info("ProduceNames activity completed", "names", len(names))
	return names, nil
}

func (a *Activities) PersistGeneration(ctx context.Context, generation *domain.Generation) (*gentypes.GenerationRecord, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.pipeline == nil {
		logger.Error("persist generation activity not initialized")
		return nil, errors.New("persist generation activity not initialized")
	}
	record, err := a.pipeline.Persist(ctx, generation)
	if err != nil {
		logger.Error("PersistGeneration activity failed", "error", err)
		return nil, temporal.NewApplicationErrorWithCause(err.Error(), ErrTypePersistence, err)
	}
	if record != nil && record.Entity != nil {
		logger.Info("PersistGeneration activity completed", "generationId", record.Entity.ID)
	}
	return record, nil
}
