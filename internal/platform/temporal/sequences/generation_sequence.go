package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	gentypes "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	genactivities "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/activities/generation"
)

// Timeouts bound each upstream attempt and persistence write.
type Timeouts struct {
	Upstream    time.Duration
	MaxAttempts int32
}

// RunGenerationSequence produces names (unless cached ones were supplied) and persists the generation.
func RunGenerationSequence(ctx workflow.Context, input gentypes.PipelineInput, timeouts Timeouts) (*gentypes.GenerationRecord, error) {
	logger := workflow.GetLogger(ctx)
	if timeouts.Upstream <= 0 {
		timeouts.Upstream = 30 * time.Second
	}
	if timeouts.MaxAttempts <= 0 {
		timeouts.MaxAttempts = 3
	}
	produceOptions := workflow.ActivityOptions{
		StartToCloseTimeout: timeouts.Upstream,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        500 * time.Millisecond,
			BackoffCoefficient:     2.0,
			MaximumInterval:        5 * time.Second,
			MaximumAttempts:        timeouts.MaxAttempts,
			NonRetryableErrorTypes: []string{genactivities.ErrTypeContent, genactivities.ErrTypeRejected},
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	names := input.CachedNames
	fromCache := len(names) > 0
	if !fromCache {
		produceInput := genactivities.ProduceNamesInput{Request: input.Request, Count: input.NameCount}
		if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, produceOptions), genactivities.ProduceNamesActivityName, produceInput).Get(ctx, &names); err != nil {
			logger.Error("generation sequence failed to produce names", "error", err)
			return nil, err
		}
	}

	generation, err := domain.NewGeneration(input.Request, names)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), genactivities.ErrTypeContent, err)
	}
	generation.FromCache = fromCache
	// Persist retries reuse the workflow ID so a write that committed before a timeout is not duplicated.
	generation.IdempotencyKey = workflow.GetInfo(ctx).WorkflowExecution.ID

	var record gentypes.GenerationRecord
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), genactivities.PersistGenerationActivityName, generation).Get(ctx, &record); err != nil {
		logger.Error("generation sequence failed to persist", "error", err)
		return nil, err
	}
	logger.Info("generation sequence persisted", "fromCache", fromCache)
	return &record, nil
}
