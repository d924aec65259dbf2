package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	genactivities "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/activities/generation"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/sequences"
	genworkflows "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/workflows/generation"
)

var (
	_ ports.Orchestrator = (*TemporalGeneration)(nil)
	_ ports.Orchestrator = (*InlineGeneration)(nil)
)

// TemporalGeneration runs each generation as a workflow on a Temporal cluster.
type TemporalGeneration struct {
	client    client.Client
	taskQueue string
	timeouts  sequences.Timeouts
}

// NewTemporalGeneration wires a Temporal client into the orchestrator.
func NewTemporalGeneration(c client.Client, timeouts sequences.Timeouts) *TemporalGeneration {
	return &TemporalGeneration{client: c, taskQueue: genworkflows.GenerationTaskQueue, timeouts: timeouts}
}

func (o *TemporalGeneration) Run(ctx context.Context, input types.PipelineInput) (*types.GenerationRecord, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal generation workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	input.TraceID = traceID
	options := client.StartWorkflowOptions{
		ID:        buildWorkflowID(traceID),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, genworkflows.GenerationWorkflow, genworkflows.GenerationWorkflowInput{
		Pipeline: input,
		Timeouts: o.timeouts,
	})
	if err != nil {
		return nil, mapStartError(err)
	}
	var record types.GenerationRecord
	if err := run.Get(ctx, &record); err != nil {
		return nil, mapWorkflowError(err)
	}
	return &record, nil
}

// mapWorkflowError folds activity failures back into the application error buckets.
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == genactivities.ErrTypePersistence {
		return fmt.Errorf("%w: %w", application.ErrPersistence, err)
	}
	return fmt.Errorf("%w: %w", application.ErrGenerationFailed, err)
}

// mapStartError reports an unreachable cluster as a failed generation; other start errors stay internal.
func mapStartError(err error) error {
	var unavailable *serviceerror.Unavailable
	var deadline *serviceerror.DeadlineExceeded
	var exhausted *serviceerror.ResourceExhausted
	if errors.As(err, &unavailable) || errors.As(err, &deadline) || errors.As(err, &exhausted) {
		return fmt.Errorf("%w: start workflow: %w", application.ErrGenerationFailed, err)
	}
	return fmt.Errorf("start generation workflow: %w", err)
}

// InlineGeneration runs the pipeline in-process; used when Temporal is unavailable and in tests.
type InlineGeneration struct {
	pipeline ports.Pipeline
}

func NewInlineGeneration(pipeline ports.Pipeline) *InlineGeneration {
	return &InlineGeneration{pipeline: pipeline}
}

func (o *InlineGeneration) Run(ctx context.Context, input types.PipelineInput) (*types.GenerationRecord, error) {
	if o == nil || o.pipeline == nil {
		return nil, errors.New("inline generation workflows not configured")
	}
	names := input.CachedNames
	fromCache := len(names) > 0
	if !fromCache {
		produced, err := o.pipeline.ProduceNames(ctx, input.Request, input.NameCount)
		if err != nil {
			return nil, err
		}
		names = produced
	}
	generation, err := domain.NewGeneration(input.Request, names)
	if err != nil {
		return nil, err
	}
	generation.FromCache = fromCache
	return o.pipeline.Persist(ctx, generation)
}

func buildWorkflowID(traceID string) string {
	if traceID == "" {
		return fmt.Sprintf("generation-%s", uuid.NewString())
	}
	return fmt.Sprintf("generation-%s-%s", traceID, uuid.NewString()[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
