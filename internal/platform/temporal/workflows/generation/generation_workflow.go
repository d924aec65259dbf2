package generation

import (
	"go.temporal.io/sdk/workflow"

	gentypes "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/sequences"
)

const (
	// GenerationWorkflowName is the public identifier for registering the workflow.
	GenerationWorkflowName = "generation.workflows.Generate"
	// GenerationTaskQueue is the queue consumed by the worker processing generation workflows.
	GenerationTaskQueue = "NAME_GENERATION"
)

// GenerationWorkflowInput carries one gated generation into the workflow.
type GenerationWorkflowInput struct {
	Pipeline gentypes.PipelineInput
	Timeouts sequences.Timeouts
}

// GenerationWorkflow runs the upstream call and the history write as retried activities.
func GenerationWorkflow(ctx workflow.Context, input GenerationWorkflowInput) (*gentypes.GenerationRecord, error) {
	logger := workflow.GetLogger(ctx)
	traceID := input.Pipeline.TraceID
	logger.Info("GenerationWorkflow started", withTraceID(traceID, "category", input.Pipeline.Request.Category)...)
	record, err := sequences.RunGenerationSequence(ctx, input.Pipeline, input.Timeouts)
	if err != nil {
		logger.Error("GenerationWorkflow failed", withTraceID(traceID, "error", err)...)
		return nil, err
	}
	if record != nil && record.Entity != nil {
		logger.Info("GenerationWorkflow completed", withTraceID(traceID, "generationId", record.Entity.ID)...)
	}
	return record, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
