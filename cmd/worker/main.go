package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-namegen-server/internal/app/api"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	platformobservability "github.com/Apurer/go-gin-namegen-server/internal/platform/observability"
	genactivities "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/activities/generation"
	temporalclient "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/client"
	genworkflows "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/workflows/generation"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	ctx := context.Background()
	const serviceName = "namegen-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore, err := api.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStore()
	// The workflow retry policy owns upstream retries, so the generator is used bare.
	generator, err := api.BuildGenerator(ctx, cfg)
	if err != nil {
		logger.Error("failed to configure generator", slog.String("provider", cfg.LLMProvider), slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := genactivities.NewActivities(generationapp.NewPipeline(generator, store.History))

	temporalClient, err := temporalclient.Dial(temporalclient.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, genworkflows.GenerationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(genworkflows.GenerationWorkflow, workflow.RegisterOptions{Name: genworkflows.GenerationWorkflowName})
	w.RegisterActivityWithOptions(activities.ProduceNames, activity.RegisterOptions{Name: genactivities.ProduceNamesActivityName})
	w.RegisterActivityWithOptions(activities.PersistGeneration, activity.RegisterOptions{Name: genactivities.PersistGenerationActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", genworkflows.GenerationTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("storage", store.Kind),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
