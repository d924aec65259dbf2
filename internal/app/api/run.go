package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	namegenserver "github.com/Apurer/go-gin-namegen-server/go"

	accountsobs "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/observability"
	accountsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	activityapp "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/application"
	adminapp "github.com/Apurer/go-gin-namegen-server/internal/domains/admin/application"
	entactivity "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/activity"
	entmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/memory"
	entobs "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/observability"
	entredis "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/redis"
	entapp "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/application"
	entports "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	genobs "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/observability"
	genredis "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/redis"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/upstream/retry"
	genworkflows "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/workflows"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	genports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	settingsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/application"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-namegen-server/internal/platform/observability"
	platformredis "github.com/Apurer/go-gin-namegen-server/internal/platform/redis"
	temporalclient "github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/client"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/temporal/sequences"
)

const serviceName = "namegen-api"

// Run boots the name generation HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStore()
	logger.Info("storage configured", slog.String("kind", store.Kind))

	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		client, cleanupRedis, err := platformredis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("redis unavailable, keeping cache and cooldowns in process", slog.String("error", err.Error()))
		} else {
			defer cleanupRedis()
			redisClient = client
		}
	}

	registry := metrics.New()
	handlers, cleanupServices, err := buildHandlers(ctx, cfg, store, redisClient, registry, instruments)
	if err != nil {
		return err
	}
	defer cleanupServices()

	engine := gin.New()
	engine.Use(otelgin.Middleware(serviceName))
	router := namegenserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("namegen API listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("namegen API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("namegen API shutting down")
	return server.Shutdown(shutdownCtx)
}

// buildHandlers wires every bounded context behind its observability decorator.
func buildHandlers(ctx context.Context, cfg Config, store *Storage, redisClient *goredis.Client, registry *metrics.Registry, instruments *platformobservability.Instruments) (namegenserver.ApiHandleFunctions, func(), error) {
	logger := instruments.Logger
	cleanup := func() {}

	activity := activityapp.NewService(store.Activity)
	provider := settingsapp.NewProvider(store.Settings,
		settingsapp.WithTTL(cfg.SettingsCacheTTL),
		settingsapp.WithProviderLogger(logger),
	)
	settings := settingsapp.NewService(store.Settings, provider,
		settingsapp.WithActivityRecorder(activity),
		settingsapp.WithLogger(logger),
	)

	coreAccounts := accountsapp.NewService(store.Accounts, store.Subscriptions, store.Sessions, store.Credits,
		accountsapp.WithLimits(provider),
		accountsapp.WithActivityRecorder(activity),
		accountsapp.WithLogger(logger),
	)
	accounts := accountsobs.New(coreAccounts,
		accountsobs.WithLogger(logger),
		accountsobs.WithTracer(instruments.Tracer("internal.accounts.application")),
		accountsobs.WithMeter(instruments.Meter("internal.accounts.application")),
	)
	if err := accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return namegenserver.ApiHandleFunctions{}, cleanup, fmt.Errorf("bootstrap admin account: %w", err)
	}

	gate := entobs.New(
		entapp.NewGate(store.Credits, buildGuestPolicy(cfg, store, redisClient), provider,
			entapp.WithCooldowns(buildCooldowns(redisClient)),
			entapp.WithUsageRecorder(entactivity.NewUsageRecorder(activity)),
		),
		entobs.WithLogger(logger),
		entobs.WithTracer(instruments.Tracer("internal.entitlements.application")),
		entobs.WithMetrics(registry),
	)

	generator, err := BuildGenerator(ctx, cfg)
	if err != nil {
		return namegenserver.ApiHandleFunctions{}, cleanup, fmt.Errorf("configure %s generator: %w", cfg.LLMProvider, err)
	}
	orchestrator, cleanup := buildOrchestrator(cfg, generator, store, registry, instruments)

	coreGeneration := generationapp.NewService(gate, buildCache(cfg, redisClient, registry), orchestrator, store.History,
		generationapp.WithNameCount(cfg.NameCount),
		generationapp.WithLogger(logger),
	)
	generation := genobs.New(coreGeneration,
		genobs.WithLogger(logger),
		genobs.WithTracer(instruments.Tracer("internal.generation.application")),
		genobs.WithMeter(instruments.Meter("internal.generation.application")),
		genobs.WithMetrics(registry),
	)
	admin := adminapp.NewService(store.Accounts, store.History, activity, settings)

	return namegenserver.ApiHandleFunctions{
		GenerationAPI: namegenserver.NewGenerationAPI(generation),
		AuthAPI:       namegenserver.NewAuthAPI(accounts),
		AdminAPI:      namegenserver.NewAdminAPI(admin, accounts),
		Middleware:    namegenserver.NewMiddleware(accounts, logger),
		Metrics:       registry.Handler(),
	}, cleanup, nil
}

// buildOrchestrator prefers Temporal and falls back to the in-process pipeline with its own retries.
func buildOrchestrator(cfg Config, generator genports.NameGenerator, store *Storage, registry *metrics.Registry, instruments *platformobservability.Instruments) (genports.Orchestrator, func()) {
	logger := instruments.Logger
	if !cfg.TemporalDisabled {
		client, err := temporalclient.Dial(temporalclient.Options{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
			Logger:    logger,
			Tracer:    instruments.Tracer("temporal-client"),
		})
		if err == nil {
			logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
			timeouts := sequences.Timeouts{Upstream: cfg.UpstreamTimeout, MaxAttempts: int32(cfg.UpstreamMaxAttempts)}
			return genworkflows.NewTemporalGeneration(client, timeouts), client.Close
		}
		logger.Warn("Temporal workflows unavailable, generating inline", slog.String("error", err.Error()))
	}
	retrying := retry.New(generator,
		retry.WithMaxAttempts(cfg.UpstreamMaxAttempts),
		retry.WithAttemptTimeout(cfg.UpstreamTimeout),
		retry.WithLogger(logger),
		retry.WithMetrics(registry),
	)
	return genworkflows.NewInlineGeneration(generationapp.NewPipeline(retrying, store.History)), func() {}
}

func buildCache(cfg Config, redisClient *goredis.Client, registry *metrics.Registry) genports.ResponseCache {
	if redisClient != nil {
		return genobs.NewCache(genredis.NewCache(redisClient, cfg.CacheTTL, cfg.CacheCapacity), registry)
	}
	return genobs.NewCache(genmemory.NewCache(cfg.CacheTTL, cfg.CacheCapacity), registry)
}

// buildGuestPolicy keeps the client counter by default; the ledger policy counts server side,
// in Redis when shared state is available and in the database otherwise.
func buildGuestPolicy(cfg Config, store *Storage, redisClient *goredis.Client) entports.GuestPolicy {
	if cfg.GuestPolicy != GuestPolicyLedger {
		return entapp.NewClientCounterPolicy()
	}
	if redisClient != nil {
		return entapp.NewLedgerPolicy(entredis.NewGuestLedger(redisClient, entredis.DefaultGuestWindow))
	}
	return entapp.NewLedgerPolicy(store.GuestLedger)
}

func buildCooldowns(redisClient *goredis.Client) entports.CooldownTracker {
	if redisClient != nil {
		return entredis.NewCooldowns(redisClient)
	}
	return entmemory.NewCooldowns()
}
