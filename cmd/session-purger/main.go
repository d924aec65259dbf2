package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-namegen-server/internal/app/api"
	accountsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	platformobservability "github.com/Apurer/go-gin-namegen-server/internal/platform/observability"
)

// session-purger deletes expired sessions and closes lapsed premium subscriptions.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: platformobservability.ParseLevel(cfg.LogLevel)}))
	if cfg.PostgresDSN == "" && cfg.SQLitePath == "" {
		log.Fatal("POSTGRES_DSN or SQLITE_PATH must be set; in-memory sessions cannot be purged from another process")
	}
	store, cleanup, err := api.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer cleanup()

	accounts := accountsapp.NewService(store.Accounts, store.Subscriptions, store.Sessions, store.Credits, accountsapp.WithLogger(logger))
	sessions, err := accounts.PurgeSessions(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	subscriptions, err := accounts.ExpireSubscriptions(ctx)
	if err != nil {
		log.Fatalf("failed to expire subscriptions: %v", err)
	}
	logger.Info("maintenance completed", slog.Int64("sessionsPurged", sessions), slog.Int64("subscriptionsExpired", subscriptions))
}
