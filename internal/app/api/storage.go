package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	accountsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/memory"
	accountspostgres "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/persistence/postgres"
	accountsports "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	activitymemory "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/adapters/memory"
	activitypostgres "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/adapters/persistence/postgres"
	activityports "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/ports"
	entmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/memory"
	entpostgres "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/adapters/persistence/postgres"
	entports "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
	genmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/memory"
	genpostgres "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/persistence/postgres"
	genports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	settingsmemory "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/adapters/persistence/postgres"
	settingsports "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-namegen-server/internal/platform/postgres"
	platformsqlite "github.com/Apurer/go-gin-namegen-server/internal/platform/sqlite"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Storage bundles the repositories of every bounded context over one backend.
type Storage struct {
	Kind string
	DB   *gorm.DB

	Accounts      accountsports.Repository
	Subscriptions accountsports.SubscriptionRepository
	Sessions      accountsports.SessionStore
	Credits       entports.CreditStore
	GuestLedger   entports.GuestLedger
	History       genports.HistoryRepository
	Settings      settingsports.Repository
	Activity      activityports.Repository
}

// OpenStorage picks Postgres when POSTGRES_DSN is set, then SQLite when SQLITE_PATH is set,
// and otherwise keeps everything in process memory. A configured database that cannot be
// reached is an error rather than a silent fallback, since credits would not survive a restart.
func OpenStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, func(), error) {
	var (
		db      *gorm.DB
		cleanup func()
		err     error
		kind    string
	)
	switch {
	case cfg.PostgresDSN != "":
		kind = StoragePostgres
		db, cleanup, err = platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	case cfg.SQLitePath != "":
		kind = StorageSQLite
		db, cleanup, err = platformsqlite.Open(ctx, cfg.SQLitePath, logger)
	default:
		if logger != nil {
			logger.Warn("no database configured, using in-memory repositories")
		}
		return NewMemoryStorage(), func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("migrate %s schema: %w", kind, err)
	}
	return newGormStorage(kind, db), cleanup, nil
}

// NewMemoryStorage keeps all state in process; it is lost on restart.
func NewMemoryStorage() *Storage {
	return &Storage{
		Kind:          StorageMemory,
		Accounts:      accountsmemory.NewRepository(),
		Subscriptions: accountsmemory.NewSubscriptionRepository(),
		Sessions:      accountsmemory.NewSessionStore(),
		Credits:       entmemory.NewCreditStore(),
		GuestLedger:   entmemory.NewGuestLedger(),
		History:       genmemory.NewHistoryRepository(),
		Settings:      settingsmemory.NewRepository(),
		Activity:      activitymemory.NewRepository(),
	}
}

func newGormStorage(kind string, db *gorm.DB) *Storage {
	return &Storage{
		Kind:          kind,
		DB:            db,
		Accounts:      accountspostgres.NewRepository(db),
		Subscriptions: accountspostgres.NewSubscriptionRepository(db),
		Sessions:      accountspostgres.NewSessionStore(db),
		Credits:       entpostgres.NewCreditStore(db),
		GuestLedger:   entpostgres.NewGuestLedger(db),
		History:       genpostgres.NewHistoryRepository(db),
		Settings:      settingspostgres.NewRepository(db),
		Activity:      activitypostgres.NewRepository(db),
	}
}
