package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/platform/migrations"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newAccount(t *testing.T, email string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(email, "password123")
	require.NoError(t, err)
	return account
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(openSQLite(t))
	ctx := context.Background()

	saved, err := repo.Create(ctx, newAccount(t, "ada@example.com"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	byEmail, err := repo.GetByEmail(ctx, " ADA@example.com ")
	require.NoError(t, err)
	require.Equal(t, saved.ID, byEmail.ID)
	require.Equal(t, domain.RoleUser, byEmail.Role)
	require.True(t, byEmail.CheckPassword("password123"))

	_, err = repo.Create(ctx, newAccount(t, "ada@example.com"))
	require.ErrorIs(t, err, ports.ErrEmailTaken)

	require.NoError(t, repo.UpdateRole(ctx, saved.ID, domain.RoleAdmin))
	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, byID.IsAdmin())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_NewAccountStartsWithZeroCredits(t *testing.T) {
	db := openSQLite(t)
	saved, err := NewRepository(db).Create(context.Background(), newAccount(t, "zero@example.com"))
	require.NoError(t, err)

	var credits int
	require.NoError(t, db.Table("accounts").Select("credits").Where("id = ?", saved.ID).Scan(&credits).Error)
	require.Equal(t, 0, credits)
}

func TestSubscriptionRepository_ActiveForAndExpire(t *testing.T) {
	subs := NewSubscriptionRepository(openSQLite(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	soon := now.Add(time.Hour)

	_, err := subs.Activate(ctx, 7, &soon)
	require.NoError(t, err)

	active, err := subs.ActiveFor(ctx, 7, now)
	require.NoError(t, err)
	require.NotNil(t, active)

	n, err := subs.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)

	later := soon.Add(time.Minute)
	active, err = subs.ActiveFor(ctx, 7, later)
	require.NoError(t, err)
	require.Nil(t, active)

	n, err = subs.DeactivateExpired(ctx, later)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestSessionStore_LookupAndPurge(t *testing.T) {
	store := NewSessionStore(openSQLite(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, domain.Session{Token: "live", AccountID: 1, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Session{Token: "stale", AccountID: 1, ExpiresAt: now.Add(-time.Hour)}))

	session, err := store.Lookup(ctx, "live", now)
	require.NoError(t, err)
	require.Equal(t, int64(1), session.AccountID)

	_, err = store.Lookup(ctx, "stale", now)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Lookup(ctx, "live", now)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestRepository_NotConfigured(t *testing.T) {
	_, err := NewRepository(nil).GetByID(context.Background(), 1)
	require.EqualError(t, err, "postgres account repository not configured")
}
