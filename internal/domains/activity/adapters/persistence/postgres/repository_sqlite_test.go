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

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
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

func TestRepository_AppendListAndDistinct(t *testing.T) {
	repo := NewRepository(openSQLite(t))
	ctx := context.Background()

	for _, accountID := range []int64{1, 2, 2, 0} {
		entry, err := domain.NewEntry(accountID, domain.ActionGenerationCompleted, map[string]string{"language": "en"})
		require.NoError(t, err)
		_, err = repo.Append(ctx, entry)
		require.NoError(t, err)
	}

	entries, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Nil(t, entries[0].AccountID)
	require.Equal(t, "en", entries[0].Metadata["language"])

	active, err := repo.CountDistinctAccountsSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), active)

	active, err = repo.CountDistinctAccountsSince(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, active)
}
