package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/adapters/memory"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
)

func TestService_RecordAndList(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, 1, domain.ActionAccountRegistered, map[string]string{"email": "a@b.io"}))
	require.NoError(t, svc.Record(ctx, 0, domain.ActionSettingsUpdated, nil))
	require.NoError(t, svc.Record(ctx, 1, domain.ActionGenerationCompleted, map[string]string{"category": "tech"}))

	entries, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, domain.ActionGenerationCompleted, entries[0].Action)
	require.Equal(t, domain.ActionSettingsUpdated, entries[1].Action)
	require.Nil(t, entries[1].AccountID)

	err = svc.Record(ctx, 1, "  ", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.List(ctx, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ActiveAccountsWindow(t *testing.T) {
	repo := memory.NewRepository()
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	clock := now.AddDate(0, 0, -45)
	repo.WithClock(func() time.Time { return clock })
	svc := NewService(repo).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, 1, domain.ActionGenerationCompleted, nil))
	clock = now.AddDate(0, 0, -10)
	require.NoError(t, svc.Record(ctx, 2, domain.ActionGenerationCompleted, nil))
	require.NoError(t, svc.Record(ctx, 2, domain.ActionGenerationCompleted, nil))
	require.NoError(t, svc.Record(ctx, 3, domain.ActionAccountRegistered, nil))
	require.NoError(t, svc.Record(ctx, 0, domain.ActionSettingsUpdated, nil))

	active, err := svc.ActiveAccounts(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(2), active)
}
