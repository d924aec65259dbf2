//go:build integration

package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		_ = client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestGuestLedger_ConcurrentIncrementsStopAtLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	ledger := NewGuestLedger(client, time.Hour)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := ledger.IncrementBelow(ctx, "tok", 5)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
	count, err := ledger.Count(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	require.NoError(t, ledger.Decrement(ctx, "tok"))
	count, err = ledger.Count(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCooldowns_SecondStartReportsRemaining(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	cooldowns := NewCooldowns(client)
	ctx := context.Background()

	started, _, err := cooldowns.Start(ctx, "account:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, started)

	started, remaining, err := cooldowns.Start(ctx, "account:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, time.Minute)
}

func TestCooldowns_CancelReopensWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	cooldowns := NewCooldowns(client)
	ctx := context.Background()

	started, _, err := cooldowns.Start(ctx, "guest:tok", time.Minute)
	require.NoError(t, err)
	require.True(t, started)

	require.NoError(t, cooldowns.Cancel(ctx, "guest:tok"))

	started, _, err = cooldowns.Start(ctx, "guest:tok", time.Minute)
	require.NoError(t, err)
	assert.True(t, started)
}
