//go:build integration

package redis

import (
	"context"
	"fmt"
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

func TestCache_BoundedSharedCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	cache := NewCache(client, time.Hour, 2)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Put(ctx, key, []string{key + "-name"}))
		now = now.Add(time.Second)
	}

	_, ok, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	entry, ok, err := cache.Get(ctx, "c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"c-name"}, entry.Names)

	size, err := client.ZCard(ctx, cacheIndexKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	require.NoError(t, cache.Evict(ctx, "c"))
	_, ok, err = cache.Get(ctx, "c")
	require.NoError(t, err)
	assert.False(t, ok)
}
