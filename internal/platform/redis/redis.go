// Package redis dials the shared Redis used for the response cache, guest ledger and cooldowns.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Open connects to addr and verifies it answers PING.
func Open(ctx context.Context, addr, password string, logger *slog.Logger) (*goredis.Client, func(), error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, func() {}, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("ping redis: %w", err)
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", addr))
	}
	return client, func() { _ = client.Close() }, nil
}
