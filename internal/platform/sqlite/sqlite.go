// Package sqlite opens the single-file database used for local runs.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database file at path, creating it when missing.
// SQLite allows one writer, so the pool is capped at a single connection.
func Open(ctx context.Context, path string, logger *slog.Logger) (*gorm.DB, func(), error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, func() {}, fmt.Errorf("sqlite path is empty")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, fmt.Errorf("unwrap sqlite connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, func() {}, fmt.Errorf("ping sqlite: %w", err)
	}
	if logger != nil {
		logger.Info("sqlite database opened", slog.String("path", path))
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
