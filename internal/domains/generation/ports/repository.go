package ports

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

// HistoryRepository is the append-only store of accepted generations.
type HistoryRepository interface {
	Append(ctx context.Context, generation *domain.Generation) (*types.GenerationRecord, error)
	// ListRecent returns records newest first; limit <= 0 means no limit.
	ListRecent(ctx context.Context, limit int) ([]*types.GenerationRecord, error)
	Count(ctx context.Context) (int64, error)
}
