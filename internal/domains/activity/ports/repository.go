package ports

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
)

// Repository is the append-only activity store.
type Repository interface {
	Append(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Entry, error)
	// CountDistinctAccountsSince counts accounts with any activity at or after since.
	CountDistinctAccountsSince(ctx context.Context, since time.Time) (int64, error)
}
