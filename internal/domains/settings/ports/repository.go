package ports

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
)

// Repository stores setting overrides.
type Repository interface {
	List(ctx context.Context) ([]domain.Setting, error)
	Upsert(ctx context.Context, setting domain.Setting) (domain.Setting, error)
}

// ActivityRecorder appends admin changes to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, accountID int64, action string, metadata map[string]string) error
}
