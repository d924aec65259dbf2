package ports

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
)

// Service exposes settings administration.
type Service interface {
	List(ctx context.Context) ([]domain.Setting, error)
	Update(ctx context.Context, actorID int64, key string, value any) (domain.Setting, error)
}
