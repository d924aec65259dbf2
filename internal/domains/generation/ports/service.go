package ports

import (
	"context"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
)

// Service exposes the generation use cases to transports.
type Service interface {
	Generate(ctx context.Context, identity entdomain.Identity, priorCount int, input types.GenerateInput) (*types.GenerateResult, error)
	History(ctx context.Context, limit int) ([]*types.GenerationRecord, error)
	Categories(ctx context.Context, query string, language string) ([]domain.Category, error)
}
