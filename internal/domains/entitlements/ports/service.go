package ports

import (
	"context"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
)

// Gate is the entitlement check every generation passes before the upstream call.
type Gate interface {
	CheckAndConsume(ctx context.Context, identity domain.Identity, priorCount int) (domain.Decision, error)
	// Release returns whatever CheckAndConsume reserved for a generation that did not complete.
	Release(ctx context.Context, identity domain.Identity, decision domain.Decision) error
	RecordUsage(ctx context.Context, identity domain.Identity, event UsageEvent) error
}
