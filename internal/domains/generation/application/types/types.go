package types

import (
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/shared/projection"
)

// GenerationRecord is a stored generation plus its persistence timestamps.
type GenerationRecord = projection.Projection[*domain.Generation]

// GenerateInput is the raw, unvalidated generation command from a transport.
type GenerateInput struct {
	Keywords []string
	Category string
	Language string
}

// GenerateResult is what a caller receives after a successful generation.
type GenerateResult struct {
	Record *GenerationRecord
	// GuestCount is the updated guest counter to echo back; zero for accounts.
	GuestCount int
	IsGuest    bool
}

// PipelineInput drives one upstream-and-persist run. CachedNames skips the upstream call when set.
type PipelineInput struct {
	Request     domain.Request
	NameCount   int
	CachedNames []string
	TraceID     string
}
