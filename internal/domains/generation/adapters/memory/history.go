package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/shared/projection"
)

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository is an append-only in-memory generation log.
type HistoryRepository struct {
	mu      sync.RWMutex
	records []*types.GenerationRecord
	byKey   map[string]*types.GenerationRecord
	nextID  int64
	now     func() time.Time
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{byKey: map[string]*types.GenerationRecord{}, now: time.Now}
}

// WithClock overrides the time source, primarily for tests.
func (r *HistoryRepository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *HistoryRepository) Append(_ context.Context, generation *domain.Generation) (*types.GenerationRecord, error) {
	if generation == nil {
		return nil, errors.New("generation is nil")
	}
	clone := cloneGeneration(generation)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byKey[clone.IdempotencyKey]; ok && clone.IdempotencyKey != "" {
		out := projection.Map(*existing, cloneGeneration)
		return &out, nil
	}
	r.nextID++
	clone.ID = r.nextID
	record := projection.New(clone, r.now())
	r.records = append(r.records, &record)
	if clone.IdempotencyKey != "" {
		r.byKey[clone.IdempotencyKey] = &record
	}
	out := projection.Map(record, cloneGeneration)
	return &out, nil
}

func (r *HistoryRepository) ListRecent(_ context.Context, limit int) ([]*types.GenerationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*types.GenerationRecord, 0, n)
	for i := len(r.records) - 1; i >= 0 && len(out) < n; i-- {
		rec := projection.Map(*r.records[i], cloneGeneration)
		out = append(out, &rec)
	}
	return out, nil
}

func (r *HistoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func cloneGeneration(g *domain.Generation) *domain.Generation {
	clone := *g
	clone.Names = append([]string(nil), g.Names...)
	clone.Request.Keywords = append([]string(nil), g.Request.Keywords...)
	return &clone
}
