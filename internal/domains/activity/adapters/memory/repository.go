package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu      sync.RWMutex
	entries []domain.Entry
	nextID  int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// WithClock overrides the time source, primarily for tests.
func (r *Repository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Repository) Append(_ context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if entry == nil {
		return nil, errors.New("activity entry is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := clone(*entry)
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	r.entries = append(r.entries, stored)
	out := clone(stored)
	return &out, nil
}

func (r *Repository) ListRecent(_ context.Context, limit int) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Entry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		e := clone(r.entries[i])
		out = append(out, &e)
	}
	return out, nil
}

func (r *Repository) CountDistinctAccountsSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[int64]struct{}{}
	for _, e := range r.entries {
		if e.AccountID == nil || e.CreatedAt.Before(since) {
			continue
		}
		seen[*e.AccountID] = struct{}{}
	}
	return int64(len(seen)), nil
}

func clone(e domain.Entry) domain.Entry {
	out := e
	if e.AccountID != nil {
		id := *e.AccountID
		out.AccountID = &id
	}
	out.Metadata = make(map[string]string, len(e.Metadata))
	for k, v := range e.Metadata {
		out.Metadata[k] = v
	}
	return out
}
