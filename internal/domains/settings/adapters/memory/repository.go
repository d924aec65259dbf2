package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu     sync.RWMutex
	items  map[domain.Key]domain.Setting
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: map[domain.Key]domain.Setting{}}
}

func (r *Repository) List(_ context.Context) ([]domain.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Setting, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Upsert(_ context.Context, setting domain.Setting) (domain.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[setting.Key]
	if ok {
		setting.ID = existing.ID
	} else {
		r.nextID++
		setting.ID = r.nextID
	}
	setting.UpdatedAt = time.Now()
	r.items[setting.Key] = setting
	return setting, nil
}
