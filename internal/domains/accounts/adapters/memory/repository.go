package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps accounts in process memory.
type Repository struct {
	mu      sync.RWMutex
	byID    map[int64]*domain.Account
	byEmail map[string]int64
	nextID  int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{byID: map[int64]*domain.Account{}, byEmail: map[string]int64{}, now: time.Now}
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

func (r *Repository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, errors.New("account is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[account.Email]; taken {
		return nil, ports.ErrEmailTaken
	}
	r.nextID++
	clone := *account
	clone.ID = r.nextID
	clone.CreatedAt = r.now()
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = clone.ID
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *account
	return &out, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return ports.ErrNotFound
	}
	account.Role = role
	return nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}
