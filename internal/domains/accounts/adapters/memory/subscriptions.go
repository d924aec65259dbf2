package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var _ ports.SubscriptionRepository = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	mu     sync.Mutex
	subs   []*domain.Subscription
	nextID int64
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

func (r *SubscriptionRepository) Activate(_ context.Context, accountID int64, expiresAt *time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sub := &domain.Subscription{ID: r.nextID, AccountID: accountID, Active: true, CreatedAt: time.Now()}
	if expiresAt != nil {
		until := *expiresAt
		sub.ExpiresAt = &until
	}
	r.subs = append(r.subs, sub)
	out := *sub
	return &out, nil
}

func (r *SubscriptionRepository) ActiveFor(_ context.Context, accountID int64, now time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.subs) - 1; i >= 0; i-- {
		sub := r.subs[i]
		if sub.AccountID == accountID && sub.EffectiveAt(now) {
			out := *sub
			return &out, nil
		}
	}
	return nil, nil
}

func (r *SubscriptionRepository) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sub := range r.subs {
		if sub.Active && sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
			sub.Active = false
			n++
		}
	}
	return n, nil
}
