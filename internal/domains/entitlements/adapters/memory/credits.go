package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.CreditStore = (*CreditStore)(nil)

// CreditStore keeps account balances in process memory.
type CreditStore struct {
	mu       sync.Mutex
	balances map[int64]int
}

func NewCreditStore() *CreditStore {
	return &CreditStore{balances: map[int64]int{}}
}

func (s *CreditStore) TryConsume(_ context.Context, accountID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[accountID]
	if !ok {
		return false, ports.ErrAccountNotFound
	}
	if balance <= 0 {
		return false, nil
	}
	s.balances[accountID] = balance - 1
	return true, nil
}

func (s *CreditStore) Refund(_ context.Context, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[accountID]; !ok {
		return ports.ErrAccountNotFound
	}
	s.balances[accountID]++
	return nil
}

func (s *CreditStore) Grant(_ context.Context, accountID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[accountID] += amount
	return nil
}

func (s *CreditStore) Balance(_ context.Context, accountID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[accountID]
	if !ok {
		return 0, ports.ErrAccountNotFound
	}
	return balance, nil
}
