package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/ports"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrInvalidInput = errors.New("invalid activity request")

// Service records and lists activity.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the time source, primarily for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Record appends an entry; accountID 0 records a system event.
func (s *Service) Record(ctx context.Context, accountID int64, action string, metadata map[string]string) error {
	entry, err := domain.NewEntry(accountID, action, metadata)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	_, err = s.repo.Append(ctx, entry)
	return err
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// ActiveAccounts counts accounts with activity inside the trailing window.
func (s *Service) ActiveAccounts(ctx context.Context, window time.Duration) (int64, error) {
	return s.repo.CountDistinctAccountsSince(ctx, s.now().Add(-window))
}
