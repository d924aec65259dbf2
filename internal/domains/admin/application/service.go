package application

import (
	"context"
	"fmt"
	"time"

	activitydomain "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/admin/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/admin/ports"
	settingsdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
)

// ActiveWindow is the trailing window for the active-users statistic.
const ActiveWindow = 30 * 24 * time.Hour

// Service aggregates the admin views over the other bounded contexts.
type Service struct {
	accounts    ports.Counter
	generations ports.Counter
	activity    ports.ActivityReader
	settings    ports.SettingsManager
}

func NewService(accounts, generations ports.Counter, activity ports.ActivityReader, settings ports.SettingsManager) *Service {
	return &Service{accounts: accounts, generations: generations, activity: activity, settings: settings}
}

func (s *Service) Statistics(ctx context.Context) (types.Statistics, error) {
	users, err := s.accounts.Count(ctx)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("count accounts: %w", err)
	}
	generations, err := s.generations.Count(ctx)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("count generations: %w", err)
	}
	active, err := s.activity.ActiveAccounts(ctx, ActiveWindow)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("count active accounts: %w", err)
	}
	return types.Statistics{TotalUsers: users, TotalGenerations: generations, ActiveUsers: active}, nil
}

func (s *Service) Settings(ctx context.Context) ([]settingsdomain.Setting, error) {
	return s.settings.List(ctx)
}

func (s *Service) UpdateSetting(ctx context.Context, actorID int64, key string, value any) (settingsdomain.Setting, error) {
	return s.settings.Update(ctx, actorID, key, value)
}

func (s *Service) Activity(ctx context.Context, limit int) ([]*activitydomain.Entry, error) {
	return s.activity.List(ctx, limit)
}

var _ ports.Service = (*Service)(nil)
