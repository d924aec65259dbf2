package application

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/ports"
)

const ActionSettingsUpdated = "settings.updated"

// Service lists and updates settings, keeping the provider snapshot coherent.
type Service struct {
	repo     ports.Repository
	provider *Provider
	activity ports.ActivityRecorder
	logger   *slog.Logger
}

type Option func(*Service)

func WithActivityRecorder(recorder ports.ActivityRecorder) Option {
	return func(s *Service) { s.activity = recorder }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, provider *Provider, opts ...Option) *Service {
	s := &Service{repo: repo, provider: provider, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns every known setting; keys without an override report their default.
func (s *Service) List(ctx context.Context) ([]domain.Setting, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.Key]domain.Setting, len(stored))
	for _, setting := range stored {
		byKey[setting.Key] = setting
	}
	out := make([]domain.Setting, 0, len(domain.Defaults))
	for _, key := range domain.Keys() {
		if setting, ok := byKey[key]; ok {
			out = append(out, setting)
			continue
		}
		out = append(out, domain.Setting{Key: key, Value: domain.Defaults[key]})
	}
	return out, nil
}

// Update validates and stores one setting, then invalidates the cached snapshot.
func (s *Service) Update(ctx context.Context, actorID int64, key string, value any) (domain.Setting, error) {
	setting, err := domain.NewSetting(key, value)
	if err != nil {
		return domain.Setting{}, mapError(err)
	}
	saved, err := s.repo.Upsert(ctx, setting)
	if err != nil {
		return domain.Setting{}, err
	}
	if s.provider != nil {
		s.provider.Invalidate()
	}
	if s.activity != nil {
		meta := map[string]string{"key": string(saved.Key), "value": strconv.Itoa(saved.Value)}
		if err := s.activity.Record(ctx, actorID, ActionSettingsUpdated, meta); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record settings change", slog.String("key", string(saved.Key)), slog.String("error", err.Error()))
		}
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
