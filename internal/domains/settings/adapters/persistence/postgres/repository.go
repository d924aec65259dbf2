package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists settings in the system_settings table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type settingRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (settingRecord) TableName() string { return "system_settings" }

// List skips rows whose key or value no longer parse.
func (r *Repository) List(ctx context.Context) ([]domain.Setting, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []settingRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(records))
	for _, rec := range records {
		setting, err := domain.NewSetting(rec.Key, rec.Value)
		if err != nil {
			continue
		}
		setting.ID = rec.ID
		setting.UpdatedAt = rec.UpdatedAt
		out = append(out, setting)
	}
	return out, nil
}

func (r *Repository) Upsert(ctx context.Context, setting domain.Setting) (domain.Setting, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Setting{}, err
	}
	rec := settingRecord{Key: string(setting.Key), Value: strconv.Itoa(setting.Value), UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return domain.Setting{}, err
	}
	var stored settingRecord
	if err := r.db.WithContext(ctx).First(&stored, "key = ?", rec.Key).Error; err != nil {
		return domain.Setting{}, err
	}
	return domain.Setting{ID: stored.ID, Key: setting.Key, Value: setting.Value, UpdatedAt: stored.UpdatedAt}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres settings repository not configured")
	}
	return nil
}
