package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/activity/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the activity log with GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type activityRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	AccountID *int64            `gorm:"column:account_id"`
	Action    string            `gorm:"column:action"`
	Metadata  map[string]string `gorm:"column:metadata;serializer:json"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

func (activityRecord) TableName() string { return "activity_logs" }

func (r *Repository) Append(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("activity entry is nil")
	}
	rec := activityRecord{AccountID: entry.AccountID, Action: entry.Action, Metadata: entry.Metadata}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []activityRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Entry, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) CountDistinctAccountsSince(ctx context.Context, since time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&activityRecord{}).
		Where("account_id IS NOT NULL AND created_at >= ?", since).
		Distinct("account_id").
		Count(&n).Error
	return n, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres activity repository not configured")
	}
	return nil
}

func (r activityRecord) toDomain() *domain.Entry {
	meta := r.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return &domain.Entry{ID: r.ID, AccountID: r.AccountID, Action: r.Action, Metadata: meta, CreatedAt: r.CreatedAt}
}
