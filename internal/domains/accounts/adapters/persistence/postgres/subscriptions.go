package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var _ ports.SubscriptionRepository = (*SubscriptionRepository)(nil)

// SubscriptionRepository persists premium subscriptions.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

type subscriptionRecord struct {
	ID        int64      `gorm:"primaryKey;column:id"`
	AccountID int64      `gorm:"column:account_id"`
	Active    bool       `gorm:"column:active"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (subscriptionRecord) TableName() string { return "premium_subscriptions" }

func (r *SubscriptionRepository) Activate(ctx context.Context, accountID int64, expiresAt *time.Time) (*domain.Subscription, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := subscriptionRecord{AccountID: accountID, Active: true, ExpiresAt: expiresAt}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *SubscriptionRepository) ActiveFor(ctx context.Context, accountID int64, now time.Time) (*domain.Subscription, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record subscriptionRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND active = ? AND (expires_at IS NULL OR expires_at > ?)", accountID, true, now).
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *SubscriptionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&subscriptionRecord{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Updates(map[string]any{"active": false, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *SubscriptionRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres subscription repository not configured")
	}
	return nil
}

func (r subscriptionRecord) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:        r.ID,
		AccountID: r.AccountID,
		Active:    r.Active,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}
