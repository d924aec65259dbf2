package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.GuestLedger = (*GuestLedger)(nil)

// GuestLedger persists guest generation counts keyed by guest token.
type GuestLedger struct {
	db *gorm.DB
}

// NewGuestLedger wires a GORM-backed ledger. Caller manages DB lifecycle.
func NewGuestLedger(db *gorm.DB) *GuestLedger {
	return &GuestLedger{db: db}
}

type guestQuotaRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:128"`
	Count     int       `gorm:"column:generations"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (guestQuotaRecord) TableName() string { return "guest_quotas" }

// IncrementBelow ensures a row exists, then bumps it with a conditional update.
func (l *GuestLedger) IncrementBelow(ctx context.Context, token string, limit int) (int, bool, error) {
	if err := l.ensureDB(); err != nil {
		return 0, false, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false, errors.New("guest token is required")
	}
	var (
		count int
		ok    bool
	)
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := guestQuotaRecord{Token: token}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		result := tx.Model(&guestQuotaRecord{}).
			Where("token = ? AND generations < ?", token, limit).
			Updates(map[string]any{"generations": gorm.Expr("generations + 1"), "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		ok = result.RowsAffected == 1
		var record guestQuotaRecord
		if err := tx.First(&record, "token = ?", token).Error; err != nil {
			return err
		}
		count = record.Count
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return count, ok, nil
}

func (l *GuestLedger) Decrement(ctx context.Context, token string) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	return l.db.WithContext(ctx).
		Model(&guestQuotaRecord{}).
		Where("token = ? AND generations > 0", strings.TrimSpace(token)).
		UpdateColumn("generations", gorm.Expr("generations - 1")).Error
}

func (l *GuestLedger) Count(ctx context.Context, token string) (int, error) {
	if err := l.ensureDB(); err != nil {
		return 0, err
	}
	var record guestQuotaRecord
	if err := l.db.WithContext(ctx).First(&record, "token = ?", strings.TrimSpace(token)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.Count, nil
}

func (l *GuestLedger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres guest ledger not configured")
	}
	return nil
}
