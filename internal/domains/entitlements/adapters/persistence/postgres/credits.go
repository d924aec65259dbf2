package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/ports"
)

var _ ports.CreditStore = (*CreditStore)(nil)

// CreditStore reads and mutates the credits column of the accounts table.
// The accounts schema itself is owned by the accounts context.
type CreditStore struct {
	db *gorm.DB
}

// NewCreditStore wires a GORM-backed credit store. Caller manages DB lifecycle.
func NewCreditStore(db *gorm.DB) *CreditStore {
	return &CreditStore{db: db}
}

type creditRecord struct {
	ID      int64 `gorm:"primaryKey;column:id"`
	Credits int   `gorm:"column:credits"`
}

func (creditRecord) TableName() string { return "accounts" }

// TryConsume issues a single conditional decrement so concurrent callers can never drive the balance negative.
func (s *CreditStore) TryConsume(ctx context.Context, accountID int64) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	result := s.db.WithContext(ctx).
		Model(&creditRecord{}).
		Where("id = ? AND credits > 0", accountID).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}
	if _, err := s.Balance(ctx, accountID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *CreditStore) Refund(ctx context.Context, accountID int64) error {
	return s.Grant(ctx, accountID, 1)
}

func (s *CreditStore) Grant(ctx context.Context, accountID int64, amount int) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&creditRecord{}).
		Where("id = ?", accountID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrAccountNotFound
	}
	return nil
}

func (s *CreditStore) Balance(ctx context.Context, accountID int64) (int, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	var record creditRecord
	if err := s.db.WithContext(ctx).Select("id", "credits").First(&record, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ports.ErrAccountNotFound
		}
		return 0, err
	}
	return record.Credits, nil
}

func (s *CreditStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres credit store not configured")
	}
	return nil
}
