package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists accounts using GORM. The credits column is left to the entitlements credit store.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type accountRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Password  string    `gorm:"column:password_hash"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

// Create inserts the account; the credits column takes its schema default until granted.
func (r *Repository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("account is nil")
	}
	record := toRecord(account)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&accountRecord{}).Where("email = ?", record.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ports.ErrEmailTaken
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record accountRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&accountRecord{}).Where("id = ?", id).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&accountRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres account repository not configured")
	}
	return nil
}

func toRecord(account *domain.Account) accountRecord {
	return accountRecord{
		ID:       account.ID,
		Email:    account.Email,
		Password: account.PasswordHash,
		Role:     string(account.Role),
	}
}

func (r accountRecord) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         domain.ParseRole(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}
