package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	var history any = &brandNameRecord{}
	if db.Dialector.Name() == "sqlite" {
		history = &brandNameRecordSQLite{}
	}
	return db.AutoMigrate(
		history,
		&accountRecord{},
		&subscriptionRecord{},
		&sessionRecord{},
		&settingRecord{},
		&activityRecord{},
		&guestQuotaRecord{},
	)
}

// History schema mirrors the generation Postgres adapter.
type brandNameRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Keywords  pq.StringArray `gorm:"column:keywords;type:text[];not null"`
	Category  string         `gorm:"column:category;not null;index"`
	Names     []string       `gorm:"column:generated_names;type:jsonb;serializer:json;not null"`
	Language  string         `gorm:"column:language;size:8;not null"`
	FromCache bool           `gorm:"column:from_cache;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (brandNameRecord) TableName() string { return "brand_names" }

// brandNameRecordSQLite stores the same columns as text for local databases without array or jsonb types.
type brandNameRecordSQLite struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Keywords  pq.StringArray `gorm:"column:keywords;type:text;not null"`
	Category  string         `gorm:"column:category;not null;index"`
	Names     []string       `gorm:"column:generated_names;type:text;serializer:json;not null"`
	Language  string         `gorm:"column:language;size:8;not null"`
	FromCache bool           `gorm:"column:from_cache;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (brandNameRecordSQLite) TableName() string { return "brand_names" }

// Account schema is shared by the accounts repository and the entitlements credit store.
type accountRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email;size:320;uniqueIndex"`
	Password  string    `gorm:"column:password_hash"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:user"`
	Credits   int       `gorm:"column:credits;not null;default:0;check:credits >= 0"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }

type subscriptionRecord struct {
	ID        int64      `gorm:"primaryKey;column:id"`
	AccountID int64      `gorm:"column:account_id;index:idx_subscriptions_account_active"`
	Active    bool       `gorm:"column:active;index:idx_subscriptions_account_active"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (subscriptionRecord) TableName() string { return "premium_subscriptions" }

// Session schema mirrors the accounts session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	AccountID int64      `gorm:"column:account_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "account_sessions" }

type settingRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Key       string    `gorm:"column:key;size:64;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (settingRecord) TableName() string { return "system_settings" }

type activityRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	AccountID *int64            `gorm:"column:account_id;index"`
	Action    string            `gorm:"column:action;size:64;index"`
	Metadata  map[string]string `gorm:"column:metadata;serializer:json"`
	CreatedAt time.Time         `gorm:"column:created_at;index"`
}

func (activityRecord) TableName() string { return "activity_logs" }

type guestQuotaRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:128"`
	Count     int       `gorm:"column:generations;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (guestQuotaRecord) TableName() string { return "guest_quotas" }
