package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application/types"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	"github.com/Apurer/go-gin-namegen-server/internal/shared/projection"
)

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository persists accepted generations in the brand_names table.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository wires a GORM-backed history store. Caller manages DB lifecycle and schema.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type brandNameRecord struct {
	ID             int64          `gorm:"primaryKey;column:id"`
	Keywords       pq.StringArray `gorm:"column:keywords"`
	Category       string         `gorm:"column:category;index"`
	Names          []string       `gorm:"column:generated_names;serializer:json"`
	Language       string         `gorm:"column:language;size:8"`
	FromCache      bool           `gorm:"column:from_cache"`
	IdempotencyKey *string        `gorm:"column:idempotency_key;size:255;uniqueIndex"` // NULL when the write is not keyed
	CreatedAt      time.Time      `gorm:"column:created_at;index"`
}

func (brandNameRecord) TableName() string { return "brand_names" }

func (r *HistoryRepository) Append(ctx context.Context, generation *domain.Generation) (*types.GenerationRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, errors.New("generation is nil")
	}
	record := toRecord(generation)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && record.IdempotencyKey != nil {
			return r.findByKey(ctx, *record.IdempotencyKey)
		}
		return nil, err
	}
	out := record.toProjection()
	return &out, nil
}

// ListRecent orders by creation time with id as a tiebreaker for rows written in the same instant.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*types.GenerationRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []brandNameRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*types.GenerationRecord, 0, len(records))
	for i := range records {
		p := records[i].toProjection()
		out = append(out, &p)
	}
	return out, nil
}

func (r *HistoryRepository) findByKey(ctx context.Context, key string) (*types.GenerationRecord, error) {
	var existing brandNameRecord
	if err := r.db.WithContext(ctx).First(&existing, "idempotency_key = ?", key).Error; err != nil {
		return nil, err
	}
	out := existing.toProjection()
	return &out, nil
}

func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&brandNameRecord{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *HistoryRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres history repository not configured")
	}
	return nil
}

func toRecord(g *domain.Generation) brandNameRecord {
	var key *string
	if g.IdempotencyKey != "" {
		k := g.IdempotencyKey
		key = &k
	}
	return brandNameRecord{
		Keywords:       pq.StringArray(append([]string(nil), g.Request.Keywords...)),
		Category:       g.Request.Category,
		Names:          append([]string(nil), g.Names...),
		Language:       string(g.Request.Language),
		FromCache:      g.FromCache,
		IdempotencyKey: key,
	}
}

func (r brandNameRecord) toProjection() types.GenerationRecord {
	gen := &domain.Generation{
		ID: r.ID,
		Request: domain.Request{
			Keywords: append([]string(nil), r.Keywords...),
			Category: r.Category,
			Language: domain.Language(r.Language),
		},
		Names:     append([]string(nil), r.Names...),
		FromCache: r.FromCache,
	}
	if r.IdempotencyKey != nil {
		gen.IdempotencyKey = *r.IdempotencyKey
	}
	return projection.New(gen, r.CreatedAt)
}
