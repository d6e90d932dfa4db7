package persistence

import (
	"context"
	"errors"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCounterRepository implements sequence.Repository using GORM
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

const nextCounterSQL = `INSERT INTO counters (prefix, sequence) VALUES (?, 1)
ON CONFLICT (prefix) DO UPDATE SET sequence = counters.sequence + 1
RETURNING sequence`

// Next increments the counter in a single statement so concurrent callers never
// observe the same value
func (r *GormCounterRepository) Next(ctx context.Context, prefix string) (int64, error) {
	var seq int64
	if err := r.db.WithContext(ctx).Raw(nextCounterSQL, prefix).Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}

// Current returns the stored counter value, 0 when absent
func (r *GormCounterRepository) Current(ctx context.Context, prefix string) (int64, error) {
	var m models.CounterModel
	if err := r.db.WithContext(ctx).First(&m, "prefix = ?", prefix).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return m.Sequence, nil
}

// Set overwrites the counter, creating it if needed
func (r *GormCounterRepository) Set(ctx context.Context, prefix string, value int64) error {
	m := models.CounterModel{Prefix: prefix, Sequence: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.AssignmentColumns([]string{"sequence"}),
	}).Create(&m).Error
}

// Ensure GormCounterRepository implements sequence.Repository
var _ sequence.Repository = (*GormCounterRepository)(nil)
