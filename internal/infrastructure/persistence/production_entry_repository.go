package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/production"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionEntryRepository implements production.Repository using GORM
type GormProductionEntryRepository struct {
	db *gorm.DB
}

// NewGormProductionEntryRepository creates a new GormProductionEntryRepository
func NewGormProductionEntryRepository(db *gorm.DB) *GormProductionEntryRepository {
	return &GormProductionEntryRepository{db: db}
}

// FindByID finds a production entry by its ID
func (r *GormProductionEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Entry, error) {
	var m models.ProductionEntryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds production entries matching the filter
func (r *GormProductionEntryRepository) FindAll(ctx context.Context, filter production.Filter) ([]production.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductionEntryModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(production_entry_number) LIKE ?", searchPattern(filter.Search))
	}
	if filter.WarehouseName != "" {
		query = query.Where("LOWER(warehouse_name) = ?", strings.ToLower(strings.TrimSpace(filter.WarehouseName)))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	query = applyRange(query, "date", filter.Date).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ProductionEntryModel
	if err := applyPage(query, filter.Filter, DocumentSortFields, "date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]production.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or fully replaces a production entry
func (r *GormProductionEntryRepository) Save(ctx context.Context, e *production.Entry) error {
	var m models.ProductionEntryModel
	m.FromDomain(e)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductionEntryRepository) SaveWithLock(ctx context.Context, e *production.Entry) error {
	var m models.ProductionEntryModel
	m.FromDomain(e)
	result := r.db.WithContext(ctx).
		Model(&models.ProductionEntryModel{}).
		Where("id = ? AND version = ?", e.ID, e.Version-1).
		Updates(map[string]any{
			"status":          m.Status,
			"lines":           m.LinesJSON,
			"cancelled_lines": m.CancelledLinesJSON,
			"version":         e.Version,
			"updated_at":      e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "production entry %s was modified concurrently", e.ProductionEntryNumber)
	}
	return nil
}

// Ensure GormProductionEntryRepository implements production.Repository
var _ production.Repository = (*GormProductionEntryRepository)(nil)
