package persistence

import (
	"context"
	"errors"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseItemRepository implements registry.WarehouseItemRepository using GORM
type GormWarehouseItemRepository struct {
	db *gorm.DB
}

// NewGormWarehouseItemRepository creates a new GormWarehouseItemRepository
func NewGormWarehouseItemRepository(db *gorm.DB) *GormWarehouseItemRepository {
	return &GormWarehouseItemRepository{db: db}
}

func (r *GormWarehouseItemRepository) findOne(ctx context.Context, query string, args ...any) (*registry.WarehouseItem, error) {
	var m models.WarehouseItemModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds a warehouse item by its ID
func (r *GormWarehouseItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.WarehouseItem, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByCode finds a warehouse item by its variance item code
func (r *GormWarehouseItemRepository) FindByCode(ctx context.Context, code string) (*registry.WarehouseItem, error) {
	return r.findOne(ctx, "variance_item_code = ?", code)
}

// FindByVarianceName finds a warehouse item by variance name, ignoring case
func (r *GormWarehouseItemRepository) FindByVarianceName(ctx context.Context, name string) (*registry.WarehouseItem, error) {
	return r.findOne(ctx, "variance_key = ?", registry.FoldName(name))
}

// FindAll finds warehouse items matching the filter
func (r *GormWarehouseItemRepository) FindAll(ctx context.Context, filter registry.WarehouseItemFilter) ([]registry.WarehouseItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WarehouseItemModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(variance_name) LIKE ? OR LOWER(variance_item_code) LIKE ? OR LOWER(item_name) LIKE ?", p, p, p)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MeasurementType != "" {
		query = query.Where("measurement_type = ?", filter.MeasurementType)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WarehouseItemModel
	if err := applyPage(query, filter.Filter, WarehouseItemSortFields, "variance_item_code").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items := make([]registry.WarehouseItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// ExistsByCode checks whether a variance item code is taken
func (r *GormWarehouseItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WarehouseItemModel{}).
		Where("variance_item_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsedCodes lists every variance item code, used to allocate the next FG code
func (r *GormWarehouseItemRepository) UsedCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Model(&models.WarehouseItemModel{}).
		Pluck("variance_item_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Save creates or updates a warehouse item
func (r *GormWarehouseItemRepository) Save(ctx context.Context, item *registry.WarehouseItem) error {
	var m models.WarehouseItemModel
	m.FromDomain(item)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveStockWithLock saves the stock levels with optimistic locking (checks version)
func (r *GormWarehouseItemRepository) SaveStockWithLock(ctx context.Context, item *registry.WarehouseItem) error {
	var m models.WarehouseItemModel
	m.FromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&models.WarehouseItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"system_stock": m.SystemStockJSON,
			"version":      item.Version,
			"updated_at":   item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "warehouse item %s was modified concurrently", item.VarianceItemCode)
	}
	return nil
}

// Delete deletes a warehouse item
func (r *GormWarehouseItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WarehouseItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormWarehouseItemRepository implements registry.WarehouseItemRepository
var _ registry.WarehouseItemRepository = (*GormWarehouseItemRepository)(nil)
