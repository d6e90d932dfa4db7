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

// GormBranchwiseItemRepository implements registry.BranchwiseItemRepository using GORM
type GormBranchwiseItemRepository struct {
	db *gorm.DB
}

// NewGormBranchwiseItemRepository creates a new GormBranchwiseItemRepository
func NewGormBranchwiseItemRepository(db *gorm.DB) *GormBranchwiseItemRepository {
	return &GormBranchwiseItemRepository{db: db}
}

func (r *GormBranchwiseItemRepository) findOne(ctx context.Context, query string, args ...any) (*registry.BranchwiseItem, error) {
	var m models.BranchwiseItemModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds a branchwise item by its ID
func (r *GormBranchwiseItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BranchwiseItem, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByVarianceName finds a branchwise item by variance name, ignoring case
func (r *GormBranchwiseItemRepository) FindByVarianceName(ctx context.Context, name string) (*registry.BranchwiseItem, error) {
	return r.findOne(ctx, "variance_key = ?", registry.FoldName(name))
}

// FindAll finds branchwise items matching the filter
func (r *GormBranchwiseItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BranchwiseItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BranchwiseItemModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(variance_name) LIKE ? OR LOWER(item_name) LIKE ?", p, p)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BranchwiseItemModel
	if err := applyPage(query, filter, RegistrySortFields, "variance_name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]registry.BranchwiseItem, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new branchwise item. A taken variance name yields ErrAlreadyExists.
func (r *GormBranchwiseItemRepository) Create(ctx context.Context, item *registry.BranchwiseItem) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BranchwiseItemModel{}).
		Where("variance_key = ?", registry.FoldName(item.VarianceName)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.Newf(shared.ErrAlreadyExists, "branchwise item %q already exists", item.VarianceName)
	}
	var m models.BranchwiseItemModel
	m.FromDomain(item)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.Newf(shared.ErrAlreadyExists, "branchwise item %q already exists", item.VarianceName)
		}
		return err
	}
	return nil
}

// SaveWithLock saves the branch states with optimistic locking (checks version)
func (r *GormBranchwiseItemRepository) SaveWithLock(ctx context.Context, item *registry.BranchwiseItem) error {
	var m models.BranchwiseItemModel
	m.FromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&models.BranchwiseItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"branches":   m.BranchesJSON,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "branchwise item %s was modified concurrently", item.VarianceName)
	}
	return nil
}

// Save creates or fully replaces a branchwise item
func (r *GormBranchwiseItemRepository) Save(ctx context.Context, item *registry.BranchwiseItem) error {
	var m models.BranchwiseItemModel
	m.FromDomain(item)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Delete deletes a branchwise item
func (r *GormBranchwiseItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BranchwiseItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBranchwiseItemRepository implements registry.BranchwiseItemRepository
var _ registry.BranchwiseItemRepository = (*GormBranchwiseItemRepository)(nil)
