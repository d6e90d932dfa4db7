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

// GormBranchRepository implements registry.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

func (r *GormBranchRepository) findOne(ctx context.Context, query string, args ...any) (*registry.Branch, error) {
	var m models.BranchModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Branch, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByName finds a branch by name, ignoring case
func (r *GormBranchRepository) FindByName(ctx context.Context, name string) (*registry.Branch, error) {
	return r.findOne(ctx, "name_key = ?", registry.FoldName(name))
}

// FindByAlias finds a branch by its alias
func (r *GormBranchRepository) FindByAlias(ctx context.Context, alias string) (*registry.Branch, error) {
	return r.findOne(ctx, "alias = ?", registry.NormalizeAlias(alias))
}

// FindAll finds all branches matching the filter
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Branch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BranchModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(branch_name) LIKE ? OR LOWER(alias) LIKE ?", p, p)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BranchModel
	if err := applyPage(query, filter, RegistrySortFields, "branch_name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]registry.Branch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *registry.Branch) error {
	var m models.BranchModel
	m.FromDomain(branch)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Delete deletes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BranchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBranchRepository implements registry.BranchRepository
var _ registry.BranchRepository = (*GormBranchRepository)(nil)

// GormEmployeeRepository implements registry.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Employee, error) {
	var m models.EmployeeModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByFirstNameAndPosition finds the first employee with the given first name and position
func (r *GormEmployeeRepository) FindByFirstNameAndPosition(ctx context.Context, firstName, position string) (*registry.Employee, error) {
	var m models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("first_name_key = ? AND position_key = ?", registry.FoldName(firstName), registry.FoldName(position)).
		Order("created_at ASC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds all employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(position) LIKE ?", p, p, p)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.EmployeeModel
	if err := applyPage(query, filter, RegistrySortFields, "first_name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]registry.Employee, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *registry.Employee) error {
	var m models.EmployeeModel
	m.FromDomain(employee)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Delete deletes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormEmployeeRepository implements registry.EmployeeRepository
var _ registry.EmployeeRepository = (*GormEmployeeRepository)(nil)
