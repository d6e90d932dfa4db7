package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDispatchRepository implements dispatch.Repository using GORM
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewGormDispatchRepository creates a new GormDispatchRepository
func NewGormDispatchRepository(db *gorm.DB) *GormDispatchRepository {
	return &GormDispatchRepository{db: db}
}

func (r *GormDispatchRepository) findOne(ctx context.Context, query string, args ...any) (*dispatch.Dispatch, error) {
	var m models.DispatchModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds a dispatch by its ID
func (r *GormDispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*dispatch.Dispatch, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByNumber finds a dispatch by its dispatch number
func (r *GormDispatchRepository) FindByNumber(ctx context.Context, dispatchNo string) (*dispatch.Dispatch, error) {
	return r.findOne(ctx, "dispatch_no = ?", strings.TrimSpace(dispatchNo))
}

func (r *GormDispatchRepository) applyFilter(query *gorm.DB, filter dispatch.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(dispatch_no) LIKE ?", searchPattern(filter.Search))
	}
	if filter.BranchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(filter.BranchName))
	}
	if filter.WarehouseName != "" {
		query = query.Where("LOWER(warehouse_name) = ?", strings.ToLower(strings.TrimSpace(filter.WarehouseName)))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	return applyRange(query, "date", filter.Date)
}

// FindAll finds dispatches matching the filter
func (r *GormDispatchRepository) FindAll(ctx context.Context, filter dispatch.Filter) ([]dispatch.Dispatch, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DispatchModel{}), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DispatchModel
	if err := applyPage(query, filter.Filter, DocumentSortFields, "date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]dispatch.Dispatch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountByStatus counts dispatches of a branch in a status created within rng
func (r *GormDispatchRepository) CountByStatus(ctx context.Context, branchName string, status dispatch.Status, rng shared.DateRange) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DispatchModel{}).
		Where("branch_key = ? AND status = ?", registry.FoldName(branchName), string(status))
	var count int64
	if err := applyRange(query, "date", rng).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or fully replaces a dispatch
func (r *GormDispatchRepository) Save(ctx context.Context, d *dispatch.Dispatch) error {
	var m models.DispatchModel
	m.FromDomain(d)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormDispatchRepository) SaveWithLock(ctx context.Context, d *dispatch.Dispatch) error {
	var m models.DispatchModel
	m.FromDomain(d)
	result := r.db.WithContext(ctx).
		Model(&models.DispatchModel{}).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(map[string]any{
			"status":           m.Status,
			"received_by":      m.ReceivedBy,
			"received_time":    m.ReceivedTime,
			"driver_name":      m.DriverName,
			"driver_number":    m.DriverNumber,
			"vehicle_number":   m.VehicleNumber,
			"remarks":          m.Remarks,
			"lines":            m.LinesJSON,
			"approval_details": m.ApprovalDetailsJSON,
			"version":          d.Version,
			"updated_at":       d.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "dispatch %s was modified concurrently", d.DispatchNo)
	}
	return nil
}

// Delete deletes a dispatch
func (r *GormDispatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DispatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDispatchRepository implements dispatch.Repository
var _ dispatch.Repository = (*GormDispatchRepository)(nil)
