package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShiftRepository implements shift.Repository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// FindByID finds a shift by its ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*shift.Shift, error) {
	var m models.ShiftModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds shifts matching the filter
func (r *GormShiftRepository) FindAll(ctx context.Context, filter shift.Filter) ([]shift.Shift, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShiftModel{})
	if filter.BranchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(filter.BranchName))
	}
	if filter.LocalDate != "" {
		query = query.Where("local_date = ?", filter.LocalDate)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ShiftModel
	if err := applyPage(query, filter.Filter, SalesSortFields, "opening_date_time").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return shiftsToDomain(rows), total, nil
}

func shiftsToDomain(rows []models.ShiftModel) []shift.Shift {
	out := make([]shift.Shift, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// FindOpen returns the open shifts of a branch
func (r *GormShiftRepository) FindOpen(ctx context.Context, branchName string) ([]shift.Shift, error) {
	var rows []models.ShiftModel
	if err := r.db.WithContext(ctx).
		Where("branch_key = ? AND status = ?", registry.FoldName(branchName), string(shift.StatusOpen)).
		Order("opening_date_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return shiftsToDomain(rows), nil
}

// FindDayEndOpen returns closed shifts of a branch not yet rolled into a day-end
func (r *GormShiftRepository) FindDayEndOpen(ctx context.Context, branchName string) ([]shift.Shift, error) {
	var rows []models.ShiftModel
	if err := r.db.WithContext(ctx).
		Where("branch_key = ? AND status = ? AND day_end_status = ?",
			registry.FoldName(branchName), string(shift.StatusClosed), string(shift.StatusOpen)).
		Order("opening_date_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return shiftsToDomain(rows), nil
}

// MaxShiftNumber returns the highest shift number for (branch, localDate), 0 if none
func (r *GormShiftRepository) MaxShiftNumber(ctx context.Context, branchName, localDate string) (int, error) {
	var max sql.NullInt64
	row := r.db.WithContext(ctx).Model(&models.ShiftModel{}).
		Select("MAX(shift_number)").
		Where("branch_key = ? AND local_date = ?", registry.FoldName(branchName), localDate).
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// Save creates or fully replaces a shift
func (r *GormShiftRepository) Save(ctx context.Context, s *shift.Shift) error {
	var m models.ShiftModel
	m.FromDomain(s)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormShiftRepository) SaveWithLock(ctx context.Context, s *shift.Shift) error {
	var m models.ShiftModel
	m.FromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&models.ShiftModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Updates(map[string]any{
			"closed_by":         m.ClosedBy,
			"closing_date_time": m.ClosingDateTime,
			"closing_balance":   m.ClosingBalance,
			"total_difference":  m.TotalDifference,
			"difference_type":   m.DifferenceType,
			"status":            m.Status,
			"day_end_status":    m.DayEndStatus,
			"system_totals":     m.SystemJSON,
			"manual_totals":     m.ManualJSON,
			"differences":       m.DifferencesJSON,
			"version":           s.Version,
			"updated_at":        s.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "shift %s was modified concurrently", s.ID)
	}
	return nil
}

// Ensure GormShiftRepository implements shift.Repository
var _ shift.Repository = (*GormShiftRepository)(nil)

// GormDayEndRepository implements shift.DayEndRepository using GORM
type GormDayEndRepository struct {
	db *gorm.DB
}

// NewGormDayEndRepository creates a new GormDayEndRepository
func NewGormDayEndRepository(db *gorm.DB) *GormDayEndRepository {
	return &GormDayEndRepository{db: db}
}

// Save stores a day-end snapshot
func (r *GormDayEndRepository) Save(ctx context.Context, d *shift.DayEnd) error {
	var m models.DayEndModel
	m.FromDomain(d)
	return r.db.WithContext(ctx).Save(&m).Error
}

// FindAll lists day-end snapshots, optionally narrowed to a branch and local date
func (r *GormDayEndRepository) FindAll(ctx context.Context, branchName, localDate string) ([]shift.DayEnd, error) {
	query := r.db.WithContext(ctx).Model(&models.DayEndModel{})
	if branchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(branchName))
	}
	if localDate != "" {
		query = query.Where("local_date = ?", localDate)
	}
	var rows []models.DayEndModel
	if err := query.Order("closing_date_time DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shift.DayEnd, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveValidation stores a pre-day-end checklist
func (r *GormDayEndRepository) SaveValidation(ctx context.Context, v *shift.DayEndValidation) error {
	var m models.DayEndValidationModel
	m.FromDomain(v)
	return r.db.WithContext(ctx).Save(&m).Error
}

// FindValidations lists stored checklists, optionally narrowed to a branch and local date
func (r *GormDayEndRepository) FindValidations(ctx context.Context, branchName, localDate string) ([]shift.DayEndValidation, error) {
	query := r.db.WithContext(ctx).Model(&models.DayEndValidationModel{})
	if branchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(branchName))
	}
	if localDate != "" {
		query = query.Where("local_date = ?", localDate)
	}
	var rows []models.DayEndValidationModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shift.DayEndValidation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Ensure GormDayEndRepository implements shift.DayEndRepository
var _ shift.DayEndRepository = (*GormDayEndRepository)(nil)
