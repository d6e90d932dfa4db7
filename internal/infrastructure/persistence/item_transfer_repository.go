package persistence

import (
	"context"
	"errors"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItemTransferRepository implements transfer.Repository using GORM
type GormItemTransferRepository struct {
	db *gorm.DB
}

// NewGormItemTransferRepository creates a new GormItemTransferRepository
func NewGormItemTransferRepository(db *gorm.DB) *GormItemTransferRepository {
	return &GormItemTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormItemTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.ItemTransfer, error) {
	var m models.ItemTransferModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormItemTransferRepository) applyFilter(query *gorm.DB, filter transfer.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(transfer_no) LIKE ?", searchPattern(filter.Search))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.FromBranch != "" {
		query = query.Where("from_branch_key = ?", registry.FoldName(filter.FromBranch))
	}
	if filter.ToBranch != "" {
		query = query.Where("to_branch_key = ?", registry.FoldName(filter.ToBranch))
	}
	if filter.Branch != "" {
		key := registry.FoldName(filter.Branch)
		query = query.Where("(from_branch_key = ? OR to_branch_key = ?)", key, key)
	}
	if !filter.Since.IsZero() {
		s := filter.Since.UTC()
		query = query.Where("(request_date_time >= ? OR sent_date_time >= ? OR receive_date_time >= ? OR reject_date_time >= ?)",
			s, s, s, s)
	}
	return query
}

// FindAll finds transfers matching the filter
func (r *GormItemTransferRepository) FindAll(ctx context.Context, filter transfer.Filter) ([]transfer.ItemTransfer, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemTransferModel{}), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ItemTransferModel
	if err := applyPage(query, filter.Filter, DocumentSortFields, "request_date_time").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]transfer.ItemTransfer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountPending counts pending transfers touching branchName requested within rng
func (r *GormItemTransferRepository) CountPending(ctx context.Context, branchName string, rng shared.DateRange) (int64, error) {
	key := registry.FoldName(branchName)
	query := r.db.WithContext(ctx).Model(&models.ItemTransferModel{}).
		Where("status = ?", string(transfer.StatusPending)).
		Where("(from_branch_key = ? OR to_branch_key = ?)", key, key)
	var count int64
	if err := applyRange(query, "request_date_time", rng).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or fully replaces a transfer
func (r *GormItemTransferRepository) Save(ctx context.Context, t *transfer.ItemTransfer) error {
	var m models.ItemTransferModel
	m.FromDomain(t)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormItemTransferRepository) SaveWithLock(ctx context.Context, t *transfer.ItemTransfer) error {
	var m models.ItemTransferModel
	m.FromDomain(t)
	result := r.db.WithContext(ctx).
		Model(&models.ItemTransferModel{}).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]any{
			"status":            m.Status,
			"remarks":           m.Remarks,
			"sent_date_time":    m.SentDateTime,
			"receive_date_time": m.ReceiveDateTime,
			"reject_date_time":  m.RejectDateTime,
			"lines":             m.LinesJSON,
			"version":           t.Version,
			"updated_at":        t.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "transfer %s was modified concurrently", t.TransferNo)
	}
	return nil
}

// Delete deletes a transfer
func (r *GormItemTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ItemTransferModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormItemTransferRepository implements transfer.Repository
var _ transfer.Repository = (*GormItemTransferRepository)(nil)
