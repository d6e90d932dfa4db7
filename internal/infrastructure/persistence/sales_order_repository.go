package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleOrderRepository implements sales.SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

func (r *GormSaleOrderRepository) findOne(ctx context.Context, query string, args ...any) (*sales.SaleOrder, error) {
	var m models.SaleOrderModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds an order by its ID
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SaleOrder, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByNumber finds an order by its sale order number
func (r *GormSaleOrderRepository) FindByNumber(ctx context.Context, saleOrderNo string) (*sales.SaleOrder, error) {
	no := strings.TrimSpace(saleOrderNo)
	if no == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "sale_order_no = ?", no)
}

func statusStrings(statuses []sales.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// FindAll finds orders matching the filter
func (r *GormSaleOrderRepository) FindAll(ctx context.Context, filter sales.Filter) ([]sales.SaleOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleOrderModel{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(sale_order_no) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", p, p, p)
	}
	if filter.BranchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(filter.BranchName))
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}
	query = applyRange(query, "order_date", filter.Date).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SaleOrderModel
	if err := applyPage(query, filter.Filter, SalesSortFields, "order_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]sales.SaleOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindByShift returns orders holding an advance taken in shiftID
func (r *GormSaleOrderRepository) FindByShift(ctx context.Context, shiftID string) ([]sales.SaleOrder, error) {
	var rows []models.SaleOrderModel
	if err := r.db.WithContext(ctx).
		Where("shift_ids LIKE ?", models.ShiftIDPattern(shiftID)).
		Order("order_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.SaleOrder, 0, len(rows))
	for i := range rows {
		o := rows[i].ToDomain()
		// the LIKE match is coarse; confirm on the decoded advances
		for _, id := range o.ShiftIDs() {
			if id == shiftID {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

// CountByStatus counts orders of kind at a branch whose status is one of statuses
func (r *GormSaleOrderRepository) CountByStatus(ctx context.Context, kind sales.Kind, branchName string, statuses []sales.Status, rng shared.DateRange) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.SaleOrderModel{}).
		Where("kind = ? AND branch_key = ?", string(kind), registry.FoldName(branchName)).
		Where("status IN ?", statusStrings(statuses))
	var count int64
	if err := applyRange(query, "order_date", rng).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByLastApproval counts orders of kind whose latest approval entry has approvalStatus
func (r *GormSaleOrderRepository) CountByLastApproval(ctx context.Context, kind sales.Kind, branchName, approvalStatus string, rng shared.DateRange) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleOrderModel{}).
		Where("kind = ? AND branch_key = ? AND last_approval_status = ?", string(kind), registry.FoldName(branchName), approvalStatus)
	var count int64
	if err := applyRange(query, "order_date", rng).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or fully replaces an order
func (r *GormSaleOrderRepository) Save(ctx context.Context, o *sales.SaleOrder) error {
	var m models.SaleOrderModel
	m.FromDomain(o)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormSaleOrderRepository) SaveWithLock(ctx context.Context, o *sales.SaleOrder) error {
	var m models.SaleOrderModel
	m.FromDomain(o)
	result := r.db.WithContext(ctx).
		Model(&models.SaleOrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]any{
			"kind":                 m.Kind,
			"sale_order_no":        m.SaleOrderNo,
			"branch_alias":         m.BranchAlias,
			"customer_name":        m.CustomerName,
			"customer_phone":       m.CustomerPhone,
			"customer_address":     m.CustomerAddress,
			"delivery_date":        m.DeliveryDate,
			"remarks":              m.Remarks,
			"total_amount":         m.TotalAmount,
			"status":               m.Status,
			"last_approval_status": m.LastApprovalStatus,
			"shift_ids":            m.ShiftIDsJSON,
			"lines":                m.LinesJSON,
			"advances":             m.AdvancesJSON,
			"approval_details":     m.ApprovalDetailsJSON,
			"version":              o.Version,
			"updated_at":           o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.Newf(shared.ErrOptimisticLock, "order %s was modified concurrently", o.ID)
	}
	return nil
}

// Delete deletes an order
func (r *GormSaleOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleOrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSaleOrderRepository implements sales.SaleOrderRepository
var _ sales.SaleOrderRepository = (*GormSaleOrderRepository)(nil)

// GormInvoiceRepository implements sales.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter sales.InvoiceFilter) ([]sales.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(invoice_no) LIKE ? OR LOWER(customer_name) LIKE ?", p, p)
	}
	if filter.BranchName != "" {
		query = query.Where("branch_key = ?", registry.FoldName(filter.BranchName))
	}
	if filter.ShiftID != "" {
		query = query.Where("shift_id = ?", filter.ShiftID)
	}
	query = applyRange(query, "date", filter.Date).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.InvoiceModel
	if err := applyPage(query, filter.Filter, SalesSortFields, "date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]sales.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindByShift returns every invoice issued in shiftID
func (r *GormInvoiceRepository) FindByShift(ctx context.Context, shiftID string) ([]sales.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *sales.Invoice) error {
	var m models.InvoiceModel
	m.FromDomain(inv)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Ensure GormInvoiceRepository implements sales.InvoiceRepository
var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
