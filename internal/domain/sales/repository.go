package sales

import (
	"context"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows a sale order listing
type Filter struct {
	shared.Filter
	Kind       Kind
	BranchName string
	Statuses   []Status
	Date       shared.DateRange
}

// SaleOrderRepository defines the interface for sale and held order persistence
type SaleOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleOrder, error)
	FindByNumber(ctx context.Context, saleOrderNo string) (*SaleOrder, error)
	FindAll(ctx context.Context, filter Filter) ([]SaleOrder, int64, error)

	// FindByShift returns orders holding an advance taken in shiftID
	FindByShift(ctx context.Context, shiftID string) ([]SaleOrder, error)

	// CountByStatus counts orders of kind at a branch whose status is one of statuses,
	// ordered within r
	CountByStatus(ctx context.Context, kind Kind, branchName string, statuses []Status, r shared.DateRange) (int64, error)

	// CountByLastApproval counts orders of kind whose latest approval entry has status
	CountByLastApproval(ctx context.Context, kind Kind, branchName, approvalStatus string, r shared.DateRange) (int64, error)

	Save(ctx context.Context, o *SaleOrder) error
	SaveWithLock(ctx context.Context, o *SaleOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceFilter narrows an invoice listing
type InvoiceFilter struct {
	shared.Filter
	BranchName string
	ShiftID    string
	Date       shared.DateRange
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	FindByShift(ctx context.Context, shiftID string) ([]Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
}
