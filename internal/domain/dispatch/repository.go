package dispatch

import (
	"context"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows a dispatch listing
type Filter struct {
	shared.Filter
	BranchName    string
	WarehouseName string
	Type          Type
	Statuses      []Status
	Date          shared.DateRange
}

// Repository defines the interface for dispatch persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Dispatch, error)
	FindByNumber(ctx context.Context, dispatchNo string) (*Dispatch, error)
	FindAll(ctx context.Context, filter Filter) ([]Dispatch, int64, error)

	// CountByStatus counts dispatches of a branch in the given status created within r
	CountByStatus(ctx context.Context, branchName string, status Status, r shared.DateRange) (int64, error)

	// Save creates or fully replaces a dispatch
	Save(ctx context.Context, d *Dispatch) error

	// SaveWithLock persists d only if the stored version is d.Version-1
	SaveWithLock(ctx context.Context, d *Dispatch) error

	Delete(ctx context.Context, id uuid.UUID) error
}
