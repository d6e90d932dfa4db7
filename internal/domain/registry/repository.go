package registry

import (
	"context"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseItemFilter narrows a warehouse item listing
type WarehouseItemFilter struct {
	shared.Filter
	Category        string
	MeasurementType string
}

// WarehouseItemRepository defines the interface for warehouse item persistence
type WarehouseItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WarehouseItem, error)

	// FindByCode finds an item by its variance item code
	FindByCode(ctx context.Context, code string) (*WarehouseItem, error)

	// FindByVarianceName finds an item by its variance name
	FindByVarianceName(ctx context.Context, name string) (*WarehouseItem, error)

	FindAll(ctx context.Context, filter WarehouseItemFilter) ([]WarehouseItem, int64, error)

	// ExistsByCode checks whether a code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or fully replaces an item
	Save(ctx context.Context, item *WarehouseItem) error

	// SaveStockWithLock persists SystemStock only if the stored version is item.Version-1
	SaveStockWithLock(ctx context.Context, item *WarehouseItem) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindByName(ctx context.Context, name string) (*Branch, error)
	FindByAlias(ctx context.Context, alias string) (*Branch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, int64, error)
	Save(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchwiseItemRepository defines the interface for branchwise item persistence
type BranchwiseItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BranchwiseItem, error)
	FindByVarianceName(ctx context.Context, name string) (*BranchwiseItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BranchwiseItem, int64, error)

	// Create inserts a new item, returning ErrAlreadyExists when the variance is taken
	Create(ctx context.Context, item *BranchwiseItem) error

	// SaveWithLock persists Branches only if the stored version is item.Version-1
	SaveWithLock(ctx context.Context, item *BranchwiseItem) error

	Save(ctx context.Context, item *BranchwiseItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// FindByFirstNameAndPosition is used to enrich dispatches with a driver phone number
	FindByFirstNameAndPosition(ctx context.Context, firstName, position string) (*Employee, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Employee, int64, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByName(ctx context.Context, name string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, int64, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
}
