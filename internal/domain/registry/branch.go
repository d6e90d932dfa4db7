package registry

import (
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
)

// Branch is a store location. Alias is the short upper-case code used in
// minted numbers and in the flattened branchwise export.
type Branch struct {
	shared.BaseAggregateRoot
	BranchName    string
	Alias         string
	WarehouseName string
	Address       string
	Phone         string
	Active        bool
}

// NewBranch creates an active branch
func NewBranch(name, alias, warehouseName string) (*Branch, error) {
	name = strings.TrimSpace(name)
	alias = NormalizeAlias(alias)
	if name == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
	if alias == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "aliasName is required")
	}
	for _, r := range alias {
		if r < 'A' || r > 'Z' {
			return nil, shared.Newf(shared.ErrInvalidInput, "aliasName %q must contain letters only", alias)
		}
	}
	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchName:        name,
		Alias:             alias,
		WarehouseName:     strings.TrimSpace(warehouseName),
		Active:            true,
	}, nil
}

// Employee is a staff member; drivers are looked up by first name when a
// dispatch is created.
type Employee struct {
	shared.BaseEntity
	FirstName   string
	LastName    string
	Position    string
	PhoneNumber string
	BranchName  string
}

// PositionDriver marks employees that can be assigned to dispatches
const PositionDriver = "Driver"

// NewEmployee creates an employee
func NewEmployee(firstName, lastName, position, phone string) (*Employee, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "firstName is required")
	}
	return &Employee{
		BaseEntity:  shared.NewBaseEntity(),
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		Position:    strings.TrimSpace(position),
		PhoneNumber: strings.TrimSpace(phone),
	}, nil
}

// IsDriver reports whether the employee holds the driver position
func (e *Employee) IsDriver() bool {
	return SameName(e.Position, PositionDriver)
}

// Warehouse is a stock location with a master id of the form WH-###
type Warehouse struct {
	shared.BaseEntity
	WarehouseID   string
	WarehouseName string
	Address       string
}

// NewWarehouse creates a warehouse; the id is allocated by the caller
func NewWarehouse(warehouseID, name string) (*Warehouse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "warehouseName is required")
	}
	return &Warehouse{
		BaseEntity:    shared.NewBaseEntity(),
		WarehouseID:   warehouseID,
		WarehouseName: strings.TrimSpace(name),
	}, nil
}
