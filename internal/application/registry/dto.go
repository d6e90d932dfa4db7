package registry

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Warehouse item DTOs
// =============================================================================

// WarehouseStockDTO is one (warehouse, stock) pair on the wire
type WarehouseStockDTO struct {
	WarehouseName string          `json:"warehouseName" binding:"required"`
	Stock         decimal.Decimal `json:"stock"`
}

// CreateWarehouseItemRequest creates a warehouse item. An empty code is
// allocated from the FG sequence.
type CreateWarehouseItemRequest struct {
	VarianceItemCode string              `json:"varianceItemCode" binding:"max=64"`
	VarianceName     string              `json:"varianceName" binding:"required,max=200"`
	ItemName         string              `json:"itemName" binding:"max=200"`
	Category         string              `json:"category" binding:"max=100"`
	UOM              string              `json:"uom" binding:"max=20"`
	MeasurementType  string              `json:"measurementType" binding:"omitempty,oneof=count weight Count Weight"`
	Price            decimal.Decimal     `json:"price"`
	SystemStock      []WarehouseStockDTO `json:"systemStock" binding:"omitempty,dive"`
}

// UpdateWarehouseItemRequest changes item metadata. Stock moves only through
// AdjustStockRequest.
type UpdateWarehouseItemRequest struct {
	VarianceName    *string          `json:"varianceName" binding:"omitempty,min=1,max=200"`
	ItemName        *string          `json:"itemName" binding:"omitempty,max=200"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	UOM             *string          `json:"uom" binding:"omitempty,max=20"`
	MeasurementType *string          `json:"measurementType" binding:"omitempty,oneof=count weight Count Weight"`
	Price           *decimal.Decimal `json:"price"`
}

// AdjustStockRequest applies a signed delta to one warehouse
type AdjustStockRequest struct {
	WarehouseName string          `json:"warehouseName" binding:"required"`
	Delta         decimal.Decimal `json:"delta"`
}

// WarehouseItemListFilter is the query of GET /warehouseItems
type WarehouseItemListFilter struct {
	Search          string `form:"search"`
	Category        string `form:"category"`
	MeasurementType string `form:"measurementType"`
	WarehouseName   string `form:"warehouseName"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// WarehouseItemResponse is a warehouse item on the wire
type WarehouseItemResponse struct {
	ID               uuid.UUID           `json:"id"`
	VarianceItemCode string              `json:"varianceItemCode"`
	VarianceName     string              `json:"varianceName"`
	ItemName         string              `json:"itemName"`
	Category         string              `json:"category"`
	UOM              string              `json:"uom"`
	MeasurementType  string              `json:"measurementType"`
	Price            decimal.Decimal     `json:"price"`
	SystemStock      []WarehouseStockDTO `json:"systemStock"`
	Version          int                 `json:"version"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// StockResponse reports the level after an adjustment
type StockResponse struct {
	VarianceItemCode string          `json:"varianceItemCode"`
	WarehouseName    string          `json:"warehouseName"`
	Stock            decimal.Decimal `json:"stock"`
}

// ToWarehouseItemResponse converts the domain item
func ToWarehouseItemResponse(item *registry.WarehouseItem) WarehouseItemResponse {
	stock := make([]WarehouseStockDTO, len(item.SystemStock))
	for i, s := range item.SystemStock {
		stock[i] = WarehouseStockDTO{WarehouseName: s.WarehouseName, Stock: s.Stock}
	}
	return WarehouseItemResponse{
		ID:               item.ID,
		VarianceItemCode: item.VarianceItemCode,
		VarianceName:     item.VarianceName,
		ItemName:         item.ItemName,
		Category:         item.Category,
		UOM:              item.UOM,
		MeasurementType:  string(item.MeasurementType),
		Price:            item.Price,
		SystemStock:      stock,
		Version:          item.Version,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest creates a warehouse. An empty id is allocated as WH-###.
type CreateWarehouseRequest struct {
	WarehouseID   string `json:"warehouseId" binding:"max=20"`
	WarehouseName string `json:"warehouseName" binding:"required,max=200"`
	Address       string `json:"address" binding:"max=500"`
}

// UpdateWarehouseRequest updates a warehouse
type UpdateWarehouseRequest struct {
	WarehouseName *string `json:"warehouseName" binding:"omitempty,min=1,max=200"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
}

// WarehouseResponse is a warehouse on the wire
type WarehouseResponse struct {
	ID            uuid.UUID `json:"id"`
	WarehouseID   string    `json:"warehouseId"`
	WarehouseName string    `json:"warehouseName"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToWarehouseResponse converts the domain warehouse
func ToWarehouseResponse(w *registry.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:            w.ID,
		WarehouseID:   w.WarehouseID,
		WarehouseName: w.WarehouseName,
		Address:       w.Address,
		CreatedAt:     w.CreatedAt,
	}
}

// =============================================================================
// Branch DTOs
// =============================================================================

// CreateBranchRequest creates a branch
type CreateBranchRequest struct {
	BranchName    string `json:"branchName" binding:"required,max=200"`
	AliasName     string `json:"aliasName" binding:"required,max=10,alias"`
	WarehouseName string `json:"warehouseName" binding:"max=200"`
	Address       string `json:"address" binding:"max=500"`
	Phone         string `json:"phone" binding:"max=50"`
}

// UpdateBranchRequest updates a branch. The alias is immutable because
// document numbers and branchwise stock are keyed by it.
type UpdateBranchRequest struct {
	BranchName    *string `json:"branchName" binding:"omitempty,min=1,max=200"`
	WarehouseName *string `json:"warehouseName" binding:"omitempty,max=200"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Active        *bool   `json:"active"`
}

// BranchResponse is a branch on the wire
type BranchResponse struct {
	ID            uuid.UUID `json:"id"`
	BranchName    string    `json:"branchName"`
	AliasName     string    `json:"aliasName"`
	WarehouseName string    `json:"warehouseName"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToBranchResponse converts the domain branch
func ToBranchResponse(b *registry.Branch) BranchResponse {
	return BranchResponse{
		ID:            b.ID,
		BranchName:    b.BranchName,
		AliasName:     b.Alias,
		WarehouseName: b.WarehouseName,
		Address:       b.Address,
		Phone:         b.Phone,
		Active:        b.Active,
		CreatedAt:     b.CreatedAt,
	}
}

// BranchRef is a resolved branch: its alias and its dispatching warehouse
type BranchRef struct {
	BranchName    string
	Alias         string
	WarehouseName string
}

// =============================================================================
// Branchwise item DTOs
// =============================================================================

// BranchStateDTO is the per-branch state of a branchwise item
type BranchStateDTO struct {
	Price         decimal.Decimal            `json:"price"`
	PhysicalStock decimal.Decimal            `json:"physicalStock"`
	SystemStock   decimal.Decimal            `json:"systemStock"`
	OrderTypes    map[string]decimal.Decimal `json:"orderTypes,omitempty"`
}

// CreateBranchwiseItemRequest creates a branchwise item
type CreateBranchwiseItemRequest struct {
	VarianceName     string                    `json:"varianceName" binding:"required,max=200"`
	VarianceItemCode string                    `json:"varianceItemCode" binding:"max=64"`
	ItemName         string                    `json:"itemName" binding:"max=200"`
	Category         string                    `json:"category" binding:"max=100"`
	UOM              string                    `json:"uom" binding:"max=20"`
	Branches         map[string]BranchStateDTO `json:"branches"`
}

// UpdateBranchwiseItemRequest replaces metadata and, per listed alias, the
// price and order-type prices. Stock moves only through document engines.
type UpdateBranchwiseItemRequest struct {
	ItemName   *string                               `json:"itemName" binding:"omitempty,max=200"`
	Category   *string                               `json:"category" binding:"omitempty,max=100"`
	UOM        *string                               `json:"uom" binding:"omitempty,max=20"`
	Prices     map[string]decimal.Decimal            `json:"prices"`
	OrderTypes map[string]map[string]decimal.Decimal `json:"orderTypes"`
}

// BranchwiseItemResponse is a branchwise item on the wire
type BranchwiseItemResponse struct {
	ID               uuid.UUID                 `json:"id"`
	VarianceName     string                    `json:"varianceName"`
	VarianceItemCode string                    `json:"varianceItemCode"`
	ItemName         string                    `json:"itemName"`
	Category         string                    `json:"category"`
	UOM              string                    `json:"uom"`
	Branches         map[string]BranchStateDTO `json:"branches"`
	Version          int                       `json:"version"`
}

// ToBranchwiseItemResponse converts the domain item
func ToBranchwiseItemResponse(b *registry.BranchwiseItem) BranchwiseItemResponse {
	branches := make(map[string]BranchStateDTO, len(b.Branches))
	for alias, s := range b.Branches {
		branches[alias] = BranchStateDTO(s)
	}
	return BranchwiseItemResponse{
		ID:               b.ID,
		VarianceName:     b.VarianceName,
		VarianceItemCode: b.VarianceItemCode,
		ItemName:         b.ItemName,
		Category:         b.Category,
		UOM:              b.UOM,
		Branches:         branches,
		Version:          b.Version,
	}
}

// ExportRow is the legacy flat projection: item fields plus sparse
// Price_<ALIAS>/physicalStock_<ALIAS>/systemStock_<ALIAS>/orderType_<ALIAS>_<TYPE> keys
type ExportRow map[string]any

// =============================================================================
// Employee DTOs
// =============================================================================

// CreateEmployeeRequest creates an employee
type CreateEmployeeRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"max=100"`
	Position    string `json:"position" binding:"max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"max=50"`
	BranchName  string `json:"branchName" binding:"max=200"`
}

// UpdateEmployeeRequest updates an employee
type UpdateEmployeeRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" binding:"omitempty,max=100"`
	Position    *string `json:"position" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=50"`
	BranchName  *string `json:"branchName" binding:"omitempty,max=200"`
}

// EmployeeResponse is an employee on the wire
type EmployeeResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Position    string    `json:"position"`
	PhoneNumber string    `json:"phoneNumber"`
	BranchName  string    `json:"branchName"`
}

// ToEmployeeResponse converts the domain employee
func ToEmployeeResponse(e *registry.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Position:    e.Position,
		PhoneNumber: e.PhoneNumber,
		BranchName:  e.BranchName,
	}
}

// ListFilter is the common query of the registry list endpoints
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
