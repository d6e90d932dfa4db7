package models

import (
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CounterModel is one named sequence counter
type CounterModel struct {
	Prefix   string `gorm:"type:varchar(64);primaryKey"`
	Sequence int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CounterModel) TableName() string {
	return "counters"
}

// WarehouseItemModel is the persistence model for the WarehouseItem aggregate
type WarehouseItemModel struct {
	AggregateModel
	VarianceItemCode string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	VarianceName     string          `gorm:"type:varchar(200);not null;index"`
	VarianceKey      string          `gorm:"type:varchar(200);not null;index"`
	ItemName         string          `gorm:"type:varchar(200)"`
	Category         string          `gorm:"type:varchar(100);index"`
	UOM              string          `gorm:"column:uom;type:varchar(20)"`
	MeasurementType  string          `gorm:"type:varchar(20);not null;default:'count'"`
	Price            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SystemStockJSON  string          `gorm:"column:system_stock;type:text;default:'[]'"`
}

// TableName returns the table name for GORM
func (WarehouseItemModel) TableName() string {
	return "warehouse_items"
}

// ToDomain converts the persistence model to a domain WarehouseItem
func (m *WarehouseItemModel) ToDomain() *registry.WarehouseItem {
	item := &registry.WarehouseItem{
		BaseAggregateRoot: m.ToAggregateRoot(),
		VarianceItemCode:  m.VarianceItemCode,
		VarianceName:      m.VarianceName,
		ItemName:          m.ItemName,
		Category:          m.Category,
		UOM:               m.UOM,
		MeasurementType:   valueobject.MeasurementType(m.MeasurementType),
		Price:             m.Price,
		SystemStock:       make([]registry.WarehouseStock, 0),
	}
	decodeJSON(m.SystemStockJSON, "system_stock", m.ID, &item.SystemStock)
	return item
}

// FromDomain populates the persistence model from a domain WarehouseItem
func (m *WarehouseItemModel) FromDomain(w *registry.WarehouseItem) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.VarianceItemCode = w.VarianceItemCode
	m.VarianceName = w.VarianceName
	m.VarianceKey = registry.FoldName(w.VarianceName)
	m.ItemName = w.ItemName
	m.Category = w.Category
	m.UOM = w.UOM
	m.MeasurementType = string(w.MeasurementType)
	m.Price = w.Price
	stock := w.SystemStock
	if stock == nil {
		stock = []registry.WarehouseStock{}
	}
	m.SystemStockJSON = encodeJSON(stock, "[]")
}

// WarehouseModel is the persistence model for warehouses
type WarehouseModel struct {
	BaseModel
	WarehouseID   string `gorm:"type:varchar(32);not null;uniqueIndex"`
	WarehouseName string `gorm:"type:varchar(200);not null"`
	NameKey       string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Address       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse
func (m *WarehouseModel) ToDomain() *registry.Warehouse {
	return &registry.Warehouse{
		BaseEntity:    m.BaseModel.ToDomain(),
		WarehouseID:   m.WarehouseID,
		WarehouseName: m.WarehouseName,
		Address:       m.Address,
	}
}

// FromDomain populates the persistence model from a domain Warehouse
func (m *WarehouseModel) FromDomain(w *registry.Warehouse) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.WarehouseID = w.WarehouseID
	m.WarehouseName = w.WarehouseName
	m.NameKey = registry.FoldName(w.WarehouseName)
	m.Address = w.Address
}

// BranchModel is the persistence model for branches
type BranchModel struct {
	AggregateModel
	BranchName    string `gorm:"type:varchar(200);not null"`
	NameKey       string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Alias         string `gorm:"type:varchar(16);not null;uniqueIndex"`
	WarehouseName string `gorm:"type:varchar(200)"`
	Address       string `gorm:"type:text"`
	Phone         string `gorm:"type:varchar(32)"`
	Active        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch
func (m *BranchModel) ToDomain() *registry.Branch {
	return &registry.Branch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BranchName:        m.BranchName,
		Alias:             m.Alias,
		WarehouseName:     m.WarehouseName,
		Address:           m.Address,
		Phone:             m.Phone,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Branch
func (m *BranchModel) FromDomain(b *registry.Branch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BranchName = b.BranchName
	m.NameKey = registry.FoldName(b.BranchName)
	m.Alias = b.Alias
	m.WarehouseName = b.WarehouseName
	m.Address = b.Address
	m.Phone = b.Phone
	m.Active = b.Active
}

// BranchwiseItemModel is the persistence model for the BranchwiseItem aggregate
type BranchwiseItemModel struct {
	AggregateModel
	VarianceName     string `gorm:"type:varchar(200);not null"`
	VarianceKey      string `gorm:"type:varchar(200);not null;uniqueIndex"`
	VarianceItemCode string `gorm:"type:varchar(64);index"`
	ItemName         string `gorm:"type:varchar(200)"`
	Category         string `gorm:"type:varchar(100)"`
	UOM              string `gorm:"column:uom;type:varchar(20)"`
	BranchesJSON     string `gorm:"column:branches;type:text;default:'{}'"`
}

// TableName returns the table name for GORM
func (BranchwiseItemModel) TableName() string {
	return "branchwise_items"
}

// ToDomain converts the persistence model to a domain BranchwiseItem
func (m *BranchwiseItemModel) ToDomain() *registry.BranchwiseItem {
	item := &registry.BranchwiseItem{
		BaseAggregateRoot: m.ToAggregateRoot(),
		VarianceName:      m.VarianceName,
		VarianceItemCode:  m.VarianceItemCode,
		ItemName:          m.ItemName,
		Category:          m.Category,
		UOM:               m.UOM,
		Branches:          make(map[string]registry.BranchState),
	}
	decodeJSON(m.BranchesJSON, "branches", m.ID, &item.Branches)
	return item
}

// FromDomain populates the persistence model from a domain BranchwiseItem
func (m *BranchwiseItemModel) FromDomain(b *registry.BranchwiseItem) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.VarianceName = b.VarianceName
	m.VarianceKey = registry.FoldName(b.VarianceName)
	m.VarianceItemCode = b.VarianceItemCode
	m.ItemName = b.ItemName
	m.Category = b.Category
	m.UOM = b.UOM
	branches := b.Branches
	if branches == nil {
		branches = map[string]registry.BranchState{}
	}
	m.BranchesJSON = encodeJSON(branches, "{}")
}

// EmployeeModel is the persistence model for employees
type EmployeeModel struct {
	BaseModel
	FirstName    string `gorm:"type:varchar(100);not null"`
	FirstNameKey string `gorm:"type:varchar(100);not null;index:idx_employee_name_position"`
	LastName     string `gorm:"type:varchar(100)"`
	Position     string `gorm:"type:varchar(100)"`
	PositionKey  string `gorm:"type:varchar(100);index:idx_employee_name_position"`
	PhoneNumber  string `gorm:"type:varchar(32)"`
	BranchName   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *registry.Employee {
	return &registry.Employee{
		BaseEntity:  m.BaseModel.ToDomain(),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Position:    m.Position,
		PhoneNumber: m.PhoneNumber,
		BranchName:  m.BranchName,
	}
}

// FromDomain populates the persistence model from a domain Employee
func (m *EmployeeModel) FromDomain(e *registry.Employee) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.FirstName = e.FirstName
	m.FirstNameKey = registry.FoldName(e.FirstName)
	m.LastName = e.LastName
	m.Position = e.Position
	m.PositionKey = registry.FoldName(e.Position)
	m.PhoneNumber = e.PhoneNumber
	m.BranchName = e.BranchName
}
