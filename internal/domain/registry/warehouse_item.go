package registry

import (
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// WarehouseStock is the stock of one warehouse item held in one warehouse
type WarehouseStock struct {
	WarehouseName string          `json:"warehouseName"`
	Stock         decimal.Decimal `json:"stock"`
}

// WarehouseItem is the central master of a stockable variance.
// SystemStock holds at most one entry per warehouse name (compared with FoldName)
// and no entry is ever negative.
type WarehouseItem struct {
	shared.BaseAggregateRoot
	VarianceItemCode string
	VarianceName     string
	ItemName         string
	Category         string
	UOM              string
	MeasurementType  valueobject.MeasurementType
	Price            decimal.Decimal
	SystemStock      []WarehouseStock
}

// NewWarehouseItem creates a warehouse item with no stock
func NewWarehouseItem(code, varianceName, itemName string, mt valueobject.MeasurementType) (*WarehouseItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "varianceItemCode is required")
	}
	if strings.TrimSpace(varianceName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "varianceName is required")
	}
	if mt == "" {
		mt = valueobject.MeasurementCount
	}
	return &WarehouseItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VarianceItemCode:  code,
		VarianceName:      strings.TrimSpace(varianceName),
		ItemName:          strings.TrimSpace(itemName),
		MeasurementType:   mt,
		SystemStock:       make([]WarehouseStock, 0),
	}, nil
}

func (w *WarehouseItem) indexOf(warehouseName string) int {
	key := FoldName(warehouseName)
	for i, s := range w.SystemStock {
		if FoldName(s.WarehouseName) == key {
			return i
		}
	}
	return -1
}

// StockIn returns the stock held in the named warehouse and whether an entry exists
func (w *WarehouseItem) StockIn(warehouseName string) (decimal.Decimal, bool) {
	if i := w.indexOf(warehouseName); i >= 0 {
		return w.SystemStock[i].Stock, true
	}
	return decimal.Zero, false
}

// Adjust applies delta to the stock held in warehouseName and returns the new level.
// A missing entry is created only for a positive delta. A result below zero is
// rejected and leaves the item untouched. A zero delta changes nothing.
func (w *WarehouseItem) Adjust(warehouseName string, delta decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(warehouseName) == "" {
		return decimal.Zero, shared.Newf(shared.ErrInvalidInput, "warehouseName is required")
	}
	i := w.indexOf(warehouseName)
	if delta.IsZero() {
		if i < 0 {
			return decimal.Zero, nil
		}
		return w.SystemStock[i].Stock, nil
	}
	if i < 0 {
		if delta.IsNegative() {
			return decimal.Zero, shared.Newf(shared.ErrDependencyMissing,
				"item %s has no stock entry for warehouse %q", w.VarianceItemCode, warehouseName)
		}
		w.SystemStock = append(w.SystemStock, WarehouseStock{WarehouseName: strings.TrimSpace(warehouseName), Stock: decimal.Zero})
		i = len(w.SystemStock) - 1
	}

	next := w.SystemStock[i].Stock.Add(delta)
	if next.IsNegative() {
		return w.SystemStock[i].Stock, shared.Newf(shared.ErrConsistencyViolation,
			"stock of %s in %q would become %s", w.VarianceItemCode, w.SystemStock[i].WarehouseName, next.String())
	}
	w.SystemStock[i].Stock = next
	w.Touch()
	w.IncrementVersion()
	return next, nil
}

// Clone returns a deep copy used by retry loops that reload and reapply a change
func (w *WarehouseItem) Clone() *WarehouseItem {
	c := *w
	c.SystemStock = append([]WarehouseStock(nil), w.SystemStock...)
	return &c
}
