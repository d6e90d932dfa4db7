package production

import (
	"context"
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a production entry
type Status string

const (
	StatusActive   Status = "active"
	StatusDeactive Status = "deactive"
)

// TypeSaleOrder marks entries produced for a sale order
const TypeSaleOrder = "sale order"

// FormatNumber renders a production entry number such as PE0001
func FormatNumber(seq int64) string {
	return sequence.Format("PE", seq, 4)
}

// Line is one produced variance
type Line struct {
	ItemCode        string                      `json:"itemCode"`
	ItemName        string                      `json:"itemName"`
	VarianceName    string                      `json:"varianceName"`
	MeasurementType valueobject.MeasurementType `json:"measurementType"`
	UOM             string                      `json:"uom"`
	Qty             decimal.Decimal             `json:"qty"`
	Weight          decimal.Decimal             `json:"weight"`
	Remarks         string                      `json:"remarks,omitempty"`
}

// StockDelta returns the amount this line puts into warehouse stock.
// Lines with an unknown measurement type do not touch stock.
func (l Line) StockDelta() (decimal.Decimal, bool) {
	switch l.MeasurementType {
	case valueobject.MeasurementCount:
		return l.Qty, true
	case valueobject.MeasurementWeight:
		return l.Weight, true
	}
	return decimal.Zero, false
}

// StockChange is one warehouse movement caused by a production entry mutation
type StockChange struct {
	ItemCode string
	Delta    decimal.Decimal
}

// Entry records goods produced into a warehouse
type Entry struct {
	shared.BaseAggregateRoot
	ProductionEntryNumber string
	WarehouseName         string
	Type                  string
	SaleOrderNo           string
	CreatedBy             string
	Date                  time.Time
	Lines                 []Line
	CancelledLines        []Line
	Status                Status
}

// NewEntry creates an active production entry
func NewEntry(warehouseName string, lines []Line) (*Entry, error) {
	if strings.TrimSpace(warehouseName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "warehouseName is required")
	}
	if len(lines) == 0 {
		return nil, shared.Newf(shared.ErrInvalidInput, "at least one item is required")
	}
	for i, l := range lines {
		if strings.TrimSpace(l.ItemCode) == "" {
			return nil, shared.Newf(shared.ErrInvalidInput, "itemCode[%d] is required", i)
		}
		if l.Qty.IsNegative() || l.Weight.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "line %d has a negative amount", i)
		}
	}
	return &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseName:     strings.TrimSpace(warehouseName),
		Date:              time.Now().UTC(),
		Lines:             lines,
		CancelledLines:    make([]Line, 0),
		Status:            StatusActive,
	}, nil
}

// AssignNumber sets the production entry number
func (e *Entry) AssignNumber(seq int64) {
	e.ProductionEntryNumber = FormatNumber(seq)
}

// Credits returns the stock changes that creating the entry causes
func (e *Entry) Credits() []StockChange {
	out := make([]StockChange, 0, len(e.Lines))
	for _, l := range e.Lines {
		if d, ok := l.StockDelta(); ok && !d.IsZero() {
			out = append(out, StockChange{ItemCode: l.ItemCode, Delta: d})
		}
	}
	return out
}

func (e *Entry) ensureActive() error {
	if e.Status != StatusActive {
		return shared.Newf(shared.ErrInvalidState, "production entry %s is %s", e.ProductionEntryNumber, e.Status)
	}
	return nil
}

// RemoveItem moves the line for itemCode to the cancelled list and returns the
// stock change to apply. Removing the last active line deactivates the entry.
func (e *Entry) RemoveItem(itemCode string) ([]StockChange, error) {
	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	idx := -1
	for i, l := range e.Lines {
		if l.ItemCode == itemCode {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, shared.Newf(shared.ErrNotFound, "item %s is not on production entry %s", itemCode, e.ProductionEntryNumber)
	}
	line := e.Lines[idx]
	e.Lines = append(e.Lines[:idx:idx], e.Lines[idx+1:]...)
	e.CancelledLines = append(e.CancelledLines, line)
	if len(e.Lines) == 0 {
		e.Status = StatusDeactive
	}
	e.Touch()
	e.IncrementVersion()

	var changes []StockChange
	if d, ok := line.StockDelta(); ok && !d.IsZero() {
		changes = append(changes, StockChange{ItemCode: line.ItemCode, Delta: d.Neg()})
	}
	return changes, nil
}

// Deactivate cancels every active line and returns the reversing stock changes
func (e *Entry) Deactivate() ([]StockChange, error) {
	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	changes := make([]StockChange, 0, len(e.Lines))
	for _, c := range e.Credits() {
		changes = append(changes, StockChange{ItemCode: c.ItemCode, Delta: c.Delta.Neg()})
	}
	e.CancelledLines = append(e.CancelledLines, e.Lines...)
	e.Lines = make([]Line, 0)
	e.Status = StatusDeactive
	e.Touch()
	e.IncrementVersion()
	return changes, nil
}

// LineEdit sets new amounts for the active line with ItemCode
type LineEdit struct {
	ItemCode string
	Qty      decimal.Decimal
	Weight   decimal.Decimal
}

// EditQuantities applies new amounts and returns diff = new - old per touched line
func (e *Entry) EditQuantities(edits []LineEdit) ([]StockChange, error) {
	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(e.Lines))
	for i, l := range e.Lines {
		idx[l.ItemCode] = i
	}
	for _, ed := range edits {
		if _, ok := idx[ed.ItemCode]; !ok {
			return nil, shared.Newf(shared.ErrNotFound, "item %s is not on production entry %s", ed.ItemCode, e.ProductionEntryNumber)
		}
		if ed.Qty.IsNegative() || ed.Weight.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "item %s has a negative amount", ed.ItemCode)
		}
	}

	var changes []StockChange
	for _, ed := range edits {
		l := &e.Lines[idx[ed.ItemCode]]
		before, tracked := l.StockDelta()
		l.Qty, l.Weight = ed.Qty, ed.Weight
		if !tracked {
			continue
		}
		after, _ := l.StockDelta()
		if diff := after.Sub(before); !diff.IsZero() {
			changes = append(changes, StockChange{ItemCode: l.ItemCode, Delta: diff})
		}
	}
	if len(changes) == 0 && len(edits) == 0 {
		return nil, shared.Newf(shared.ErrNoChange, "no lines to edit")
	}
	e.Touch()
	e.IncrementVersion()
	return changes, nil
}

// Filter narrows a production entry listing
type Filter struct {
	shared.Filter
	WarehouseName string
	Status        Status
	Date          shared.DateRange
}

// Repository defines the interface for production entry persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindAll(ctx context.Context, filter Filter) ([]Entry, int64, error)
	Save(ctx context.Context, e *Entry) error
	SaveWithLock(ctx context.Context, e *Entry) error
}
