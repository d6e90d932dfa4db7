package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MeasurementType says whether an item is stocked by count or by weight
type MeasurementType string

const (
	MeasurementCount  MeasurementType = "count"
	MeasurementWeight MeasurementType = "weight"
)

// ParseMeasurementType normalizes a wire value. Unknown values yield "", false.
func ParseMeasurementType(s string) (MeasurementType, bool) {
	switch MeasurementType(strings.ToLower(strings.TrimSpace(s))) {
	case MeasurementCount:
		return MeasurementCount, true
	case MeasurementWeight:
		return MeasurementWeight, true
	}
	return "", false
}

// ErrNegativeQuantity is returned when a line carries a negative amount
var ErrNegativeQuantity = errors.New("quantity cannot be negative")

// Quantity is the amount on one line: either a count or a weight, never both.
// It is immutable - all operations return new Quantity instances
type Quantity struct {
	kind   MeasurementType
	amount decimal.Decimal
}

// Count creates a count quantity
func Count(amount decimal.Decimal) Quantity {
	return Quantity{kind: MeasurementCount, amount: amount}
}

// Weight creates a weight quantity
func Weight(amount decimal.Decimal) Quantity {
	return Quantity{kind: MeasurementWeight, amount: amount}
}

// Of creates a quantity of the given kind
func Of(kind MeasurementType, amount decimal.Decimal) Quantity {
	return Quantity{kind: kind, amount: amount}
}

// Kind returns the measurement type
func (q Quantity) Kind() MeasurementType {
	return q.kind
}

// Amount returns the decimal value
func (q Quantity) Amount() decimal.Decimal {
	return q.amount
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.amount.IsZero()
}

// Qty returns the count projection (zero for weight lines)
func (q Quantity) Qty() decimal.Decimal {
	if q.kind == MeasurementWeight {
		return decimal.Zero
	}
	return q.amount
}

// WeightValue returns the weight projection (zero for count lines)
func (q Quantity) WeightValue() decimal.Decimal {
	if q.kind == MeasurementWeight {
		return q.amount
	}
	return decimal.Zero
}

// String renders the quantity for logs
func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.amount.String(), q.kind)
}

// Normalize folds parallel qty/weight arrays into quantities.
// The result has max(len(qty), len(weight)) entries; a missing position reads as zero.
// A positive qty wins and the weight at that position is dropped.
func Normalize(qty, weight []decimal.Decimal) ([]Quantity, error) {
	n := len(qty)
	if len(weight) > n {
		n = len(weight)
	}
	out := make([]Quantity, n)
	for i := 0; i < n; i++ {
		q, w := at(qty, i), at(weight, i)
		if q.IsNegative() || w.IsNegative() {
			return nil, fmt.Errorf("line %d: %w", i, ErrNegativeQuantity)
		}
		switch {
		case q.IsPositive():
			out[i] = Count(q)
		case w.IsPositive():
			out[i] = Weight(w)
		default:
			out[i] = Count(decimal.Zero)
		}
	}
	return out, nil
}

// Split projects quantities back onto parallel qty/weight arrays
func Split(qs []Quantity) (qty, weight []decimal.Decimal) {
	qty = make([]decimal.Decimal, len(qs))
	weight = make([]decimal.Decimal, len(qs))
	for i, q := range qs {
		qty[i] = q.Qty()
		weight[i] = q.WeightValue()
	}
	return qty, weight
}

func at(values []decimal.Decimal, i int) decimal.Decimal {
	if i < len(values) {
		return values[i]
	}
	return decimal.Zero
}
