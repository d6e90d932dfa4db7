package production

import (
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func newEntry(t *testing.T) *Entry {
	t.Helper()
	e, err := NewEntry("Main", []Line{
		{ItemCode: "FG001", MeasurementType: valueobject.MeasurementCount, Qty: dec(10), Weight: dec(3)},
		{ItemCode: "FG002", MeasurementType: valueobject.MeasurementWeight, Qty: dec(1), Weight: dec(2.5)},
		{ItemCode: "FG003", MeasurementType: "litre", Qty: dec(4)},
	})
	require.NoError(t, err)
	e.AssignNumber(1)
	return e
}

func sum(changes []StockChange) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, c := range changes {
		out[c.ItemCode] = out[c.ItemCode].Add(c.Delta)
	}
	return out
}

func TestCreditsByMeasurementType(t *testing.T) {
	e := newEntry(t)
	assert.Equal(t, "PE0001", e.ProductionEntryNumber)

	credits := sum(e.Credits())
	require.Len(t, credits, 2)
	assert.True(t, credits["FG001"].Equal(dec(10)))
	assert.True(t, credits["FG002"].Equal(dec(2.5)))
	_, ok := credits["FG003"]
	assert.False(t, ok, "unknown measurement type is skipped")
}

func TestRemoveItem(t *testing.T) {
	e := newEntry(t)

	changes, err := e.RemoveItem("FG001")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Delta.Equal(dec(-10)))
	assert.Len(t, e.Lines, 2)
	require.Len(t, e.CancelledLines, 1)
	assert.Equal(t, "FG001", e.CancelledLines[0].ItemCode)
	assert.Equal(t, StatusActive, e.Status)

	_, err = e.RemoveItem("FG001")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = e.RemoveItem("FG002")
	require.NoError(t, err)
	changes, err = e.RemoveItem("FG003")
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, StatusDeactive, e.Status)
}

func TestDeactivateReversesCredits(t *testing.T) {
	e := newEntry(t)
	credits := sum(e.Credits())

	changes, err := e.Deactivate()
	require.NoError(t, err)
	reversal := sum(changes)
	for code, v := range credits {
		assert.True(t, v.Add(reversal[code]).IsZero(), code)
	}
	assert.Equal(t, StatusDeactive, e.Status)
	assert.Empty(t, e.Lines)
	assert.Len(t, e.CancelledLines, 3)

	_, err = e.Deactivate()
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestEditQuantities(t *testing.T) {
	e := newEntry(t)

	changes, err := e.EditQuantities([]LineEdit{
		{ItemCode: "FG001", Qty: dec(7)},
		{ItemCode: "FG002", Weight: dec(4)},
	})
	require.NoError(t, err)
	got := sum(changes)
	assert.True(t, got["FG001"].Equal(dec(-3)))
	assert.True(t, got["FG002"].Equal(dec(1.5)))

	_, err = e.EditQuantities([]LineEdit{{ItemCode: "NOPE", Qty: dec(1)}})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = e.EditQuantities([]LineEdit{{ItemCode: "FG001", Qty: dec(-1)}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewEntryValidation(t *testing.T) {
	_, err := NewEntry("", []Line{{ItemCode: "FG001"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewEntry("Main", nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
