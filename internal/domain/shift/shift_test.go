package shift

import (
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func kotInvoice(t *testing.T, shiftID string) sales.Invoice {
	t.Helper()
	inv, err := sales.NewInvoice("North", shiftID, "kot", []string{"cash", "upi"}, dec(150))
	require.NoError(t, err)
	inv.Cash, inv.UPI = dec(100), dec(50)
	return *inv
}

func advanceOrder(shiftID string) sales.SaleOrder {
	return sales.SaleOrder{
		Advances: []sales.AdvancePayment{
			{ShiftID: shiftID, Modes: []string{"card"}, Amounts: []decimal.Decimal{dec(75)}},
			{ShiftID: "another", Modes: []string{"cash"}, Amounts: []decimal.Decimal{dec(999)}},
		},
	}
}

func TestComputeSystemTotals(t *testing.T) {
	invoices := []sales.Invoice{kotInvoice(t, "S1"), kotInvoice(t, "S2")}
	orders := []sales.SaleOrder{advanceOrder("S1")}

	got := ComputeSystemTotals("S1", invoices, orders)
	assert.True(t, got.Modes.Cash.Equal(dec(100)))
	assert.True(t, got.Modes.Card.Equal(dec(75)))
	assert.True(t, got.Modes.UPI.Equal(dec(50)))
	assert.True(t, got.Modes.Other.IsZero())
	assert.True(t, got.KOT.Cash.Equal(dec(100)))
	assert.True(t, got.KOT.UPI.Equal(dec(50)))
	assert.True(t, got.SaleOrder.Card.Equal(dec(75)))

	again := ComputeSystemTotals("S1", invoices, orders)
	assert.Equal(t, got, again)
}

func TestComputeSystemTotalsOtherResidual(t *testing.T) {
	inv, err := sales.NewInvoice("North", "S1", "takeAway", []string{"cash", "other"}, dec(300))
	require.NoError(t, err)
	inv.Cash = dec(120)

	got := ComputeSystemTotals("S1", []sales.Invoice{*inv}, nil)
	assert.True(t, got.Modes.Other.Equal(dec(180)))
	assert.True(t, got.TakeAway.Other.Equal(dec(180)))
	assert.True(t, got.TakeAway.Cash.Equal(dec(120)))
}

func TestShiftClose(t *testing.T) {
	s, err := Open("North", 1, dec(500), "cashier", time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, s.Status)
	assert.Equal(t, StatusOpen, s.DayEndStatus)

	system := ComputeSystemTotals("S1", []sales.Invoice{kotInvoice(t, "S1")}, []sales.SaleOrder{advanceOrder("S1")})
	manual := ModeTotals{Cash: dec(100), Card: dec(75), UPI: dec(50), Other: decimal.Zero}

	require.NoError(t, s.Close(system, manual, dec(600), "cashier", time.Now()))
	assert.Equal(t, StatusClosed, s.Status)
	assert.Equal(t, StatusOpen, s.DayEndStatus)
	assert.True(t, s.TotalDifference.IsZero())
	assert.Equal(t, DifferenceNone, s.DifferenceType)
	require.NotNil(t, s.ClosingDateTime)

	err = s.Close(system, manual, dec(600), "cashier", time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestDifferenceType(t *testing.T) {
	assert.Equal(t, DifferenceExcess, DifferenceType(dec(5)))
	assert.Equal(t, DifferenceShortage, DifferenceType(dec(-5)))
	assert.Equal(t, DifferenceNone, DifferenceType(decimal.Zero))
}

func TestReconcileShortage(t *testing.T) {
	s, err := Open("North", 1, decimal.Zero, "", time.Now())
	require.NoError(t, err)
	system := ZeroSystemTotals()
	system.Modes.Cash = dec(100)
	s.Reconcile(system, ModeTotals{Cash: dec(90), Card: decimal.Zero, UPI: decimal.Zero, Other: decimal.Zero})
	assert.True(t, s.Differences.Cash.Equal(dec(-10)))
	assert.Equal(t, DifferenceShortage, s.DifferenceType)
}

func TestNewDayEnd(t *testing.T) {
	early := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	a, err := Open("North", 1, decimal.Zero, "", early)
	require.NoError(t, err)
	b, err := Open("North", 2, decimal.Zero, "", early.Add(4*time.Hour))
	require.NoError(t, err)
	a.System.Modes.Cash = dec(10)
	b.System.Modes.Cash = dec(15)
	a.Manual.Cash = dec(10)
	b.Manual.Cash = dec(20)

	d, err := NewDayEnd("North", []Shift{*b, *a}, early.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, early, d.OpeningDateTime)
	assert.True(t, d.System.Modes.Cash.Equal(dec(25)))
	assert.True(t, d.TotalDifference.Equal(dec(5)))
	assert.Equal(t, DifferenceExcess, d.DifferenceType)
	assert.Len(t, d.ShiftIDs, 2)

	_, err = NewDayEnd("North", nil, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCloseDayEnd(t *testing.T) {
	s, err := Open("North", 1, decimal.Zero, "", time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, s.CloseDayEnd(), shared.ErrInvalidState)

	require.NoError(t, s.Close(ZeroSystemTotals(), ZeroModeTotals(), decimal.Zero, "", time.Now()))
	require.NoError(t, s.CloseDayEnd())
	assert.Equal(t, StatusClosed, s.DayEndStatus)
	assert.ErrorIs(t, s.CloseDayEnd(), shared.ErrNoChange)
}

func TestCategoryResult(t *testing.T) {
	assert.Equal(t, CategoryResult{Status: ValidationSuccess}, NewCategoryResult(0))
	assert.Equal(t, CategoryResult{Status: ValidationFailed, Pendings: 3}, NewCategoryResult(3))

	v := DayEndValidation{
		Categories:  map[string]CategoryResult{CategoryDispatch: NewCategoryResult(0)},
		ShiftStatus: NewCategoryResult(0),
	}
	assert.True(t, v.Passed())
	v.Categories[CategoryItemTransfer] = NewCategoryResult(1)
	assert.False(t, v.Passed())
}
