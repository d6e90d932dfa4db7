package shift

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDayEndResponse_FlatTotals(t *testing.T) {
	system := shift.ZeroSystemTotals()
	system.Modes.Cash = dec(100)
	system.KOT.Cash = dec(100)
	system.BDCake.UPI = dec(30)
	manual := shift.ZeroModeTotals()
	manual.Cash = dec(90)

	d := &shift.DayEnd{
		BranchName:      "North",
		LocalDate:       "16-10-2026",
		ClosingDateTime: time.Now(),
		System:          system,
		Manual:          manual,
		Differences:     manual.Sub(system.Modes),
	}

	raw, err := json.Marshal(ToDayEndResponse(d))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	for key, want := range map[string]string{
		"systemCashSales":   "100",
		"kotCashSales":      "100",
		"bdCakeUpiSales":    "30",
		"manualCashSales":   "90",
		"cashDifference":    "-10",
		"otherOtherSales":   "0",
		"saleOrderUpiSales": "0",
	} {
		assert.Equal(t, want, body[key], key)
	}
	assert.NotContains(t, body, "system")
	assert.NotContains(t, body, "manual")
	assert.True(t, ToDayEndResponse(d).SystemSales().Equal(decimal.NewFromInt(100)))
}
