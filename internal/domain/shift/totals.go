package shift

import (
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ModeTotals are amounts per payment mode
type ModeTotals struct {
	Cash  decimal.Decimal `json:"cash"`
	Card  decimal.Decimal `json:"card"`
	UPI   decimal.Decimal `json:"upi"`
	Other decimal.Decimal `json:"other"`
}

// ZeroModeTotals returns totals with every mode at zero
func ZeroModeTotals() ModeTotals {
	return ModeTotals{Cash: decimal.Zero, Card: decimal.Zero, UPI: decimal.Zero, Other: decimal.Zero}
}

// Total sums every mode
func (m ModeTotals) Total() decimal.Decimal {
	return m.Cash.Add(m.Card).Add(m.UPI).Add(m.Other)
}

// Add returns the mode-wise sum
func (m ModeTotals) Add(o ModeTotals) ModeTotals {
	return ModeTotals{
		Cash:  m.Cash.Add(o.Cash),
		Card:  m.Card.Add(o.Card),
		UPI:   m.UPI.Add(o.UPI),
		Other: m.Other.Add(o.Other),
	}
}

// Sub returns the mode-wise difference m - o
func (m ModeTotals) Sub(o ModeTotals) ModeTotals {
	return ModeTotals{
		Cash:  m.Cash.Sub(o.Cash),
		Card:  m.Card.Sub(o.Card),
		UPI:   m.UPI.Sub(o.UPI),
		Other: m.Other.Sub(o.Other),
	}
}

func (m *ModeTotals) credit(mode string, amount decimal.Decimal) {
	switch mode {
	case sales.ModeCash:
		m.Cash = m.Cash.Add(amount)
	case sales.ModeCard:
		m.Card = m.Card.Add(amount)
	case sales.ModeUPI:
		m.UPI = m.UPI.Add(amount)
	default:
		m.Other = m.Other.Add(amount)
	}
}

// SystemTotals is what the books say a shift took, overall and per sales type
type SystemTotals struct {
	Modes     ModeTotals `json:"modes"`
	KOT       ModeTotals `json:"kot"`
	TakeAway  ModeTotals `json:"takeAway"`
	SaleOrder ModeTotals `json:"saleOrder"`
	BDCake    ModeTotals `json:"bdCake"`
	Other     ModeTotals `json:"other"`
}

// ZeroSystemTotals returns totals with every bucket at zero
func ZeroSystemTotals() SystemTotals {
	z := ZeroModeTotals()
	return SystemTotals{Modes: z, KOT: z, TakeAway: z, SaleOrder: z, BDCake: z, Other: z}
}

// Add returns the bucket-wise sum
func (s SystemTotals) Add(o SystemTotals) SystemTotals {
	return SystemTotals{
		Modes:     s.Modes.Add(o.Modes),
		KOT:       s.KOT.Add(o.KOT),
		TakeAway:  s.TakeAway.Add(o.TakeAway),
		SaleOrder: s.SaleOrder.Add(o.SaleOrder),
		BDCake:    s.BDCake.Add(o.BDCake),
		Other:     s.Other.Add(o.Other),
	}
}

func (s *SystemTotals) bucket(salesType string) *ModeTotals {
	switch sales.NormalizeSalesType(salesType) {
	case sales.SalesTypeKOT:
		return &s.KOT
	case sales.SalesTypeTakeAway:
		return &s.TakeAway
	case sales.SalesTypeSaleOrder:
		return &s.SaleOrder
	case sales.SalesTypeBDCake:
		return &s.BDCake
	}
	return &s.Other
}

var modes = []string{sales.ModeCash, sales.ModeCard, sales.ModeUPI, sales.ModeOther}

// ComputeSystemTotals aggregates the invoices and sale order advances taken in
// shiftID. The result depends only on its inputs.
func ComputeSystemTotals(shiftID string, invoices []sales.Invoice, orders []sales.SaleOrder) SystemTotals {
	t := ZeroSystemTotals()
	for i := range invoices {
		inv := &invoices[i]
		if inv.ShiftID != shiftID {
			continue
		}
		b := t.bucket(inv.SalesType)
		for _, mode := range modes {
			amt := inv.ModeAmount(mode)
			if amt.IsZero() {
				continue
			}
			t.Modes.credit(mode, amt)
			b.credit(mode, amt)
		}
	}
	for _, o := range orders {
		for _, adv := range o.Advances {
			if adv.ShiftID != shiftID {
				continue
			}
			for j, label := range adv.Modes {
				if j >= len(adv.Amounts) {
					break
				}
				mode := sales.NormalizeMode(label)
				t.Modes.credit(mode, adv.Amounts[j])
				t.SaleOrder.credit(mode, adv.Amounts[j])
			}
		}
	}
	return t
}

// Difference types
const (
	DifferenceExcess   = "excess"
	DifferenceShortage = "shortage"
	DifferenceNone     = "no difference"
)

// DifferenceType classifies a manual - system difference by sign
func DifferenceType(diff decimal.Decimal) string {
	switch diff.Sign() {
	case 1:
		return DifferenceExcess
	case -1:
		return DifferenceShortage
	}
	return DifferenceNone
}
