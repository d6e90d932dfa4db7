package shift

import (
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenShiftRequest is the body of POST /shift
type OpenShiftRequest struct {
	BranchName     string          `json:"branchName" binding:"required,max=200"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	OpenedBy       string          `json:"openedBy" binding:"max=100"`
}

// CloseShiftRequest carries the amounts counted by the operator
type CloseShiftRequest struct {
	ManualCash     decimal.Decimal `json:"manualCashSales"`
	ManualCard     decimal.Decimal `json:"manualCardSales"`
	ManualUPI      decimal.Decimal `json:"manualUpiSales"`
	ManualOther    decimal.Decimal `json:"manualOtherSales"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	ClosedBy       string          `json:"closedBy" binding:"max=100"`
}

func (r CloseShiftRequest) manual() shift.ModeTotals {
	return shift.ModeTotals{Cash: r.ManualCash, Card: r.ManualCard, UPI: r.ManualUPI, Other: r.ManualOther}
}

// ListFilter is the query of GET /shift
type ListFilter struct {
	BranchName string `form:"branchName"`
	Date       string `form:"date" binding:"omitempty,dmy"`
	Status     string `form:"status" binding:"omitempty,oneof=open closed"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Totals is the flat projection of system, manual and difference amounts
// shared by shifts and day-ends. Field names follow the POS clients.
type Totals struct {
	SystemCashSales  decimal.Decimal `json:"systemCashSales"`
	SystemCardSales  decimal.Decimal `json:"systemCardSales"`
	SystemUpiSales   decimal.Decimal `json:"systemUpiSales"`
	SystemOtherSales decimal.Decimal `json:"systemOtherSales"`

	KotCashSales  decimal.Decimal `json:"kotCashSales"`
	KotCardSales  decimal.Decimal `json:"kotCardSales"`
	KotUpiSales   decimal.Decimal `json:"kotUpiSales"`
	KotOtherSales decimal.Decimal `json:"kotOtherSales"`

	TakeAwayCashSales  decimal.Decimal `json:"takeAwayCashSales"`
	TakeAwayCardSales  decimal.Decimal `json:"takeAwayCardSales"`
	TakeAwayUpiSales   decimal.Decimal `json:"takeAwayUpiSales"`
	TakeAwayOtherSales decimal.Decimal `json:"takeAwayOtherSales"`

	SaleOrderCashSales  decimal.Decimal `json:"saleOrderCashSales"`
	SaleOrderCardSales  decimal.Decimal `json:"saleOrderCardSales"`
	SaleOrderUpiSales   decimal.Decimal `json:"saleOrderUpiSales"`
	SaleOrderOtherSales decimal.Decimal `json:"saleOrderOtherSales"`

	BdCakeCashSales  decimal.Decimal `json:"bdCakeCashSales"`
	BdCakeCardSales  decimal.Decimal `json:"bdCakeCardSales"`
	BdCakeUpiSales   decimal.Decimal `json:"bdCakeUpiSales"`
	BdCakeOtherSales decimal.Decimal `json:"bdCakeOtherSales"`

	OtherCashSales  decimal.Decimal `json:"otherCashSales"`
	OtherCardSales  decimal.Decimal `json:"otherCardSales"`
	OtherUpiSales   decimal.Decimal `json:"otherUpiSales"`
	OtherOtherSales decimal.Decimal `json:"otherOtherSales"`

	ManualCashSales  decimal.Decimal `json:"manualCashSales"`
	ManualCardSales  decimal.Decimal `json:"manualCardSales"`
	ManualUpiSales   decimal.Decimal `json:"manualUpiSales"`
	ManualOtherSales decimal.Decimal `json:"manualOtherSales"`

	CashDifference  decimal.Decimal `json:"cashDifference"`
	CardDifference  decimal.Decimal `json:"cardDifference"`
	UpiDifference   decimal.Decimal `json:"upiDifference"`
	OtherDifference decimal.Decimal `json:"otherDifference"`
}

func flatten(system shift.SystemTotals, manual, diff shift.ModeTotals) Totals {
	return Totals{
		SystemCashSales:  system.Modes.Cash,
		SystemCardSales:  system.Modes.Card,
		SystemUpiSales:   system.Modes.UPI,
		SystemOtherSales: system.Modes.Other,

		KotCashSales:  system.KOT.Cash,
		KotCardSales:  system.KOT.Card,
		KotUpiSales:   system.KOT.UPI,
		KotOtherSales: system.KOT.Other,

		TakeAwayCashSales:  system.TakeAway.Cash,
		TakeAwayCardSales:  system.TakeAway.Card,
		TakeAwayUpiSales:   system.TakeAway.UPI,
		TakeAwayOtherSales: system.TakeAway.Other,

		SaleOrderCashSales:  system.SaleOrder.Cash,
		SaleOrderCardSales:  system.SaleOrder.Card,
		SaleOrderUpiSales:   system.SaleOrder.UPI,
		SaleOrderOtherSales: system.SaleOrder.Other,

		BdCakeCashSales:  system.BDCake.Cash,
		BdCakeCardSales:  system.BDCake.Card,
		BdCakeUpiSales:   system.BDCake.UPI,
		BdCakeOtherSales: system.BDCake.Other,

		OtherCashSales:  system.Other.Cash,
		OtherCardSales:  system.Other.Card,
		OtherUpiSales:   system.Other.UPI,
		OtherOtherSales: system.Other.Other,

		ManualCashSales:  manual.Cash,
		ManualCardSales:  manual.Card,
		ManualUpiSales:   manual.UPI,
		ManualOtherSales: manual.Other,

		CashDifference:  diff.Cash,
		CardDifference:  diff.Card,
		UpiDifference:   diff.UPI,
		OtherDifference: diff.Other,
	}
}

// SystemSales sums the per-mode system totals
func (t Totals) SystemSales() decimal.Decimal {
	return t.SystemCashSales.Add(t.SystemCardSales).Add(t.SystemUpiSales).Add(t.SystemOtherSales)
}

// ShiftResponse is a shift on the wire
type ShiftResponse struct {
	ID              uuid.UUID       `json:"id"`
	BranchName      string          `json:"branchName"`
	ShiftNumber     int             `json:"shiftNumber"`
	LocalDate       string          `json:"localDate"`
	OpenedBy        string          `json:"openedBy"`
	ClosedBy        string          `json:"closedBy,omitempty"`
	OpeningDateTime time.Time       `json:"openingDateTime"`
	ClosingDateTime *time.Time      `json:"closingDateTime,omitempty"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
	Totals
	TotalDifference decimal.Decimal `json:"totalDifference"`
	DifferenceType  string          `json:"differenceType"`
	Status          string          `json:"status"`
	DayEndStatus    string          `json:"dayEndStatus"`
	Version         int             `json:"version"`
}

// ToShiftResponse converts the domain shift
func ToShiftResponse(s *shift.Shift) ShiftResponse {
	return ShiftResponse{
		ID:              s.ID,
		BranchName:      s.BranchName,
		ShiftNumber:     s.ShiftNumber,
		LocalDate:       s.LocalDate,
		OpenedBy:        s.OpenedBy,
		ClosedBy:        s.ClosedBy,
		OpeningDateTime: s.OpeningDateTime,
		ClosingDateTime: s.ClosingDateTime,
		OpeningBalance:  s.OpeningBalance,
		ClosingBalance:  s.ClosingBalance,
		Totals:          flatten(s.System, s.Manual, s.Differences),
		TotalDifference: s.TotalDifference,
		DifferenceType:  s.DifferenceType,
		Status:          string(s.Status),
		DayEndStatus:    string(s.DayEndStatus),
		Version:         s.Version,
	}
}

// DayEndResponse is a day-end snapshot on the wire
type DayEndResponse struct {
	ID              uuid.UUID `json:"id"`
	BranchName      string    `json:"branchName"`
	LocalDate       string    `json:"localDate"`
	OpeningDateTime time.Time `json:"openingDateTime"`
	ClosingDateTime time.Time `json:"closingDateTime"`
	ShiftIDs        []string  `json:"shiftIds"`
	Totals
	TotalDifference decimal.Decimal `json:"totalDifference"`
	DifferenceType  string          `json:"differenceType"`
}

// ToDayEndResponse converts the domain snapshot
func ToDayEndResponse(d *shift.DayEnd) DayEndResponse {
	return DayEndResponse{
		ID:              d.ID,
		BranchName:      d.BranchName,
		LocalDate:       d.LocalDate,
		OpeningDateTime: d.OpeningDateTime,
		ClosingDateTime: d.ClosingDateTime,
		ShiftIDs:        d.ShiftIDs,
		Totals:          flatten(d.System, d.Manual, d.Differences),
		TotalDifference: d.TotalDifference,
		DifferenceType:  d.DifferenceType,
	}
}

// ValidationResponse is a pre-day-end checklist on the wire
type ValidationResponse struct {
	ID          uuid.UUID                       `json:"id"`
	BranchName  string                          `json:"branchName"`
	LocalDate   string                          `json:"localDate"`
	Categories  map[string]shift.CategoryResult `json:"categories"`
	ShiftStatus shift.CategoryResult            `json:"shiftStatus"`
	Passed      bool                            `json:"passed"`
	CreatedAt   time.Time                       `json:"createdAt"`
}

// ToValidationResponse converts the domain checklist
func ToValidationResponse(v *shift.DayEndValidation) ValidationResponse {
	return ValidationResponse{
		ID:          v.ID,
		BranchName:  v.BranchName,
		LocalDate:   v.LocalDate,
		Categories:  v.Categories,
		ShiftStatus: v.ShiftStatus,
		Passed:      v.Passed(),
		CreatedAt:   v.CreatedAt,
	}
}
