package sales

import (
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesType buckets used by shift reconciliation
const (
	SalesTypeKOT       = "kot"
	SalesTypeTakeAway  = "takeAway"
	SalesTypeSaleOrder = "saleOrder"
	SalesTypeBDCake    = "bdCake"
	SalesTypeOther     = "other"
)

// Payment modes
const (
	ModeCash  = "cash"
	ModeCard  = "card"
	ModeUPI   = "upi"
	ModeOther = "other"
)

// NormalizeSalesType maps free-form sales type labels onto a bucket
func NormalizeSalesType(s string) string {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "kot", "dinein":
		return SalesTypeKOT
	case "takeaway", "parcel":
		return SalesTypeTakeAway
	case "saleorder", "salesorder":
		return SalesTypeSaleOrder
	case "bdcake", "birthdaycake":
		return SalesTypeBDCake
	}
	return SalesTypeOther
}

// NormalizeMode maps a payment mode label onto cash, card, upi or other
func NormalizeMode(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ModeCash:
		return ModeCash
	case ModeCard, "credit card", "debit card":
		return ModeCard
	case ModeUPI, "gpay", "phonepe", "paytm":
		return ModeUPI
	}
	return ModeOther
}

// FormatInvoiceNumber renders an invoice number such as INVN00001
func FormatInvoiceNumber(alias string, seq int64) string {
	return sequence.Format(sequence.InvoicePrefix(alias), seq, 5)
}

// Invoice is a receipt issued during a shift
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNo    string
	BranchName   string
	ShiftID      string
	SalesType    string
	PaymentTypes []string
	Cash         decimal.Decimal
	Card         decimal.Decimal
	UPI          decimal.Decimal
	Others       decimal.Decimal
	TotalAmount  decimal.Decimal
	SaleOrderNo  string
	CustomerName string
	Lines        []OrderLine
	Date         time.Time
}

// NewInvoice creates an invoice; ShiftID is the canonical shift id string
func NewInvoice(branchName, shiftID, salesType string, paymentTypes []string, total decimal.Decimal) (*Invoice, error) {
	if strings.TrimSpace(branchName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
	if total.IsNegative() {
		return nil, shared.Newf(shared.ErrInvalidInput, "totalAmount cannot be negative")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchName:        strings.TrimSpace(branchName),
		ShiftID:           strings.TrimSpace(shiftID),
		SalesType:         salesType,
		PaymentTypes:      paymentTypes,
		Cash:              decimal.Zero,
		Card:              decimal.Zero,
		UPI:               decimal.Zero,
		Others:            decimal.Zero,
		TotalAmount:       total,
		Date:              time.Now().UTC(),
	}, nil
}

// HasMode reports whether the payment types include mode
func (i *Invoice) HasMode(mode string) bool {
	for _, p := range i.PaymentTypes {
		if NormalizeMode(p) == mode {
			return true
		}
	}
	return false
}

// ModeAmount returns what the invoice contributes to mode. Only modes listed in
// PaymentTypes count; other is the residual of the total after cash, card and upi.
func (i *Invoice) ModeAmount(mode string) decimal.Decimal {
	if !i.HasMode(mode) {
		return decimal.Zero
	}
	switch mode {
	case ModeCash:
		return i.Cash
	case ModeCard:
		return i.Card
	case ModeUPI:
		return i.UPI
	}
	return i.TotalAmount.Sub(i.Cash.Add(i.Card).Add(i.UPI))
}

// InvoiceFromSaleOrder builds the invoice that completes a sale order
func InvoiceFromSaleOrder(o *SaleOrder, shiftID string, paymentTypes []string, cash, card, upi decimal.Decimal) (*Invoice, error) {
	inv, err := NewInvoice(o.BranchName, shiftID, SalesTypeSaleOrder, paymentTypes, o.TotalAmount)
	if err != nil {
		return nil, err
	}
	inv.Cash, inv.Card, inv.UPI = cash, card, upi
	inv.Others = o.TotalAmount.Sub(cash.Add(card).Add(upi))
	if inv.Others.IsNegative() {
		inv.Others = decimal.Zero
	}
	inv.SaleOrderNo = o.SaleOrderNo
	inv.CustomerName = o.CustomerName
	inv.Lines = append([]OrderLine(nil), o.Lines...)
	return inv, nil
}
