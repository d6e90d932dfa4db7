package sales

import (
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineDTO is one ordered variance on the wire
type OrderLineDTO struct {
	ItemCode     string          `json:"itemCode" binding:"max=50"`
	ItemName     string          `json:"itemName" binding:"max=200"`
	VarianceName string          `json:"varianceName" binding:"max=200"`
	UOM          string          `json:"uom" binding:"max=20"`
	Qty          decimal.Decimal `json:"qty"`
	Weight       decimal.Decimal `json:"weight"`
	Price        decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

func toDomainLines(in []OrderLineDTO) ([]sales.OrderLine, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]sales.OrderLine, len(in))
	for i, l := range in {
		if l.Qty.IsNegative() || l.Weight.IsNegative() || l.Price.IsNegative() || l.Amount.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "items[%d] has a negative amount", i)
		}
		amount := l.Amount
		if amount.IsZero() {
			base := l.Qty
			if base.IsZero() {
				base = l.Weight
			}
			amount = base.Mul(l.Price)
		}
		out[i] = sales.OrderLine{
			ItemCode:     strings.TrimSpace(l.ItemCode),
			ItemName:     strings.TrimSpace(l.ItemName),
			VarianceName: strings.TrimSpace(l.VarianceName),
			UOM:          l.UOM,
			Qty:          l.Qty,
			Weight:       l.Weight,
			Price:        l.Price,
			Amount:       amount,
		}
	}
	return out, nil
}

func fromDomainLines(in []sales.OrderLine) []OrderLineDTO {
	out := make([]OrderLineDTO, len(in))
	for i, l := range in {
		out[i] = OrderLineDTO(l)
	}
	return out
}

// AdvanceDTO is money taken against an order in one shift. The two arrays pair by index.
type AdvanceDTO struct {
	ShiftID            string            `json:"shiftId" binding:"required"`
	AdvancePaymentType []string          `json:"advancePaymentType"`
	ModeWiseAmount     []decimal.Decimal `json:"modeWiseAmount"`
}

func toDomainAdvances(in []AdvanceDTO) ([]sales.AdvancePayment, error) {
	out := make([]sales.AdvancePayment, 0, len(in))
	for _, a := range in {
		shiftID, err := CanonicalShiftID(a.ShiftID)
		if err != nil {
			return nil, err
		}
		out = append(out, sales.AdvancePayment{ShiftID: shiftID, Modes: a.AdvancePaymentType, Amounts: a.ModeWiseAmount})
	}
	return out, nil
}

// CanonicalShiftID renders a shift reference as the lower-case UUID string
// stored on invoices and advances. An empty reference stays empty.
func CanonicalShiftID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", shared.Newf(shared.ErrInvalidInput, "invalid shiftId %q", raw)
	}
	return id.String(), nil
}

// CreateOrderRequest is the body of POST /salesorder and POST /heldorder
type CreateOrderRequest struct {
	BranchName      string         `json:"branchName" binding:"required,max=200"`
	CustomerName    string         `json:"customerName" binding:"max=200"`
	CustomerPhone   string         `json:"customerPhone" binding:"max=30"`
	CustomerAddress string         `json:"customerAddress" binding:"max=500"`
	DeliveryDate    string         `json:"deliveryDate"`
	Remarks         string         `json:"remarks" binding:"max=500"`
	CreatedBy       string         `json:"createdBy" binding:"max=100"`
	Status          string         `json:"status"`
	Items           []OrderLineDTO `json:"items" binding:"dive"`
	Advances        []AdvanceDTO   `json:"advancePayments" binding:"dive"`
}

// PatchOrderRequest merges top-level fields into an order
type PatchOrderRequest struct {
	CustomerName    *string          `json:"customerName" binding:"omitempty,max=200"`
	CustomerPhone   *string          `json:"customerPhone" binding:"omitempty,max=30"`
	CustomerAddress *string          `json:"customerAddress" binding:"omitempty,max=500"`
	DeliveryDate    *string          `json:"deliveryDate"`
	Remarks         *string          `json:"remarks" binding:"omitempty,max=500"`
	Items           []OrderLineDTO   `json:"items" binding:"dive"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Status          *string          `json:"status"`
	Advances        []AdvanceDTO     `json:"advancePayments" binding:"dive"`
}

// ApprovalRequest carries one approval entry
type ApprovalRequest struct {
	ApprovalStatus         string            `json:"approvalStatus" binding:"required,max=50"`
	ApprovalType           string            `json:"approvalType" binding:"max=50"`
	Summary                string            `json:"summary" binding:"max=1000"`
	ApprovalDate           *time.Time        `json:"approvalDate"`
	ApprovedBy             string            `json:"approvedBy" binding:"max=100"`
	PreviousDiscount       []string          `json:"previousDiscount"`
	PreviousDiscountAmount []decimal.Decimal `json:"previousDiscountAmount"`
}

func (r ApprovalRequest) detail(now time.Time) shared.ApprovalDetail {
	at := now.UTC()
	if r.ApprovalDate != nil && !r.ApprovalDate.IsZero() {
		at = r.ApprovalDate.UTC()
	}
	return shared.ApprovalDetail{
		ApprovalStatus:         strings.TrimSpace(r.ApprovalStatus),
		ApprovalType:           strings.TrimSpace(r.ApprovalType),
		Summary:                r.Summary,
		ApprovalDate:           at,
		ApprovedBy:             strings.TrimSpace(r.ApprovedBy),
		PreviousDiscount:       r.PreviousDiscount,
		PreviousDiscountAmount: r.PreviousDiscountAmount,
	}
}

// CreateOrderInvoiceRequest is the body of POST /salesorder/:id/invoice
type CreateOrderInvoiceRequest struct {
	ShiftID     string          `json:"shiftId"`
	PaymentType []string        `json:"paymentType" binding:"required,min=1"`
	Cash        decimal.Decimal `json:"cash"`
	Card        decimal.Decimal `json:"card"`
	UPI         decimal.Decimal `json:"upi"`
}

// CreateInvoiceRequest is the body of POST /invoice
type CreateInvoiceRequest struct {
	BranchName   string          `json:"branchName" binding:"required,max=200"`
	ShiftID      string          `json:"shiftId"`
	SalesType    string          `json:"salesType" binding:"max=50"`
	PaymentType  []string        `json:"paymentType"`
	Cash         decimal.Decimal `json:"cash"`
	Card         decimal.Decimal `json:"card"`
	UPI          decimal.Decimal `json:"upi"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CustomerName string          `json:"customerName" binding:"max=200"`
	Items        []OrderLineDTO  `json:"items" binding:"dive"`
}

// OrderListFilter is the query of GET /salesorder and GET /heldorder
type OrderListFilter struct {
	BranchName string   `form:"branchName"`
	Status     []string `form:"status"`
	FromDate   string   `form:"fromDate" binding:"omitempty,dmy"`
	ToDate     string   `form:"toDate" binding:"omitempty,dmy"`
	Search     string   `form:"search"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	PageSize   int      `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string   `form:"order_by"`
	OrderDir   string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceListFilter is the query of GET /invoice
type InvoiceListFilter struct {
	BranchName string `form:"branchName"`
	ShiftID    string `form:"shiftId"`
	FromDate   string `form:"fromDate" binding:"omitempty,dmy"`
	ToDate     string `form:"toDate" binding:"omitempty,dmy"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderResponse is a sale or held order on the wire
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	Kind            string                  `json:"kind"`
	SaleOrderNo     string                  `json:"saleOrderNo,omitempty"`
	BranchName      string                  `json:"branchName"`
	BranchAlias     string                  `json:"branchAlias,omitempty"`
	CustomerName    string                  `json:"customerName"`
	CustomerPhone   string                  `json:"customerPhone"`
	CustomerAddress string                  `json:"customerAddress"`
	DeliveryDate    *time.Time              `json:"deliveryDate,omitempty"`
	Remarks         string                  `json:"remarks"`
	CreatedBy       string                  `json:"createdBy"`
	Items           []OrderLineDTO          `json:"items"`
	TotalAmount     decimal.Decimal         `json:"totalAmount"`
	Status          string                  `json:"status"`
	ApprovalDetails []shared.ApprovalDetail `json:"approvalDetails"`
	ShiftIDs        []string                `json:"shiftIds"`
	Advances        []AdvanceDTO            `json:"advancePayments"`
	OrderDate       time.Time               `json:"orderDate"`
	Version         int                     `json:"version"`
}

// ToOrderResponse converts the domain order
func ToOrderResponse(o *sales.SaleOrder) OrderResponse {
	approvals := []shared.ApprovalDetail(o.ApprovalDetails)
	if approvals == nil {
		approvals = []shared.ApprovalDetail{}
	}
	advances := make([]AdvanceDTO, len(o.Advances))
	for i, a := range o.Advances {
		advances[i] = AdvanceDTO{ShiftID: a.ShiftID, AdvancePaymentType: a.Modes, ModeWiseAmount: a.Amounts}
	}
	return OrderResponse{
		ID:              o.ID,
		Kind:            string(o.Kind),
		SaleOrderNo:     o.SaleOrderNo,
		BranchName:      o.BranchName,
		BranchAlias:     o.BranchAlias,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		DeliveryDate:    o.DeliveryDate,
		Remarks:         o.Remarks,
		CreatedBy:       o.CreatedBy,
		Items:           fromDomainLines(o.Lines),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ApprovalDetails: approvals,
		ShiftIDs:        o.ShiftIDs(),
		Advances:        advances,
		OrderDate:       o.OrderDate,
		Version:         o.Version,
	}
}

// InvoiceResponse is an invoice on the wire
type InvoiceResponse struct {
	ID           uuid.UUID       `json:"id"`
	InvoiceNo    string          `json:"invoiceNo"`
	BranchName   string          `json:"branchName"`
	ShiftID      string          `json:"shiftId"`
	SalesType    string          `json:"salesType"`
	PaymentType  []string        `json:"paymentType"`
	Cash         decimal.Decimal `json:"cash"`
	Card         decimal.Decimal `json:"card"`
	UPI          decimal.Decimal `json:"upi"`
	Others       decimal.Decimal `json:"others"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	SaleOrderNo  string          `json:"saleOrderNo,omitempty"`
	CustomerName string          `json:"customerName,omitempty"`
	Items        []OrderLineDTO  `json:"items"`
	Date         time.Time       `json:"date"`
}

// ToInvoiceResponse converts the domain invoice
func ToInvoiceResponse(inv *sales.Invoice) InvoiceResponse {
	modes := inv.PaymentTypes
	if modes == nil {
		modes = []string{}
	}
	return InvoiceResponse{
		ID:           inv.ID,
		InvoiceNo:    inv.InvoiceNo,
		BranchName:   inv.BranchName,
		ShiftID:      inv.ShiftID,
		SalesType:    inv.SalesType,
		PaymentType:  modes,
		Cash:         inv.Cash,
		Card:         inv.Card,
		UPI:          inv.UPI,
		Others:       inv.Others,
		TotalAmount:  inv.TotalAmount,
		SaleOrderNo:  inv.SaleOrderNo,
		CustomerName: inv.CustomerName,
		Items:        fromDomainLines(inv.Lines),
		Date:         inv.Date,
	}
}
