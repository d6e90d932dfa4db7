package sales

import (
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind separates live sale orders from parked held orders sharing one store
type Kind string

const (
	KindSaleOrder Kind = "sale_order"
	KindHeldOrder Kind = "held_order"
)

// Status of a sale order
type Status string

const (
	StatusToApprove       Status = "toApprove Orders"
	StatusWaitingApproval Status = "Waiting for Approval"
	StatusModified        Status = "Modified"
	StatusConfirmOrder    Status = "Confirm Order"
	StatusProductionEntry Status = "ProductionEntry"
	StatusDispatched      Status = "dispatched"
	StatusCompleted       Status = "SalesOrder Completed"
)

var transitions = map[Status][]Status{
	StatusToApprove:       {StatusWaitingApproval, StatusModified, StatusConfirmOrder},
	StatusWaitingApproval: {StatusToApprove, StatusModified, StatusConfirmOrder},
	StatusModified:        {StatusToApprove, StatusWaitingApproval, StatusConfirmOrder},
	StatusConfirmOrder:    {StatusModified, StatusWaitingApproval, StatusProductionEntry, StatusDispatched, StatusCompleted},
	StatusProductionEntry: {StatusDispatched, StatusCompleted},
	StatusDispatched:      {StatusProductionEntry, StatusCompleted},
}

// ParseStatus validates a wire status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if _, ok := transitions[st]; ok || st == StatusCompleted {
		return st, nil
	}
	return "", shared.Newf(shared.ErrInvalidInput, "unknown sale order status %q", s)
}

// CanTransitionTo reports whether the table allows from -> to
func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// FormatNumber renders a sale order number such as SONR0001
func FormatNumber(alias string, seq int64) string {
	return sequence.Format(sequence.SaleOrderPrefix(alias), seq, 4)
}

// OrderLine is one ordered variance
type OrderLine struct {
	ItemCode     string          `json:"itemCode"`
	ItemName     string          `json:"itemName"`
	VarianceName string          `json:"varianceName"`
	UOM          string          `json:"uom"`
	Qty          decimal.Decimal `json:"qty"`
	Weight       decimal.Decimal `json:"weight"`
	Price        decimal.Decimal `json:"price"`
	Amount       decimal.Decimal `json:"amount"`
}

// AdvancePayment is money taken against an order during one shift.
// Modes and Amounts are parallel.
type AdvancePayment struct {
	ShiftID string            `json:"shiftId"`
	Modes   []string          `json:"advancePaymentType"`
	Amounts []decimal.Decimal `json:"modeWiseAmount"`
}

// SaleOrder is a customer order taken at a branch
type SaleOrder struct {
	shared.BaseAggregateRoot
	Kind            Kind
	SaleOrderNo     string
	BranchName      string
	BranchAlias     string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	DeliveryDate    *time.Time
	Remarks         string
	CreatedBy       string
	Lines           []OrderLine
	TotalAmount     decimal.Decimal
	Status          Status
	ApprovalDetails shared.ApprovalLog
	Advances        []AdvancePayment
	OrderDate       time.Time
}

// NewSaleOrder creates an order of the given kind. An empty status starts a
// sale order at Confirm Order and a held order at toApprove Orders.
func NewSaleOrder(kind Kind, branchName string, status Status, lines []OrderLine) (*SaleOrder, error) {
	if kind != KindSaleOrder && kind != KindHeldOrder {
		return nil, shared.Newf(shared.ErrInvalidInput, "unknown order kind %q", kind)
	}
	if strings.TrimSpace(branchName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
	if status == "" {
		status = StatusConfirmOrder
		if kind == KindHeldOrder {
			status = StatusToApprove
		}
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return &SaleOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		BranchName:        strings.TrimSpace(branchName),
		Lines:             lines,
		TotalAmount:       sumLines(lines),
		Status:            status,
		OrderDate:         time.Now().UTC(),
	}, nil
}

func sumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// AssignNumber sets the sale order number
func (o *SaleOrder) AssignNumber(alias string, seq int64) {
	o.BranchAlias = alias
	o.SaleOrderNo = FormatNumber(alias, seq)
}

// TransitionTo moves the order along the status table. Moving to the current
// status is rejected as a no-op.
func (o *SaleOrder) TransitionTo(to Status) error {
	if o.Status == to {
		return shared.Newf(shared.ErrNoChange, "sale order %s is already %s", o.SaleOrderNo, to)
	}
	if !o.Status.CanTransitionTo(to) {
		return shared.Newf(shared.ErrInvalidState, "sale order %s cannot move from %s to %s", o.SaleOrderNo, o.Status, to)
	}
	o.Status = to
	o.Touch()
	o.IncrementVersion()
	return nil
}

// ShiftIDs returns every shift an advance was taken in, in order
func (o *SaleOrder) ShiftIDs() []string {
	out := make([]string, 0, len(o.Advances))
	for _, a := range o.Advances {
		out = append(out, a.ShiftID)
	}
	return out
}

// AddAdvance records an advance payment
func (o *SaleOrder) AddAdvance(a AdvancePayment) error {
	if strings.TrimSpace(a.ShiftID) == "" {
		return shared.Newf(shared.ErrInvalidInput, "shiftId is required for an advance payment")
	}
	if len(a.Modes) != len(a.Amounts) {
		return shared.Newf(shared.ErrInvalidInput, "advancePaymentType and modeWiseAmount must have the same length")
	}
	for _, amt := range a.Amounts {
		if amt.IsNegative() {
			return shared.Newf(shared.ErrInvalidInput, "advance amount cannot be negative")
		}
	}
	o.Advances = append(o.Advances, a)
	return nil
}

// Patch holds optional top-level fields to merge into an order
type Patch struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerAddress *string
	DeliveryDate    *time.Time
	Remarks         *string
	Lines           []OrderLine
	TotalAmount     *decimal.Decimal
	Status          *Status
	Advances        []AdvancePayment
}

// Apply merges p into the order. Status changes go through the transition table.
func (o *SaleOrder) Apply(p Patch) error {
	if o.Status == StatusCompleted {
		return shared.Newf(shared.ErrInvalidState, "sale order %s is completed", o.SaleOrderNo)
	}
	changed := false
	setStr := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	setStr(&o.CustomerName, p.CustomerName)
	setStr(&o.CustomerPhone, p.CustomerPhone)
	setStr(&o.CustomerAddress, p.CustomerAddress)
	setStr(&o.Remarks, p.Remarks)
	if p.DeliveryDate != nil {
		t := p.DeliveryDate.UTC()
		o.DeliveryDate = &t
		changed = true
	}
	if p.Lines != nil {
		o.Lines = p.Lines
		o.TotalAmount = sumLines(p.Lines)
		changed = true
	}
	if p.TotalAmount != nil && !p.TotalAmount.Equal(o.TotalAmount) {
		o.TotalAmount = *p.TotalAmount
		changed = true
	}
	for _, a := range p.Advances {
		if err := o.AddAdvance(a); err != nil {
			return err
		}
		changed = true
	}
	if p.Status != nil && *p.Status != o.Status {
		if !o.Status.CanTransitionTo(*p.Status) {
			return shared.Newf(shared.ErrInvalidState, "sale order %s cannot move from %s to %s", o.SaleOrderNo, o.Status, *p.Status)
		}
		o.Status = *p.Status
		changed = true
	}
	if !changed {
		return shared.Newf(shared.ErrNoChange, "sale order %s was not modified", o.SaleOrderNo)
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

// PatchApproval overwrites the most recent approval entry
func (o *SaleOrder) PatchApproval(a shared.ApprovalDetail) {
	o.ApprovalDetails = o.ApprovalDetails.ReplaceLast(a)
	o.Touch()
	o.IncrementVersion()
}

// AppendApproval adds a new approval entry
func (o *SaleOrder) AppendApproval(a shared.ApprovalDetail) {
	o.ApprovalDetails = o.ApprovalDetails.Append(a)
	o.Touch()
	o.IncrementVersion()
}

// LastApprovalStatus returns the status of the most recent approval entry
func (o *SaleOrder) LastApprovalStatus() string {
	if last, ok := o.ApprovalDetails.Last(); ok {
		return last.ApprovalStatus
	}
	return ""
}

// ConvertToSaleOrder turns a held order into a numbered sale order
func (o *SaleOrder) ConvertToSaleOrder(alias string, seq int64) error {
	if o.Kind != KindHeldOrder {
		return shared.Newf(shared.ErrInvalidState, "order %s is not a held order", o.ID)
	}
	o.Kind = KindSaleOrder
	o.AssignNumber(alias, seq)
	o.Status = StatusConfirmOrder
	o.Touch()
	o.IncrementVersion()
	return nil
}
