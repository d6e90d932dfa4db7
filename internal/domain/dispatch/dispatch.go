package dispatch

import (
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type distinguishes finished-goods dispatches from sale-order dispatches
type Type string

const (
	TypeFG Type = "FG"
	TypeSO Type = "SO"
)

// ParseType validates a wire dispatch type. An empty value defaults to FG.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TypeFG:
		return TypeFG, nil
	case TypeSO:
		return TypeSO, nil
	}
	return "", shared.Newf(shared.ErrInvalidInput, "unknown dispatch type %q", s)
}

// Status is the lifecycle state of a dispatch
type Status string

const (
	StatusDispatched      Status = "dispatched"
	StatusPendingApproval Status = "pending_approval"
	StatusReceived        Status = "received"
	StatusCancelled       Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusDispatched:      {StatusPendingApproval, StatusReceived, StatusCancelled},
	StatusPendingApproval: {StatusReceived, StatusCancelled},
	StatusReceived:        {StatusCancelled},
}

// ParseStatus validates a wire status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	switch st {
	case StatusDispatched, StatusPendingApproval, StatusReceived, StatusCancelled:
		return st, nil
	}
	return "", shared.Newf(shared.ErrInvalidInput, "unknown dispatch status %q", s)
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

// NumberWidth is the zero-padded width of the numeric part of a dispatch number
const NumberWidth = 5

// FormatNumber renders a dispatch number such as DIN00001
func FormatNumber(alias string, seq int64) string {
	return sequence.Format("DI"+alias, seq, NumberWidth)
}

// Line is one dispatched variance. Sent and Received are each a count or a
// weight; which one follows the wire normalization, not the item master.
type Line struct {
	ItemCode     string
	VarianceName string
	Sent         valueobject.Quantity
	Received     valueobject.Quantity
}

// Dispatch moves stock from a warehouse to a branch
type Dispatch struct {
	shared.BaseAggregateRoot
	DispatchNo      string
	Type            Type
	BranchName      string
	BranchAlias     string
	WarehouseName   string
	CreatedBy       string
	ReceivedBy      string
	DriverName      string
	DriverNumber    string
	VehicleNumber   string
	Remarks         string
	SaleOrderNo     string
	Lines           []Line
	Status          Status
	Date            time.Time
	ReceivedTime    *time.Time
	ApprovalDetails shared.ApprovalLog
}

// NewDispatch builds a dispatch in the dispatched state. The number is minted
// separately once the sequence has been drawn.
func NewDispatch(typ Type, branchName, alias, warehouseName string, lines []Line) (*Dispatch, error) {
	if strings.TrimSpace(branchName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
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
	}
	return &Dispatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              typ,
		BranchName:        strings.TrimSpace(branchName),
		BranchAlias:       alias,
		WarehouseName:     strings.TrimSpace(warehouseName),
		Lines:             lines,
		Status:            StatusDispatched,
		Date:              time.Now().UTC(),
	}, nil
}

// AssignNumber sets the dispatch number and raises the creation event
func (d *Dispatch) AssignNumber(seq int64) {
	d.DispatchNo = FormatNumber(d.BranchAlias, seq)
	d.AddDomainEvent(NewDispatchCreatedEvent(d))
}

// Receive records the received amounts and moves to received or pending_approval.
// Received quantities map onto lines by position. On the first receipt a
// missing position reads as zero; when a pending_approval dispatch is
// received, omitted amounts keep their recorded value. The returned slice
// holds, per line, how much branch stock must change as a result.
func (d *Dispatch) Receive(to Status, received []valueobject.Quantity, at time.Time, by string) ([]decimal.Decimal, error) {
	if to != StatusReceived && to != StatusPendingApproval {
		return nil, shared.Newf(shared.ErrInvalidInput, "receive target must be received or pending_approval, got %q", to)
	}
	if !d.Status.CanTransitionTo(to) {
		return nil, shared.Newf(shared.ErrInvalidState, "dispatch %s cannot move from %s to %s", d.DispatchNo, d.Status, to)
	}
	if len(received) > len(d.Lines) {
		return nil, shared.Newf(shared.ErrInvalidInput, "received %d lines but dispatch has %d", len(received), len(d.Lines))
	}
	first := d.Status == StatusDispatched
	deltas := make([]decimal.Decimal, len(d.Lines))
	for i := range d.Lines {
		old := d.Lines[i].Received.Amount()
		if first {
			old = decimal.Zero
		}
		switch {
		case i < len(received):
			d.Lines[i].Received = received[i]
		case first:
			d.Lines[i].Received = valueobject.Of(d.Lines[i].Sent.Kind(), decimal.Zero)
		}
		deltas[i] = d.Lines[i].Received.Amount().Sub(old)
	}
	if !at.IsZero() {
		t := at.UTC()
		d.ReceivedTime = &t
	}
	if by != "" {
		d.ReceivedBy = by
	}
	d.Status = to
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewDispatchReceivedEvent(d))
	return deltas, nil
}

// Cancel moves the dispatch to cancelled
func (d *Dispatch) Cancel() error {
	if d.Status == StatusCancelled {
		return shared.Newf(shared.ErrInvalidState, "dispatch %s is already cancelled", d.DispatchNo)
	}
	if !d.Status.CanTransitionTo(StatusCancelled) {
		return shared.Newf(shared.ErrInvalidState, "dispatch %s cannot be cancelled from %s", d.DispatchNo, d.Status)
	}
	d.Status = StatusCancelled
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewDispatchCancelledEvent(d))
	return nil
}

// SentQuantities returns the sent amount of every line in order
func (d *Dispatch) SentQuantities() []valueobject.Quantity {
	out := make([]valueobject.Quantity, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Sent
	}
	return out
}

// ReceivedQuantities returns the received amount of every line in order
func (d *Dispatch) ReceivedQuantities() []valueobject.Quantity {
	out := make([]valueobject.Quantity, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Received
	}
	return out
}

// Details holds the editable non-status fields of a dispatch
type Details struct {
	DriverName    *string
	DriverNumber  *string
	VehicleNumber *string
	Remarks       *string
}

// UpdateDetails merges the provided fields. Cancelled dispatches are frozen.
func (d *Dispatch) UpdateDetails(in Details) error {
	if d.Status == StatusCancelled {
		return shared.Newf(shared.ErrInvalidState, "dispatch %s is cancelled", d.DispatchNo)
	}
	changed := false
	set := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	set(&d.DriverName, in.DriverName)
	set(&d.DriverNumber, in.DriverNumber)
	set(&d.VehicleNumber, in.VehicleNumber)
	set(&d.Remarks, in.Remarks)
	if !changed {
		return shared.Newf(shared.ErrNoChange, "dispatch %s was not modified", d.DispatchNo)
	}
	d.Touch()
	d.IncrementVersion()
	return nil
}

// AppendApproval adds an entry to the approval log
func (d *Dispatch) AppendApproval(a shared.ApprovalDetail) {
	d.ApprovalDetails = d.ApprovalDetails.Append(a)
	d.Touch()
	d.IncrementVersion()
}
