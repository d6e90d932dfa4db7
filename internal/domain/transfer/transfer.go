package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an item transfer
type Status string

const (
	StatusPending  Status = "Pending"
	StatusSent     Status = "Sent"
	StatusReceived Status = "Received"
	StatusRejected Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusSent, StatusRejected},
	StatusSent:    {StatusReceived},
}

// ParseStatus validates a wire status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	switch st {
	case StatusPending, StatusSent, StatusReceived, StatusRejected:
		return st, nil
	}
	return "", shared.Newf(shared.ErrInvalidInput, "unknown transfer status %q", s)
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

// FormatNumber renders a transfer number such as IT0007
func FormatNumber(seq int64) string {
	return sequence.Format("IT", seq, 4)
}

// Line is one requested item
type Line struct {
	ItemCode     string          `json:"itemCode"`
	ItemName     string          `json:"itemName"`
	VarianceName string          `json:"varianceName"`
	UOM          string          `json:"uom"`
	Price        decimal.Decimal `json:"price"`
	ReqQty       decimal.Decimal `json:"reqQty"`
	SendQty      decimal.Decimal `json:"sendQty"`
	ReceivedQty  decimal.Decimal `json:"receivedQty"`
}

// StockKey is the branchwise item key the line moves
func (l Line) StockKey() string {
	if l.VarianceName != "" {
		return l.VarianceName
	}
	return l.ItemName
}

// ItemTransfer moves stock between two branches on request
type ItemTransfer struct {
	shared.BaseAggregateRoot
	TransferNo      string
	FromBranch      string
	ToBranch        string
	RequestedBy     string
	Remarks         string
	Lines           []Line
	Status          Status
	RequestDateTime time.Time
	SentDateTime    *time.Time
	ReceiveDateTime *time.Time
	RejectDateTime  *time.Time
}

// NewItemTransfer creates a pending transfer stamped with the request time
func NewItemTransfer(fromBranch, toBranch string, lines []Line) (*ItemTransfer, error) {
	fromBranch, toBranch = strings.TrimSpace(fromBranch), strings.TrimSpace(toBranch)
	if fromBranch == "" || toBranch == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "fromBranch and toBranch are required")
	}
	if strings.EqualFold(fromBranch, toBranch) {
		return nil, shared.Newf(shared.ErrInvalidInput, "cannot transfer within branch %q", fromBranch)
	}
	if len(lines) == 0 {
		return nil, shared.Newf(shared.ErrInvalidInput, "at least one item is required")
	}
	for i, l := range lines {
		if l.StockKey() == "" {
			return nil, shared.Newf(shared.ErrInvalidInput, "itemName[%d] is required", i)
		}
		if l.ReqQty.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "reqQty[%d] cannot be negative", i)
		}
	}
	return &ItemTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FromBranch:        fromBranch,
		ToBranch:          toBranch,
		Lines:             lines,
		Status:            StatusPending,
		RequestDateTime:   time.Now().UTC(),
	}, nil
}

func (t *ItemTransfer) transition(to Status) error {
	if !t.Status.CanTransitionTo(to) {
		return shared.Newf(shared.ErrInvalidState, "transfer %s cannot move from %s to %s", t.TransferNo, t.Status, to)
	}
	t.Status = to
	t.Touch()
	t.IncrementVersion()
	return nil
}

func applyPositional(dst []Line, values []decimal.Decimal, set func(*Line, decimal.Decimal)) error {
	if len(values) > len(dst) {
		return shared.Newf(shared.ErrInvalidInput, "got %d quantities for %d lines", len(values), len(dst))
	}
	for i, v := range values {
		if v.IsNegative() {
			return shared.Newf(shared.ErrInvalidInput, "quantity[%d] cannot be negative", i)
		}
		set(&dst[i], v)
	}
	return nil
}

// Send records the sent quantities. Omitted positions send the requested quantity.
func (t *ItemTransfer) Send(sendQty []decimal.Decimal, at time.Time) error {
	if !t.Status.CanTransitionTo(StatusSent) {
		return shared.Newf(shared.ErrInvalidState, "transfer %s cannot move from %s to %s", t.TransferNo, t.Status, StatusSent)
	}
	for i := range t.Lines {
		t.Lines[i].SendQty = t.Lines[i].ReqQty
	}
	if err := applyPositional(t.Lines, sendQty, func(l *Line, v decimal.Decimal) { l.SendQty = v }); err != nil {
		return err
	}
	stamp := at.UTC()
	t.SentDateTime = &stamp
	return t.transition(StatusSent)
}

// Receive records the received quantities. Omitted positions receive what was sent.
func (t *ItemTransfer) Receive(receivedQty []decimal.Decimal, at time.Time) error {
	if !t.Status.CanTransitionTo(StatusReceived) {
		return shared.Newf(shared.ErrInvalidState, "transfer %s cannot move from %s to %s", t.TransferNo, t.Status, StatusReceived)
	}
	for i := range t.Lines {
		t.Lines[i].ReceivedQty = t.Lines[i].SendQty
	}
	if err := applyPositional(t.Lines, receivedQty, func(l *Line, v decimal.Decimal) { l.ReceivedQty = v }); err != nil {
		return err
	}
	stamp := at.UTC()
	t.ReceiveDateTime = &stamp
	return t.transition(StatusReceived)
}

// Reject closes a pending transfer without moving stock
func (t *ItemTransfer) Reject(at time.Time, remarks string) error {
	if err := t.transition(StatusRejected); err != nil {
		return err
	}
	stamp := at.UTC()
	t.RejectDateTime = &stamp
	if remarks != "" {
		t.Remarks = remarks
	}
	return nil
}

// Filter narrows a transfer listing. When Since is set, a transfer matches if
// any of its four timestamps falls on or after it.
type Filter struct {
	shared.Filter
	Statuses   []Status
	FromBranch string
	ToBranch   string
	Branch     string
	Since      time.Time
}

// Repository defines the interface for item transfer persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemTransfer, error)
	FindAll(ctx context.Context, filter Filter) ([]ItemTransfer, int64, error)

	// CountPending counts pending transfers touching branchName requested within r
	CountPending(ctx context.Context, branchName string, r shared.DateRange) (int64, error)

	Save(ctx context.Context, t *ItemTransfer) error
	SaveWithLock(ctx context.Context, t *ItemTransfer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
