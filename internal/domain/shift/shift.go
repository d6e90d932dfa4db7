package shift

import (
	"context"
	"strings"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a shift or of its day-end
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Shift is one till session at a branch. ShiftNumber is dense from 1 within
// a (branch, local date) pair.
type Shift struct {
	shared.BaseAggregateRoot
	BranchName      string
	ShiftNumber     int
	LocalDate       string
	OpenedBy        string
	ClosedBy        string
	OpeningDateTime time.Time
	ClosingDateTime *time.Time
	OpeningBalance  decimal.Decimal
	ClosingBalance  decimal.Decimal
	System          SystemTotals
	Manual          ModeTotals
	Differences     ModeTotals
	TotalDifference decimal.Decimal
	DifferenceType  string
	Status          Status
	DayEndStatus    Status
}

// Open starts shift number n for branch at the given instant
func Open(branchName string, n int, openingBalance decimal.Decimal, openedBy string, at time.Time) (*Shift, error) {
	if strings.TrimSpace(branchName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
	if n < 1 {
		return nil, shared.Newf(shared.ErrInvalidInput, "shift number must be positive")
	}
	if openingBalance.IsNegative() {
		return nil, shared.Newf(shared.ErrInvalidInput, "openingBalance cannot be negative")
	}
	return &Shift{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchName:        strings.TrimSpace(branchName),
		ShiftNumber:       n,
		LocalDate:         shared.LocalDate(at),
		OpenedBy:          openedBy,
		OpeningDateTime:   at.UTC(),
		OpeningBalance:    openingBalance,
		ClosingBalance:    decimal.Zero,
		System:            ZeroSystemTotals(),
		Manual:            ZeroModeTotals(),
		Differences:       ZeroModeTotals(),
		TotalDifference:   decimal.Zero,
		DifferenceType:    DifferenceNone,
		Status:            StatusOpen,
		DayEndStatus:      StatusOpen,
	}, nil
}

// Reconcile stores system and manual totals and derives the differences
func (s *Shift) Reconcile(system SystemTotals, manual ModeTotals) {
	s.System = system
	s.Manual = manual
	s.Differences = manual.Sub(system.Modes)
	s.TotalDifference = manual.Total().Sub(system.Modes.Total())
	s.DifferenceType = DifferenceType(s.TotalDifference)
}

// Close reconciles and closes an open shift; the day-end stays open
func (s *Shift) Close(system SystemTotals, manual ModeTotals, closingBalance decimal.Decimal, closedBy string, at time.Time) error {
	if s.Status != StatusOpen {
		return shared.Newf(shared.ErrInvalidState, "shift %s is already closed", s.ID)
	}
	s.Reconcile(system, manual)
	stamp := at.UTC()
	s.ClosingDateTime = &stamp
	s.ClosingBalance = closingBalance
	s.ClosedBy = closedBy
	s.Status = StatusClosed
	s.Touch()
	s.IncrementVersion()
	return nil
}

// CloseDayEnd marks a closed shift as rolled into the day-end
func (s *Shift) CloseDayEnd() error {
	if s.Status != StatusClosed {
		return shared.Newf(shared.ErrInvalidState, "shift %s is still open", s.ID)
	}
	if s.DayEndStatus == StatusClosed {
		return shared.Newf(shared.ErrNoChange, "shift %s day-end already closed", s.ID)
	}
	s.DayEndStatus = StatusClosed
	s.Touch()
	s.IncrementVersion()
	return nil
}

// DayEnd is the reconciled snapshot of every shift rolled up for a branch
type DayEnd struct {
	shared.BaseEntity
	BranchName      string
	LocalDate       string
	OpeningDateTime time.Time
	ClosingDateTime time.Time
	ShiftIDs        []string
	System          SystemTotals
	Manual          ModeTotals
	Differences     ModeTotals
	TotalDifference decimal.Decimal
	DifferenceType  string
}

// NewDayEnd aggregates shifts. Opening time is the earliest shift opening and
// closing time is at.
func NewDayEnd(branchName string, shifts []Shift, at time.Time) (*DayEnd, error) {
	if len(shifts) == 0 {
		return nil, shared.Newf(shared.ErrInvalidState, "branch %s has no shifts awaiting day-end", branchName)
	}
	d := &DayEnd{
		BaseEntity:      shared.NewBaseEntity(),
		BranchName:      branchName,
		LocalDate:       shared.LocalDate(at),
		OpeningDateTime: shifts[0].OpeningDateTime,
		ClosingDateTime: at.UTC(),
		System:          ZeroSystemTotals(),
		Manual:          ZeroModeTotals(),
	}
	for _, s := range shifts {
		if s.OpeningDateTime.Before(d.OpeningDateTime) {
			d.OpeningDateTime = s.OpeningDateTime
		}
		d.ShiftIDs = append(d.ShiftIDs, s.ID.String())
		d.System = d.System.Add(s.System)
		d.Manual = d.Manual.Add(s.Manual)
	}
	d.Differences = d.Manual.Sub(d.System.Modes)
	d.TotalDifference = d.Manual.Total().Sub(d.System.Modes.Total())
	d.DifferenceType = DifferenceType(d.TotalDifference)
	return d, nil
}

// Validation outcomes
const (
	ValidationSuccess = "success"
	ValidationFailed  = "failed"
)

// Validation category names
const (
	CategorySOApproval    = "soApproval"
	CategoryDispatch      = "dispatch"
	CategoryItemTransfer  = "itemTransfer"
	CategorySODelivery    = "soDelivery"
	CategoryStoreDispatch = "storeDispatch"
)

// CategoryResult is the outcome of one day-end check
type CategoryResult struct {
	Status   string `json:"status"`
	Pendings int64  `json:"pendings"`
}

// NewCategoryResult succeeds iff nothing is pending
func NewCategoryResult(pendings int64) CategoryResult {
	if pendings == 0 {
		return CategoryResult{Status: ValidationSuccess}
	}
	return CategoryResult{Status: ValidationFailed, Pendings: pendings}
}

// DayEndValidation is a persisted pre-day-end checklist
type DayEndValidation struct {
	shared.BaseEntity
	BranchName  string
	LocalDate   string
	Categories  map[string]CategoryResult
	ShiftStatus CategoryResult
}

// Passed reports whether every check succeeded
func (v *DayEndValidation) Passed() bool {
	if v.ShiftStatus.Status != ValidationSuccess {
		return false
	}
	for _, c := range v.Categories {
		if c.Status != ValidationSuccess {
			return false
		}
	}
	return true
}

// Filter narrows a shift listing
type Filter struct {
	shared.Filter
	BranchName string
	LocalDate  string
	Status     Status
}

// Repository defines the interface for shift persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	FindAll(ctx context.Context, filter Filter) ([]Shift, int64, error)

	// FindOpen returns the open shifts of a branch
	FindOpen(ctx context.Context, branchName string) ([]Shift, error)

	// FindDayEndOpen returns closed shifts of a branch not yet rolled into a day-end
	FindDayEndOpen(ctx context.Context, branchName string) ([]Shift, error)

	// MaxShiftNumber returns the highest shift number for (branch, localDate), 0 if none
	MaxShiftNumber(ctx context.Context, branchName, localDate string) (int, error)

	Save(ctx context.Context, s *Shift) error
	SaveWithLock(ctx context.Context, s *Shift) error
}

// DayEndRepository defines the interface for day-end snapshots
type DayEndRepository interface {
	Save(ctx context.Context, d *DayEnd) error
	FindAll(ctx context.Context, branchName, localDate string) ([]DayEnd, error)
	SaveValidation(ctx context.Context, v *DayEndValidation) error
	FindValidations(ctx context.Context, branchName, localDate string) ([]DayEndValidation, error)
}
