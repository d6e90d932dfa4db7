package sales

import (
	"context"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService issues and lists counter invoices
type InvoiceService struct {
	repo     sales.InvoiceRepository
	branches BranchResolver
	counters Sequencer
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo sales.InvoiceRepository, branches BranchResolver, counters Sequencer) *InvoiceService {
	return &InvoiceService{repo: repo, branches: branches, counters: counters}
}

// Create issues an invoice numbered INV<ALIAS>#####. A zero total is taken
// from the line amounts.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	shiftID, err := CanonicalShiftID(req.ShiftID)
	if err != nil {
		return nil, err
	}
	lines, err := toDomainLines(req.Items)
	if err != nil {
		return nil, err
	}
	total := req.TotalAmount
	if total.IsZero() {
		for _, l := range lines {
			total = total.Add(l.Amount)
		}
	}
	for _, amt := range []decimal.Decimal{req.Cash, req.Card, req.UPI} {
		if amt.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "payment amounts cannot be negative")
		}
	}

	salesType := strings.TrimSpace(req.SalesType)
	if salesType == "" {
		salesType = sales.SalesTypeOther
	}
	inv, err := sales.NewInvoice(ref.BranchName, shiftID, salesType, req.PaymentType, total)
	if err != nil {
		return nil, err
	}
	inv.Cash, inv.Card, inv.UPI = req.Cash, req.Card, req.UPI
	if others := total.Sub(req.Cash.Add(req.Card).Add(req.UPI)); others.IsPositive() {
		inv.Others = others
	}
	inv.CustomerName = strings.TrimSpace(req.CustomerName)
	inv.Lines = lines

	seq, err := s.counters.Next(ctx, sequence.InvoicePrefix(ref.Alias))
	if err != nil {
		return nil, err
	}
	inv.InvoiceNo = sales.FormatInvoiceNumber(ref.Alias, seq)

	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Get retrieves an invoice by ID
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	shiftID, err := CanonicalShiftID(filter.ShiftID)
	if err != nil {
		return nil, 0, err
	}
	f := sales.InvoiceFilter{Filter: shared.DefaultFilter(), BranchName: filter.BranchName, ShiftID: shiftID}
	f.OrderBy = "date"
	f.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if f.Date, err = shared.DayRange(filter.FromDate, filter.ToDate); err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, len(list))
	for i := range list {
		out[i] = ToInvoiceResponse(&list[i])
	}
	return out, total, nil
}
