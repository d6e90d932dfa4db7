package sales

import (
	"context"
	"strings"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BranchResolver maps a branch name to its alias
type BranchResolver interface {
	ResolveAlias(ctx context.Context, branchName string) (*appregistry.BranchRef, error)
}

// Sequencer draws the next value of a named counter
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// OrderService handles sale orders, held orders and their approval log
type OrderService struct {
	repo     sales.SaleOrderRepository
	invoices sales.InvoiceRepository
	branches BranchResolver
	counters Sequencer
	now      func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(repo sales.SaleOrderRepository, invoices sales.InvoiceRepository, branches BranchResolver, counters Sequencer) *OrderService {
	return &OrderService{
		repo:     repo,
		invoices: invoices,
		branches: branches,
		counters: counters,
		now:      time.Now,
	}
}

// Create creates an order of kind. Sale orders are numbered SO<ALIAS>####
// at once; held orders stay unnumbered until they are converted.
func (s *OrderService) Create(ctx context.Context, kind sales.Kind, req CreateOrderRequest) (*OrderResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	lines, err := toDomainLines(req.Items)
	if err != nil {
		return nil, err
	}
	var status sales.Status
	if req.Status != "" {
		if status, err = sales.ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}
	o, err := sales.NewSaleOrder(kind, ref.BranchName, status, lines)
	if err != nil {
		return nil, err
	}
	o.CustomerName = strings.TrimSpace(req.CustomerName)
	o.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	o.CustomerAddress = strings.TrimSpace(req.CustomerAddress)
	o.Remarks = strings.TrimSpace(req.Remarks)
	o.CreatedBy = strings.TrimSpace(req.CreatedBy)
	if req.DeliveryDate != "" {
		at, err := shared.ParseTimestamp(req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		o.DeliveryDate = &at
	}
	advances, err := toDomainAdvances(req.Advances)
	if err != nil {
		return nil, err
	}
	for _, a := range advances {
		if err := o.AddAdvance(a); err != nil {
			return nil, err
		}
	}

	if kind == sales.KindSaleOrder {
		seq, err := s.counters.Next(ctx, sequence.SaleOrderPrefix(ref.Alias))
		if err != nil {
			return nil, err
		}
		o.AssignNumber(ref.Alias, seq)
	} else {
		o.BranchAlias = ref.Alias
	}

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("order created",
		zap.String("kind", string(kind)),
		zap.String("sale_order_no", o.SaleOrderNo),
		zap.String("branch", o.BranchName),
	)
	response := ToOrderResponse(o)
	return &response, nil
}

// Get retrieves an order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByNumber retrieves a sale order by its number
func (s *OrderService) GetByNumber(ctx context.Context, saleOrderNo string) (*OrderResponse, error) {
	o, err := s.repo.FindByNumber(ctx, saleOrderNo)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders of kind
func (s *OrderService) List(ctx context.Context, kind sales.Kind, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := sales.Filter{Filter: shared.DefaultFilter(), Kind: kind, BranchName: filter.BranchName}
	f.OrderBy = "order_date"
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
	for _, v := range filter.Status {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			st, err := sales.ParseStatus(part)
			if err != nil {
				return nil, 0, err
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	r, err := shared.DayRange(filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, 0, err
	}
	f.Date = r

	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(list))
	for i := range list {
		out[i] = ToOrderResponse(&list[i])
	}
	return out, total, nil
}

// Patch merges top-level fields. A status moves through the transition table
// and advances append with their shift ids.
func (s *OrderService) Patch(ctx context.Context, id uuid.UUID, req PatchOrderRequest) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := sales.Patch{
		CustomerName:    trimmed(req.CustomerName),
		CustomerPhone:   trimmed(req.CustomerPhone),
		CustomerAddress: trimmed(req.CustomerAddress),
		Remarks:         trimmed(req.Remarks),
		TotalAmount:     req.TotalAmount,
	}
	if req.DeliveryDate != nil {
		at, err := shared.ParseTimestamp(*req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		p.DeliveryDate = &at
	}
	if p.Lines, err = toDomainLines(req.Items); err != nil {
		return nil, err
	}
	if req.Status != nil {
		st, err := sales.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		p.Status = &st
	}
	if p.Advances, err = toDomainAdvances(req.Advances); err != nil {
		return nil, err
	}

	if err := o.Apply(p); err != nil {
		return nil, err
	}
	return s.save(ctx, o)
}

// PatchApproval overwrites the most recent approval entry, or records the
// first one when the log is empty
func (s *OrderService) PatchApproval(ctx context.Context, id uuid.UUID, req ApprovalRequest) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.PatchApproval(req.detail(s.now()))
	return s.save(ctx, o)
}

// AppendApproval adds an approval entry to the end of the log
func (s *OrderService) AppendApproval(ctx context.Context, id uuid.UUID, req ApprovalRequest) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.AppendApproval(req.detail(s.now()))
	return s.save(ctx, o)
}

// ConvertHeld turns a held order into a numbered sale order
func (s *OrderService) ConvertHeld(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Kind != sales.KindHeldOrder {
		return nil, shared.Newf(shared.ErrInvalidState, "order %s is not a held order", o.ID)
	}
	ref, err := s.branches.ResolveAlias(ctx, o.BranchName)
	if err != nil {
		return nil, err
	}
	seq, err := s.counters.Next(ctx, sequence.SaleOrderPrefix(ref.Alias))
	if err != nil {
		return nil, err
	}
	if err := o.ConvertToSaleOrder(ref.Alias, seq); err != nil {
		return nil, err
	}
	return s.save(ctx, o)
}

// CreateInvoice bills a sale order from its snapshot and completes it. The
// order is saved as completed before the invoice is written; a concurrent
// second invoice fails the version check.
func (s *OrderService) CreateInvoice(ctx context.Context, id uuid.UUID, req CreateOrderInvoiceRequest) (*InvoiceResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Kind != sales.KindSaleOrder {
		return nil, shared.Newf(shared.ErrInvalidState, "held orders cannot be invoiced")
	}
	if o.Status == sales.StatusCompleted {
		return nil, shared.Newf(shared.ErrInvalidState, "sale order %s is already invoiced", o.SaleOrderNo)
	}
	shiftID, err := CanonicalShiftID(req.ShiftID)
	if err != nil {
		return nil, err
	}
	inv, err := sales.InvoiceFromSaleOrder(o, shiftID, req.PaymentType, req.Cash, req.Card, req.UPI)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(sales.StatusCompleted); err != nil {
		return nil, err
	}

	seq, err := s.counters.Next(ctx, sequence.InvoicePrefix(o.BranchAlias))
	if err != nil {
		return nil, err
	}
	inv.InvoiceNo = sales.FormatInvoiceNumber(o.BranchAlias, seq)

	if err := s.repo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		logger.L(ctx).Error("sale order completed without its invoice",
			zap.String("sale_order_no", o.SaleOrderNo),
			zap.String("invoice_no", inv.InvoiceNo),
			zap.Error(err),
		)
		return nil, err
	}

	logger.L(ctx).Info("sale order invoiced",
		zap.String("sale_order_no", o.SaleOrderNo),
		zap.String("invoice_no", inv.InvoiceNo),
	)
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete deletes an order
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *OrderService) save(ctx context.Context, o *sales.SaleOrder) (*OrderResponse, error) {
	if err := s.repo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
