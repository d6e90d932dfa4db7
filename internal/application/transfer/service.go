package transfer

import (
	"context"
	"strings"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultListDays is the look-back window of a listing without days
const DefaultListDays = 3

// BranchResolver maps a branch name to its alias
type BranchResolver interface {
	ResolveAlias(ctx context.Context, branchName string) (*appregistry.BranchRef, error)
}

// Sequencer draws the next value of a named counter
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// BranchStock credits and debits branchwise stock
type BranchStock interface {
	Credit(ctx context.Context, line appregistry.BranchLine, alias string, amount decimal.Decimal) error
	Debit(ctx context.Context, line appregistry.BranchLine, alias string, amount decimal.Decimal) error
}

// Service handles branch to branch item transfers
type Service struct {
	repo     transfer.Repository
	branches BranchResolver
	counters Sequencer
	stock    BranchStock
	now      func() time.Time
}

// NewService creates a new transfer Service
func NewService(repo transfer.Repository, branches BranchResolver, counters Sequencer, stock BranchStock) *Service {
	return &Service{
		repo:     repo,
		branches: branches,
		counters: counters,
		stock:    stock,
		now:      time.Now,
	}
}

// Create records a pending transfer request
func (s *Service) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	from, err := s.branches.ResolveAlias(ctx, req.FromBranch)
	if err != nil {
		return nil, err
	}
	to, err := s.branches.ResolveAlias(ctx, req.ToBranch)
	if err != nil {
		return nil, err
	}
	t, err := transfer.NewItemTransfer(from.BranchName, to.BranchName, req.lines())
	if err != nil {
		return nil, err
	}
	t.RequestedBy = strings.TrimSpace(req.RequestedBy)
	t.Remarks = strings.TrimSpace(req.Remarks)

	seq, err := s.counters.Next(ctx, sequence.PrefixItemTransfer)
	if err != nil {
		return nil, err
	}
	t.TransferNo = transfer.FormatNumber(seq)

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("item transfer requested",
		zap.String("transfer_no", t.TransferNo),
		zap.String("from", t.FromBranch),
		zap.String("to", t.ToBranch),
	)
	response := ToTransferResponse(t)
	return &response, nil
}

// Transition moves a transfer along its status table. Sent debits the source
// branch by the sent quantities, Received credits the destination branch.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*TransferResponse, error) {
	to, err := transfer.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var (
		alias  string
		amount func(transfer.Line) decimal.Decimal
		move   func(context.Context, appregistry.BranchLine, string, decimal.Decimal) error
		undo   func(context.Context, appregistry.BranchLine, string, decimal.Decimal) error
	)
	switch to {
	case transfer.StatusSent:
		if err := t.Send(req.SendQty, now); err != nil {
			return nil, err
		}
		ref, err := s.branches.ResolveAlias(ctx, t.FromBranch)
		if err != nil {
			return nil, err
		}
		alias = ref.Alias
		amount = func(l transfer.Line) decimal.Decimal { return l.SendQty }
		move, undo = s.stock.Debit, s.stock.Credit
	case transfer.StatusReceived:
		if err := t.Receive(req.ReceivedQty, now); err != nil {
			return nil, err
		}
		ref, err := s.branches.ResolveAlias(ctx, t.ToBranch)
		if err != nil {
			return nil, err
		}
		alias = ref.Alias
		amount = func(l transfer.Line) decimal.Decimal { return l.ReceivedQty }
		move, undo = s.stock.Credit, s.stock.Debit
	case transfer.StatusRejected:
		if err := t.Reject(now, strings.TrimSpace(req.Remarks)); err != nil {
			return nil, err
		}
	default:
		return nil, shared.Newf(shared.ErrInvalidInput, "status %q cannot be set directly", to)
	}

	done := 0
	if move != nil {
		for _, l := range t.Lines {
			if amt := amount(l); !amt.IsZero() {
				if err := move(ctx, stockLine(l), alias, amt); err != nil {
					s.undo(ctx, t, alias, amount, undo, done)
					return nil, err
				}
			}
			done++
		}
	}
	if err := s.repo.SaveWithLock(ctx, t); err != nil {
		if move != nil {
			s.undo(ctx, t, alias, amount, undo, done)
		}
		return nil, err
	}

	logger.L(ctx).Info("item transfer moved",
		zap.String("transfer_no", t.TransferNo),
		zap.String("status", string(t.Status)),
	)
	response := ToTransferResponse(t)
	return &response, nil
}

func (s *Service) undo(
	ctx context.Context,
	t *transfer.ItemTransfer,
	alias string,
	amount func(transfer.Line) decimal.Decimal,
	undo func(context.Context, appregistry.BranchLine, string, decimal.Decimal) error,
	upto int,
) {
	for _, l := range t.Lines[:upto] {
		amt := amount(l)
		if amt.IsZero() {
			continue
		}
		if err := undo(ctx, stockLine(l), alias, amt); err != nil {
			logger.L(ctx).Error("failed to reverse transfer stock",
				zap.String("transfer_no", t.TransferNo),
				zap.String("item", l.StockKey()),
				zap.Error(err),
			)
		}
	}
}

// Get retrieves a transfer by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// List retrieves transfers touched within the last filter.Days days
func (s *Service) List(ctx context.Context, filter ListFilter) ([]TransferResponse, int64, error) {
	days := filter.Days
	if days <= 0 {
		days = DefaultListDays
	}
	f := transfer.Filter{
		Filter:     shared.DefaultFilter(),
		FromBranch: filter.FromBranch,
		ToBranch:   filter.ToBranch,
		Branch:     filter.Branch,
		Since:      s.now().Add(-time.Duration(days) * 24 * time.Hour),
	}
	f.OrderBy = "request_date_time"
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
			st, err := transfer.ParseStatus(part)
			if err != nil {
				return nil, 0, err
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TransferResponse, len(list))
	for i := range list {
		out[i] = ToTransferResponse(&list[i])
	}
	return out, total, nil
}

// Delete removes a transfer that has not moved stock yet
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != transfer.StatusPending {
		return shared.Newf(shared.ErrInvalidState, "transfer %s is %s", t.TransferNo, t.Status)
	}
	return s.repo.Delete(ctx, id)
}

func stockLine(l transfer.Line) appregistry.BranchLine {
	return appregistry.BranchLine{VarianceName: l.StockKey(), ItemCode: l.ItemCode, ItemName: l.ItemName}
}
