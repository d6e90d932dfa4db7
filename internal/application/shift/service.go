package shift

import (
	"context"
	"strings"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClosedByDayEnd is recorded on shifts closed by the branch day-end sweep
const ClosedByDayEnd = "dayend"

// BranchResolver maps a branch name to its registry entry
type BranchResolver interface {
	ResolveAlias(ctx context.Context, branchName string) (*appregistry.BranchRef, error)
}

// Ledgers is the read side of every store the day-end checks
type Ledgers struct {
	Invoices   sales.InvoiceRepository
	Orders     sales.SaleOrderRepository
	Dispatches dispatch.Repository
	Transfers  transfer.Repository
}

// Service opens and closes shifts and rolls them into day-ends
type Service struct {
	repo     shift.Repository
	dayEnds  shift.DayEndRepository
	ledgers  Ledgers
	branches BranchResolver
	locker   shared.Locker
	now      func() time.Time
}

// NewService creates a new shift Service
func NewService(repo shift.Repository, dayEnds shift.DayEndRepository, ledgers Ledgers, branches BranchResolver, locker shared.Locker) *Service {
	return &Service{
		repo:     repo,
		dayEnds:  dayEnds,
		ledgers:  ledgers,
		branches: branches,
		locker:   locker,
		now:      time.Now,
	}
}

// Open starts the next shift of a branch. The branch lock makes the
// open-shift check and the numbering atomic.
func (s *Service) Open(ctx context.Context, req OpenShiftRequest) (*ShiftResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	lease, err := s.locker.Obtain(ctx, "shift:"+registry.FoldName(ref.BranchName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lease.Release(ctx); err != nil {
			logger.L(ctx).Warn("failed to release shift lock", zap.String("branch", ref.BranchName), zap.Error(err))
		}
	}()

	open, err := s.repo.FindOpen(ctx, ref.BranchName)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, shared.Newf(shared.ErrAlreadyExists, "branch %s already has open shift %d", ref.BranchName, open[0].ShiftNumber)
	}

	at := s.now()
	last, err := s.repo.MaxShiftNumber(ctx, ref.BranchName, shared.LocalDate(at))
	if err != nil {
		return nil, err
	}
	sh, err := shift.Open(ref.BranchName, last+1, req.OpeningBalance, strings.TrimSpace(req.OpenedBy), at)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sh); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("shift opened",
		zap.String("branch", sh.BranchName),
		zap.Int("shift_number", sh.ShiftNumber),
		zap.String("local_date", sh.LocalDate),
	)
	response := ToShiftResponse(sh)
	return &response, nil
}

// Close reconciles an open shift against its invoices and advances and closes it
func (s *Service) Close(ctx context.Context, id uuid.UUID, req CloseShiftRequest) (*ShiftResponse, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.close(ctx, sh, req.manual(), req.ClosingBalance, strings.TrimSpace(req.ClosedBy)); err != nil {
		return nil, err
	}
	response := ToShiftResponse(sh)
	return &response, nil
}

func (s *Service) close(ctx context.Context, sh *shift.Shift, manual shift.ModeTotals, closingBalance decimal.Decimal, closedBy string) error {
	if sh.Status != shift.StatusOpen {
		return shared.Newf(shared.ErrInvalidState, "shift %s is already closed", sh.ID)
	}
	system, err := s.systemTotals(ctx, sh.ID)
	if err != nil {
		return err
	}
	if err := sh.Close(system, manual, closingBalance, closedBy, s.now()); err != nil {
		return err
	}
	if err := s.repo.SaveWithLock(ctx, sh); err != nil {
		return err
	}
	logger.L(ctx).Info("shift closed",
		zap.String("branch", sh.BranchName),
		zap.Int("shift_number", sh.ShiftNumber),
		zap.String("difference_type", sh.DifferenceType),
		zap.String("total_difference", sh.TotalDifference.String()),
	)
	return nil
}

func (s *Service) systemTotals(ctx context.Context, id uuid.UUID) (shift.SystemTotals, error) {
	shiftID := id.String()
	invoices, err := s.ledgers.Invoices.FindByShift(ctx, shiftID)
	if err != nil {
		return shift.SystemTotals{}, err
	}
	orders, err := s.ledgers.Orders.FindByShift(ctx, shiftID)
	if err != nil {
		return shift.SystemTotals{}, err
	}
	return shift.ComputeSystemTotals(shiftID, invoices, orders), nil
}

// Get retrieves a shift by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ShiftResponse, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToShiftResponse(sh)
	return &response, nil
}

// Recompute returns a shift with its system totals taken from the current
// ledgers. Open shifts are reconciled in memory only; closed shifts keep the
// totals stored at closing.
func (s *Service) Recompute(ctx context.Context, id uuid.UUID) (*ShiftResponse, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status == shift.StatusOpen {
		system, err := s.systemTotals(ctx, sh.ID)
		if err != nil {
			return nil, err
		}
		sh.Reconcile(system, sh.Manual)
	}
	response := ToShiftResponse(sh)
	return &response, nil
}

// List retrieves shifts, optionally for one local day given as DD-MM-YYYY
func (s *Service) List(ctx context.Context, filter ListFilter) ([]ShiftResponse, int64, error) {
	f := shift.Filter{Filter: shared.DefaultFilter(), BranchName: filter.BranchName, Status: shift.Status(filter.Status)}
	f.OrderBy = "opening_date_time"
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
	if filter.Date != "" {
		day, err := shared.ParseDayMonthYear(filter.Date)
		if err != nil {
			return nil, 0, err
		}
		f.LocalDate = shared.LocalDate(day)
	}

	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ShiftResponse, len(list))
	for i := range list {
		out[i] = ToShiftResponse(&list[i])
	}
	return out, total, nil
}

// DayEndBranch closes the remaining open shifts of a branch with zero manual
// totals, then marks every closed shift with an open day-end as day-end closed.
func (s *Service) DayEndBranch(ctx context.Context, branchName string) ([]ShiftResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, branchName)
	if err != nil {
		return nil, err
	}
	open, err := s.repo.FindOpen(ctx, ref.BranchName)
	if err != nil {
		return nil, err
	}
	for i := range open {
		if err := s.close(ctx, &open[i], shift.ZeroModeTotals(), decimal.Zero, ClosedByDayEnd); err != nil {
			return nil, err
		}
	}

	pending, err := s.repo.FindDayEndOpen(ctx, ref.BranchName)
	if err != nil {
		return nil, err
	}
	out := make([]ShiftResponse, 0, len(pending))
	for i := range pending {
		sh := &pending[i]
		if err := sh.CloseDayEnd(); err != nil {
			return nil, err
		}
		if err := s.repo.SaveWithLock(ctx, sh); err != nil {
			return nil, err
		}
		out = append(out, ToShiftResponse(sh))
	}
	logger.L(ctx).Info("branch day-end closed",
		zap.String("branch", ref.BranchName),
		zap.Int("force_closed", len(open)),
		zap.Int("shifts", len(out)),
	)
	return out, nil
}

// CreateDayEnd snapshots every closed shift of a branch whose day-end is open
func (s *Service) CreateDayEnd(ctx context.Context, branchName string) (*DayEndResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, branchName)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.FindDayEndOpen(ctx, ref.BranchName)
	if err != nil {
		return nil, err
	}
	d, err := shift.NewDayEnd(ref.BranchName, pending, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.dayEnds.Save(ctx, d); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("day-end recorded",
		zap.String("branch", d.BranchName),
		zap.Int("shifts", len(d.ShiftIDs)),
		zap.String("difference_type", d.DifferenceType),
	)
	response := ToDayEndResponse(d)
	return &response, nil
}

// ListDayEnds lists day-end snapshots, optionally for one local day given as DD-MM-YYYY
func (s *Service) ListDayEnds(ctx context.Context, branchName, date string) ([]DayEndResponse, error) {
	localDate, err := localDateParam(date)
	if err != nil {
		return nil, err
	}
	list, err := s.dayEnds.FindAll(ctx, branchName, localDate)
	if err != nil {
		return nil, err
	}
	out := make([]DayEndResponse, len(list))
	for i := range list {
		out[i] = ToDayEndResponse(&list[i])
	}
	return out, nil
}

// Validate counts what is still pending at a branch today and stores the checklist
func (s *Service) Validate(ctx context.Context, branchName string) (*ValidationResponse, error) {
	ref, err := s.branches.ResolveAlias(ctx, branchName)
	if err != nil {
		return nil, err
	}
	at := s.now()
	from, to := shared.LocalDayBounds(at)
	today := shared.DateRange{From: from, To: to}
	branch := ref.BranchName

	var approvals int64
	for _, kind := range []sales.Kind{sales.KindSaleOrder, sales.KindHeldOrder} {
		n, err := s.ledgers.Orders.CountByLastApproval(ctx, kind, branch, shared.ApprovalStatusSending, today)
		if err != nil {
			return nil, err
		}
		approvals += n
	}
	delivery, err := s.ledgers.Orders.CountByStatus(ctx, sales.KindSaleOrder, branch, []sales.Status{sales.StatusConfirmOrder}, today)
	if err != nil {
		return nil, err
	}
	dispatched, err := s.ledgers.Dispatches.CountByStatus(ctx, branch, dispatch.StatusDispatched, today)
	if err != nil {
		return nil, err
	}
	awaiting, err := s.ledgers.Dispatches.CountByStatus(ctx, branch, dispatch.StatusPendingApproval, today)
	if err != nil {
		return nil, err
	}
	transfers, err := s.ledgers.Transfers.CountPending(ctx, branch, today)
	if err != nil {
		return nil, err
	}
	open, err := s.repo.FindOpen(ctx, branch)
	if err != nil {
		return nil, err
	}

	v := &shift.DayEndValidation{
		BaseEntity: shared.NewBaseEntity(),
		BranchName: branch,
		LocalDate:  shared.LocalDate(at),
		Categories: map[string]shift.CategoryResult{
			shift.CategorySOApproval:    shift.NewCategoryResult(approvals),
			shift.CategoryDispatch:      shift.NewCategoryResult(dispatched),
			shift.CategoryItemTransfer:  shift.NewCategoryResult(transfers),
			shift.CategorySODelivery:    shift.NewCategoryResult(delivery),
			shift.CategoryStoreDispatch: shift.NewCategoryResult(awaiting),
		},
		ShiftStatus: shift.NewCategoryResult(int64(len(open))),
	}
	if err := s.dayEnds.SaveValidation(ctx, v); err != nil {
		return nil, err
	}
	response := ToValidationResponse(v)
	return &response, nil
}

// ListValidations lists stored checklists, optionally for one local day given as DD-MM-YYYY
func (s *Service) ListValidations(ctx context.Context, branchName, date string) ([]ValidationResponse, error) {
	localDate, err := localDateParam(date)
	if err != nil {
		return nil, err
	}
	list, err := s.dayEnds.FindValidations(ctx, branchName, localDate)
	if err != nil {
		return nil, err
	}
	out := make([]ValidationResponse, len(list))
	for i := range list {
		out[i] = ToValidationResponse(&list[i])
	}
	return out, nil
}

func localDateParam(date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return "", nil
	}
	day, err := shared.ParseDayMonthYear(date)
	if err != nil {
		return "", err
	}
	return shared.LocalDate(day), nil
}
