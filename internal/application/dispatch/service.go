package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BranchResolver maps a branch name to its alias and warehouse
type BranchResolver interface {
	ResolveAlias(ctx context.Context, branchName string) (*appregistry.BranchRef, error)
}

// DriverDirectory looks up drivers for phone number enrichment
type DriverDirectory interface {
	FindDriver(ctx context.Context, firstName string) (*registry.Employee, bool, error)
}

// Sequencer draws the next value of a named counter
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// Stock is the stock primitive the dispatch engine moves goods with
type Stock interface {
	ResolveItem(ctx context.Context, ref appregistry.ItemRef) (*registry.WarehouseItem, error)
	AdjustWarehouse(ctx context.Context, ref appregistry.ItemRef, warehouseName string, delta decimal.Decimal) (decimal.Decimal, error)
	AdjustBranch(ctx context.Context, line appregistry.BranchLine, alias string, delta decimal.Decimal) error
}

// Service runs the dispatch lifecycle: warehouse debit on create, branch
// credit on receipt and warehouse restore on cancel
type Service struct {
	repo           dispatch.Repository
	orders         sales.SaleOrderRepository
	branches       BranchResolver
	drivers        DriverDirectory
	counters       Sequencer
	stock          Stock
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewService creates a new dispatch Service
func NewService(
	repo dispatch.Repository,
	orders sales.SaleOrderRepository,
	branches BranchResolver,
	drivers DriverDirectory,
	counters Sequencer,
	stock Stock,
) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		branches: branches,
		drivers:  drivers,
		counters: counters,
		stock:    stock,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create validates and numbers a dispatch, then debits the source warehouse
// line by line. A failed debit reverses the earlier ones and removes the
// dispatch.
func (s *Service) Create(ctx context.Context, req CreateDispatchRequest) (*DispatchResponse, error) {
	log := logger.L(ctx)

	typ, err := dispatch.ParseType(req.Type)
	if err != nil {
		return nil, err
	}
	sent, err := valueobject.Normalize(req.Qty, req.Weight)
	if err != nil {
		return nil, shared.Newf(shared.ErrInvalidInput, "%s", err.Error())
	}
	if len(sent) > len(req.ItemCode) {
		return nil, shared.Newf(shared.ErrInvalidInput, "%d quantities for %d items", len(sent), len(req.ItemCode))
	}

	branch, err := s.branches.ResolveAlias(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	if branch.WarehouseName == "" {
		return nil, shared.Newf(shared.ErrDependencyMissing, "branch %q has no warehouse", branch.BranchName)
	}

	lines := make([]dispatch.Line, len(req.ItemCode))
	for i, code := range req.ItemCode {
		name := at(req.VarianceName, i)
		item, err := s.stock.ResolveItem(ctx, appregistry.ItemRef{Code: strings.TrimSpace(code), VarianceName: name})
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = item.VarianceName
		}
		q := valueobject.Count(decimal.Zero)
		if i < len(sent) {
			q = sent[i]
		}
		lines[i] = dispatch.Line{ItemCode: item.VarianceItemCode, VarianceName: name, Sent: q}
	}

	var order *sales.SaleOrder
	if typ == dispatch.TypeSO {
		if order, err = s.linkedOrder(ctx, req.SaleOrderNo); err != nil {
			return nil, err
		}
		if !order.Status.CanTransitionTo(sales.StatusDispatched) {
			return nil, shared.Newf(shared.ErrInvalidState,
				"sale order %s cannot be dispatched from %s", order.SaleOrderNo, order.Status)
		}
	}

	d, err := dispatch.NewDispatch(typ, branch.BranchName, branch.Alias, branch.WarehouseName, lines)
	if err != nil {
		return nil, err
	}
	d.CreatedBy = strings.TrimSpace(req.CreatedBy)
	d.DriverName = strings.TrimSpace(req.DriverName)
	d.VehicleNumber = strings.TrimSpace(req.VehicleNumber)
	d.Remarks = strings.TrimSpace(req.Remarks)
	d.DriverNumber = s.driverNumber(ctx, d.DriverName)
	if order != nil {
		d.SaleOrderNo = order.SaleOrderNo
	}

	seq, err := s.counters.Next(ctx, sequence.PrefixDispatch)
	if err != nil {
		return nil, err
	}
	d.AssignNumber(seq)

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}

	debits := make([]decimal.Decimal, len(d.Lines))
	for i, l := range d.Lines {
		debits[i] = l.Sent.Amount().Neg()
	}
	if err := s.moveWarehouse(ctx, d, debits); err != nil {
		if delErr := s.repo.Delete(ctx, d.ID); delErr != nil {
			log.Error("failed to remove dispatch after debit failure",
				zap.String("dispatch_no", d.DispatchNo), zap.Error(delErr))
		}
		return nil, err
	}

	if order != nil {
		s.moveOrder(ctx, order, sales.StatusDispatched)
	}

	log.Info("dispatch created",
		zap.String("dispatch_no", d.DispatchNo),
		zap.String("branch", d.BranchName),
		zap.Int("lines", len(d.Lines)),
	)
	s.publish(ctx, d)

	response := ToDispatchResponse(d)
	return &response, nil
}

// Patch merges non-status fields and, when a status is given, runs the
// matching transition
func (s *Service) Patch(ctx context.Context, id uuid.UUID, req PatchDispatchRequest) (*DispatchResponse, error) {
	if req.Status != nil {
		status, err := dispatch.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		switch status {
		case dispatch.StatusReceived, dispatch.StatusPendingApproval:
			return s.Receive(ctx, id, status, req)
		case dispatch.StatusCancelled:
			return s.Cancel(ctx, id)
		default:
			return nil, shared.Newf(shared.ErrInvalidInput, "status %q cannot be set directly", status)
		}
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := d.Version
	if err := s.mergeFields(d, req); err != nil {
		return nil, err
	}
	settle(d, loaded)
	if err := s.repo.SaveWithLock(ctx, d); err != nil {
		return nil, err
	}
	response := ToDispatchResponse(d)
	return &response, nil
}

// Receive records what arrived at the branch and credits branch stock. The
// first receipt credits every received amount; a later
// pending_approval -> received credits only the per-line difference.
func (s *Service) Receive(ctx context.Context, id uuid.UUID, to dispatch.Status, req PatchDispatchRequest) (*DispatchResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := d.Version

	received, err := valueobject.Normalize(req.ReceivedQty, req.ReceivedWeight)
	if err != nil {
		return nil, shared.Newf(shared.ErrInvalidInput, "%s", err.Error())
	}
	at := s.now()
	if req.ReceivedTime != nil && strings.TrimSpace(*req.ReceivedTime) != "" {
		if at, err = shared.ParseTimestamp(*req.ReceivedTime); err != nil {
			return nil, err
		}
	}
	by := ""
	if req.ReceivedBy != nil {
		by = strings.TrimSpace(*req.ReceivedBy)
	}

	deltas, err := d.Receive(to, received, at, by)
	if err != nil {
		return nil, err
	}
	if req.hasDetails() || len(req.ApprovalDetails) > 0 {
		if err := s.mergeFields(d, req); err != nil && !errors.Is(err, shared.ErrNoChange) {
			return nil, err
		}
	}

	settle(d, loaded)

	if err := s.moveBranch(ctx, d, deltas); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, d); err != nil {
		s.reverseBranch(ctx, d, deltas, len(deltas))
		return nil, err
	}

	logger.L(ctx).Info("dispatch received",
		zap.String("dispatch_no", d.DispatchNo),
		zap.String("status", string(d.Status)),
	)
	s.publish(ctx, d)

	response := ToDispatchResponse(d)
	return &response, nil
}

// Cancel cancels a dispatch and puts the sent goods back into the source
// warehouse. Branch stock already credited by a receipt stays as it is.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*DispatchResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Cancel(); err != nil {
		return nil, err
	}

	restores := make([]decimal.Decimal, len(d.Lines))
	for i, l := range d.Lines {
		restores[i] = l.Sent.Amount()
	}
	if err := s.moveWarehouse(ctx, d, restores); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, d); err != nil {
		s.reverseWarehouse(ctx, d, restores, len(restores))
		return nil, err
	}

	if d.Type == dispatch.TypeSO && d.SaleOrderNo != "" {
		if order, err := s.linkedOrder(ctx, d.SaleOrderNo); err != nil {
			logger.L(ctx).Warn("linked sale order not found on cancel",
				zap.String("sale_order_no", d.SaleOrderNo), zap.Error(err))
		} else {
			s.moveOrder(ctx, order, sales.StatusProductionEntry)
		}
	}

	logger.L(ctx).Info("dispatch cancelled", zap.String("dispatch_no", d.DispatchNo))
	s.publish(ctx, d)

	response := ToDispatchResponse(d)
	return &response, nil
}

// Get retrieves a dispatch by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DispatchResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDispatchResponse(d)
	return &response, nil
}

// GetByNumber retrieves a dispatch by its DI number
func (s *Service) GetByNumber(ctx context.Context, dispatchNo string) (*DispatchResponse, error) {
	d, err := s.repo.FindByNumber(ctx, dispatchNo)
	if err != nil {
		return nil, err
	}
	response := ToDispatchResponse(d)
	return &response, nil
}

// List retrieves dispatches
func (s *Service) List(ctx context.Context, filter ListFilter) ([]DispatchResponse, int64, error) {
	f := dispatch.Filter{
		Filter:        shared.DefaultFilter(),
		BranchName:    filter.BranchName,
		WarehouseName: filter.WarehouseName,
	}
	f.OrderBy = "date"
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
	f.Search = strings.TrimSpace(filter.Search)

	if filter.Type != "" {
		typ, err := dispatch.ParseType(filter.Type)
		if err != nil {
			return nil, 0, err
		}
		f.Type = typ
	}
	for _, raw := range splitValues(filter.Status) {
		st, err := dispatch.ParseStatus(raw)
		if err != nil {
			return nil, 0, err
		}
		f.Statuses = append(f.Statuses, st)
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
	out := make([]DispatchResponse, len(list))
	for i := range list {
		out[i] = ToDispatchResponse(&list[i])
	}
	return out, total, nil
}

// Delete removes a dispatch. Only cancelled dispatches can go, since the
// others still account for stock.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != dispatch.StatusCancelled {
		return shared.Newf(shared.ErrInvalidState, "dispatch %s must be cancelled before it is deleted", d.DispatchNo)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) mergeFields(d *dispatch.Dispatch, req PatchDispatchRequest) error {
	changed := false
	if req.hasDetails() {
		err := d.UpdateDetails(req.details())
		switch {
		case err == nil:
			changed = true
		case !errors.Is(err, shared.ErrNoChange):
			return err
		}
	}
	for _, a := range req.ApprovalDetails {
		if a.ApprovalDate.IsZero() {
			a.ApprovalDate = s.now().UTC()
		}
		d.AppendApproval(a)
		changed = true
	}
	if !changed {
		return shared.Newf(shared.ErrNoChange, "dispatch %s was not modified", d.DispatchNo)
	}
	return nil
}

// moveWarehouse applies deltas[i] to line i in the dispatch warehouse. On
// failure the lines already moved are moved back.
func (s *Service) moveWarehouse(ctx context.Context, d *dispatch.Dispatch, deltas []decimal.Decimal) error {
	for i, l := range d.Lines {
		if deltas[i].IsZero() {
			continue
		}
		ref := appregistry.ItemRef{Code: l.ItemCode, VarianceName: l.VarianceName}
		if _, err := s.stock.AdjustWarehouse(ctx, ref, d.WarehouseName, deltas[i]); err != nil {
			s.reverseWarehouse(ctx, d, deltas, i)
			return err
		}
	}
	return nil
}

func (s *Service) reverseWarehouse(ctx context.Context, d *dispatch.Dispatch, deltas []decimal.Decimal, upto int) {
	for j := 0; j < upto; j++ {
		if deltas[j].IsZero() {
			continue
		}
		l := d.Lines[j]
		ref := appregistry.ItemRef{Code: l.ItemCode, VarianceName: l.VarianceName}
		if _, err := s.stock.AdjustWarehouse(ctx, ref, d.WarehouseName, deltas[j].Neg()); err != nil {
			logger.L(ctx).Error("failed to reverse warehouse stock",
				zap.String("dispatch_no", d.DispatchNo),
				zap.String("item_code", l.ItemCode),
				zap.Error(err),
			)
		}
	}
}

// moveBranch applies deltas[i] to line i at the receiving branch, undoing
// earlier lines on failure
func (s *Service) moveBranch(ctx context.Context, d *dispatch.Dispatch, deltas []decimal.Decimal) error {
	for i, l := range d.Lines {
		if deltas[i].IsZero() {
			continue
		}
		if err := s.stock.AdjustBranch(ctx, branchLine(l), d.BranchAlias, deltas[i]); err != nil {
			s.reverseBranch(ctx, d, deltas, i)
			return err
		}
	}
	return nil
}

func (s *Service) reverseBranch(ctx context.Context, d *dispatch.Dispatch, deltas []decimal.Decimal, upto int) {
	for j := 0; j < upto; j++ {
		if deltas[j].IsZero() {
			continue
		}
		if err := s.stock.AdjustBranch(ctx, branchLine(d.Lines[j]), d.BranchAlias, deltas[j].Neg()); err != nil {
			logger.L(ctx).Error("failed to reverse branch stock",
				zap.String("dispatch_no", d.DispatchNo),
				zap.String("variance_name", d.Lines[j].VarianceName),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) linkedOrder(ctx context.Context, saleOrderNo string) (*sales.SaleOrder, error) {
	if strings.TrimSpace(saleOrderNo) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "saleOrderNo is required for SO dispatches")
	}
	order, err := s.orders.FindByNumber(ctx, saleOrderNo)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.Newf(shared.ErrDependencyMissing, "sale order %s not found", saleOrderNo)
	}
	return order, err
}

// moveOrder transitions the linked sale order. Failures are logged: the
// dispatch itself has already been committed.
func (s *Service) moveOrder(ctx context.Context, order *sales.SaleOrder, to sales.Status) {
	err := order.TransitionTo(to)
	if errors.Is(err, shared.ErrNoChange) {
		return
	}
	if err == nil {
		err = s.orders.SaveWithLock(ctx, order)
	}
	if err != nil {
		logger.L(ctx).Warn("failed to move linked sale order",
			zap.String("sale_order_no", order.SaleOrderNo),
			zap.String("to", string(to)),
			zap.Error(err),
		)
	}
}

func (s *Service) driverNumber(ctx context.Context, name string) string {
	if name == "" || s.drivers == nil {
		return ""
	}
	driver, ok, err := s.drivers.FindDriver(ctx, name)
	if err != nil {
		logger.L(ctx).Warn("driver lookup failed", zap.String("driver", name), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return driver.PhoneNumber
}

func (s *Service) publish(ctx context.Context, d *dispatch.Dispatch) {
	events := d.GetDomainEvents()
	d.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish dispatch events",
			zap.String("dispatch_no", d.DispatchNo), zap.Error(err))
	}
}

// settle collapses the version bumps of several in-memory edits into the
// single step SaveWithLock expects
func settle(d *dispatch.Dispatch, loaded int) {
	d.Version = loaded + 1
}

func branchLine(l dispatch.Line) appregistry.BranchLine {
	return appregistry.BranchLine{VarianceName: l.VarianceName, ItemCode: l.ItemCode}
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

// splitValues accepts both repeated and comma separated query values
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
