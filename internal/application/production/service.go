package production

import (
	"context"
	"errors"
	"strings"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/production"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BranchResolver maps a branch name to its warehouse
type BranchResolver interface {
	ResolveAlias(ctx context.Context, branchName string) (*appregistry.BranchRef, error)
}

// Sequencer draws the next value of a named counter
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// WarehouseStock moves warehouse stock and resolves item masters
type WarehouseStock interface {
	ResolveItem(ctx context.Context, ref appregistry.ItemRef) (*registry.WarehouseItem, error)
	AdjustWarehouse(ctx context.Context, ref appregistry.ItemRef, warehouseName string, delta decimal.Decimal) (decimal.Decimal, error)
}

// Service records production into warehouses
type Service struct {
	repo     production.Repository
	orders   sales.SaleOrderRepository
	branches BranchResolver
	counters Sequencer
	stock    WarehouseStock
}

// NewService creates a new production Service
func NewService(
	repo production.Repository,
	orders sales.SaleOrderRepository,
	branches BranchResolver,
	counters Sequencer,
	stock WarehouseStock,
) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		branches: branches,
		counters: counters,
		stock:    stock,
	}
}

// Create records a production entry and credits the warehouse
func (s *Service) Create(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	lines := make([]production.Line, len(req.ItemCode))
	for i, code := range req.ItemCode {
		lines[i] = production.Line{
			ItemCode:        strings.TrimSpace(code),
			ItemName:        pick(req.ItemName, i),
			VarianceName:    pick(req.VarianceName, i),
			MeasurementType: measurement(pick(req.MeasurementType, i)),
			UOM:             pick(req.UOM, i),
			Qty:             pickDecimal(req.Qty, i),
			Weight:          pickDecimal(req.Weight, i),
			Remarks:         pick(req.Remarks, i),
		}
	}
	e, err := production.NewEntry(req.WarehouseName, lines)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = strings.TrimSpace(req.CreatedBy)
	return s.record(ctx, e, nil)
}

// CreateFromSaleOrder produces the lines of a sale order and moves the order
// to ProductionEntry
func (s *Service) CreateFromSaleOrder(ctx context.Context, req FromSaleOrderRequest) (*EntryResponse, error) {
	order, err := s.orders.FindByNumber(ctx, req.SaleOrderNo)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.Newf(shared.ErrDependencyMissing, "sale order %s not found", req.SaleOrderNo)
		}
		return nil, err
	}
	if !order.Status.CanTransitionTo(sales.StatusProductionEntry) {
		return nil, shared.Newf(shared.ErrInvalidState,
			"sale order %s cannot enter production from %s", order.SaleOrderNo, order.Status)
	}

	warehouse := strings.TrimSpace(req.WarehouseName)
	if warehouse == "" {
		ref, err := s.branches.ResolveAlias(ctx, order.BranchName)
		if err != nil {
			return nil, err
		}
		warehouse = ref.WarehouseName
	}

	lines := make([]production.Line, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = production.Line{
			ItemCode:     l.ItemCode,
			ItemName:     l.ItemName,
			VarianceName: l.VarianceName,
			UOM:          l.UOM,
			Qty:          l.Qty,
			Weight:       l.Weight,
		}
	}
	e, err := production.NewEntry(warehouse, lines)
	if err != nil {
		return nil, err
	}
	e.Type = production.TypeSaleOrder
	e.SaleOrderNo = order.SaleOrderNo
	e.CreatedBy = strings.TrimSpace(req.CreatedBy)
	return s.record(ctx, e, order)
}

func (s *Service) record(ctx context.Context, e *production.Entry, order *sales.SaleOrder) (*EntryResponse, error) {
	for i := range e.Lines {
		l := &e.Lines[i]
		if l.MeasurementType != "" && l.VarianceName != "" {
			continue
		}
		item, err := s.stock.ResolveItem(ctx, appregistry.ItemRef{Code: l.ItemCode, VarianceName: l.VarianceName})
		if err != nil {
			return nil, err
		}
		if l.MeasurementType == "" {
			l.MeasurementType = item.MeasurementType
		}
		if l.VarianceName == "" {
			l.VarianceName = item.VarianceName
		}
	}
	for _, l := range e.Lines {
		if _, tracked := l.StockDelta(); !tracked {
			logger.L(ctx).Warn("production line skipped: measurement type moves no stock",
				zap.String("warehouse", e.WarehouseName),
				zap.String("item_code", l.ItemCode),
				zap.String("measurement_type", string(l.MeasurementType)),
			)
		}
	}

	seq, err := s.counters.Next(ctx, sequence.PrefixProductionEntry)
	if err != nil {
		return nil, err
	}
	e.AssignNumber(seq)

	changes := e.Credits()
	if err := s.apply(ctx, e, changes); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		s.reverse(ctx, e, changes, len(changes))
		return nil, err
	}

	if order != nil {
		if err := order.TransitionTo(sales.StatusProductionEntry); err == nil {
			err = s.orders.SaveWithLock(ctx, order)
			if err != nil {
				logger.L(ctx).Warn("failed to move sale order to production",
					zap.String("sale_order_no", order.SaleOrderNo), zap.Error(err))
			}
		}
	}

	logger.L(ctx).Info("production entry created",
		zap.String("number", e.ProductionEntryNumber),
		zap.String("warehouse", e.WarehouseName),
		zap.Int("lines", len(e.Lines)),
	)
	response := ToEntryResponse(e)
	return &response, nil
}

// RemoveItem cancels one line and takes its amount back out of the warehouse
func (s *Service) RemoveItem(ctx context.Context, id uuid.UUID, itemCode string) (*EntryResponse, error) {
	return s.mutate(ctx, id, func(e *production.Entry) ([]production.StockChange, error) {
		return e.RemoveItem(strings.TrimSpace(itemCode))
	})
}

// Deactivate cancels every line and reverses all of the entry's credits
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	return s.mutate(ctx, id, func(e *production.Entry) ([]production.StockChange, error) {
		return e.Deactivate()
	})
}

// EditQuantities sets new amounts and applies new - old to warehouse stock
func (s *Service) EditQuantities(ctx context.Context, id uuid.UUID, req EditQuantitiesRequest) (*EntryResponse, error) {
	edits := make([]production.LineEdit, len(req.ItemCode))
	for i, code := range req.ItemCode {
		edits[i] = production.LineEdit{
			ItemCode: strings.TrimSpace(code),
			Qty:      pickDecimal(req.Qty, i),
			Weight:   pickDecimal(req.Weight, i),
		}
	}
	return s.mutate(ctx, id, func(e *production.Entry) ([]production.StockChange, error) {
		return e.EditQuantities(edits)
	})
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*production.Entry) ([]production.StockChange, error)) (*EntryResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes, err := fn(e)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, e, changes); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, e); err != nil {
		s.reverse(ctx, e, changes, len(changes))
		return nil, err
	}
	response := ToEntryResponse(e)
	return &response, nil
}

func (s *Service) apply(ctx context.Context, e *production.Entry, changes []production.StockChange) error {
	for i, c := range changes {
		if _, err := s.stock.AdjustWarehouse(ctx, appregistry.ItemRef{Code: c.ItemCode}, e.WarehouseName, c.Delta); err != nil {
			s.reverse(ctx, e, changes, i)
			return err
		}
	}
	return nil
}

func (s *Service) reverse(ctx context.Context, e *production.Entry, changes []production.StockChange, upto int) {
	for _, c := range changes[:upto] {
		if _, err := s.stock.AdjustWarehouse(ctx, appregistry.ItemRef{Code: c.ItemCode}, e.WarehouseName, c.Delta.Neg()); err != nil {
			logger.L(ctx).Error("failed to reverse production stock",
				zap.String("number", e.ProductionEntryNumber),
				zap.String("item_code", c.ItemCode),
				zap.Error(err),
			)
		}
	}
}

// Get retrieves a production entry by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(e)
	return &response, nil
}

// List retrieves production entries
func (s *Service) List(ctx context.Context, filter ListFilter) ([]EntryResponse, int64, error) {
	f := production.Filter{
		Filter:        shared.DefaultFilter(),
		WarehouseName: filter.WarehouseName,
		Status:        production.Status(filter.Status),
	}
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
	r, err := shared.DayRange(filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, 0, err
	}
	f.Date = r

	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EntryResponse, len(list))
	for i := range list {
		out[i] = ToEntryResponse(&list[i])
	}
	return out, total, nil
}
