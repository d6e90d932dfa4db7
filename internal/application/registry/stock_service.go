package registry

import (
	"context"
	"errors"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metric scopes of a stock adjustment
const (
	ScopeWarehouse = "warehouse"
	ScopeBranch    = "branch"
)

// StockOptions tunes the compare-and-swap loop
type StockOptions struct {
	MaxRetries int
	Backoff    time.Duration
	// UseLocker wraps every adjustment in a per-item Locker section
	UseLocker bool
}

// DefaultStockOptions returns the options used when none are configured
func DefaultStockOptions() StockOptions {
	return StockOptions{MaxRetries: 5, Backoff: 10 * time.Millisecond}
}

// ItemRef identifies a warehouse item by code, or by variance name when the
// code is empty
type ItemRef struct {
	Code         string
	VarianceName string
}

// BranchLine identifies a branchwise item. Code and name seed a new item
// when a credit meets a variance the registry has not seen yet.
type BranchLine struct {
	VarianceName string
	ItemCode     string
	ItemName     string
}

// StockService applies signed stock deltas to warehouse items and branchwise
// items. Every write is a version-checked update retried on conflict.
type StockService struct {
	items      registry.WarehouseItemRepository
	branchwise registry.BranchwiseItemRepository
	locker     shared.Locker
	opts       StockOptions
	metrics    *telemetry.BusinessMetrics
}

// NewStockService creates a new StockService. locker may be nil when
// opts.UseLocker is false.
func NewStockService(
	items registry.WarehouseItemRepository,
	branchwise registry.BranchwiseItemRepository,
	locker shared.Locker,
	opts StockOptions,
) *StockService {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultStockOptions().MaxRetries
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	return &StockService{
		items:      items,
		branchwise: branchwise,
		locker:     locker,
		opts:       opts,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *StockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// ResolveItem finds a warehouse item by code or variance name. A missing
// item is a missing dependency of the calling document.
func (s *StockService) ResolveItem(ctx context.Context, ref ItemRef) (*registry.WarehouseItem, error) {
	var (
		item *registry.WarehouseItem
		err  error
	)
	switch {
	case ref.Code != "":
		item, err = s.items.FindByCode(ctx, ref.Code)
	case ref.VarianceName != "":
		item, err = s.items.FindByVarianceName(ctx, ref.VarianceName)
	default:
		return nil, shared.Newf(shared.ErrInvalidInput, "item code or variance name is required")
	}
	if errors.Is(err, shared.ErrNotFound) {
		key := ref.Code
		if key == "" {
			key = ref.VarianceName
		}
		return nil, shared.Newf(shared.ErrDependencyMissing, "warehouse item %q not found", key)
	}
	return item, err
}

// AdjustWarehouse adds delta to the item's stock in warehouseName and
// returns the new level. Negative results are rejected, never clamped.
func (s *StockService) AdjustWarehouse(ctx context.Context, ref ItemRef, warehouseName string, delta decimal.Decimal) (decimal.Decimal, error) {
	item, err := s.ResolveItem(ctx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	if delta.IsZero() {
		level, _ := item.StockIn(warehouseName)
		return level, nil
	}

	release, err := s.enter(ctx, ScopeWarehouse, item.ID.String())
	if err != nil {
		return decimal.Zero, err
	}
	defer release()

	var level decimal.Decimal
	err = s.retry(ctx, ScopeWarehouse, func(attempt int) error {
		current := item
		if attempt > 0 {
			reloaded, err := s.items.FindByID(ctx, item.ID)
			if err != nil {
				return err
			}
			current = reloaded
		}
		next, err := current.Adjust(warehouseName, delta)
		if err != nil {
			return err
		}
		if err := s.items.SaveStockWithLock(ctx, current); err != nil {
			return err
		}
		level = next
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	logger.L(ctx).Debug("warehouse stock adjusted",
		zap.String("item_code", item.VarianceItemCode),
		zap.String("warehouse", warehouseName),
		zap.String("delta", delta.String()),
		zap.String("stock", level.String()),
	)
	return level, nil
}

// AdjustBranch adds delta to the physical and system stock of the item at
// the branch with the given alias. A credit for an unknown variance creates
// the branchwise item.
func (s *StockService) AdjustBranch(ctx context.Context, line BranchLine, alias string, delta decimal.Decimal) error {
	if line.VarianceName == "" {
		return shared.Newf(shared.ErrInvalidInput, "variance name is required")
	}
	if delta.IsZero() {
		return nil
	}

	release, err := s.enter(ctx, ScopeBranch, registry.FoldName(line.VarianceName))
	if err != nil {
		return err
	}
	defer release()

	err = s.retry(ctx, ScopeBranch, func(int) error {
		item, err := s.branchwise.FindByVarianceName(ctx, line.VarianceName)
		if errors.Is(err, shared.ErrNotFound) {
			if delta.IsNegative() {
				return shared.Newf(shared.ErrDependencyMissing, "branchwise item %q not found", line.VarianceName)
			}
			return s.createBranchwise(ctx, line, alias, delta)
		}
		if err != nil {
			return err
		}
		if err := item.Adjust(alias, delta); err != nil {
			return err
		}
		return s.branchwise.SaveWithLock(ctx, item)
	})
	if err != nil {
		return err
	}
	logger.L(ctx).Debug("branch stock adjusted",
		zap.String("variance_name", line.VarianceName),
		zap.String("branch_alias", alias),
		zap.String("delta", delta.String()),
	)
	return nil
}

// Credit adds amount to a branch's stock
func (s *StockService) Credit(ctx context.Context, line BranchLine, alias string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.Newf(shared.ErrInvalidInput, "credit amount must not be negative")
	}
	return s.AdjustBranch(ctx, line, alias, amount)
}

// Debit removes amount from a branch's stock
func (s *StockService) Debit(ctx context.Context, line BranchLine, alias string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.Newf(shared.ErrInvalidInput, "debit amount must not be negative")
	}
	return s.AdjustBranch(ctx, line, alias, amount.Neg())
}

func (s *StockService) createBranchwise(ctx context.Context, line BranchLine, alias string, delta decimal.Decimal) error {
	item, err := registry.NewBranchwiseItem(line.VarianceName, line.ItemCode, line.ItemName)
	if err != nil {
		return err
	}
	if err := item.Adjust(alias, delta); err != nil {
		return err
	}
	err = s.branchwise.Create(ctx, item)
	if errors.Is(err, shared.ErrAlreadyExists) {
		// lost the race to another creator; the next attempt updates its row
		return shared.Newf(shared.ErrOptimisticLock, "branchwise item %q was created concurrently", line.VarianceName)
	}
	return err
}

// retry runs fn until it succeeds, fails with a non-conflict error, or the
// retry budget is spent
func (s *StockService) retry(ctx context.Context, scope string, fn func(attempt int) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(attempt)
		switch {
		case err == nil:
			s.observe(ctx, scope, telemetry.StockResultApplied)
			return nil
		case !errors.Is(err, shared.ErrOptimisticLock):
			if isRejection(err) {
				s.observe(ctx, scope, telemetry.StockResultRejected)
			}
			return err
		case attempt >= s.opts.MaxRetries:
			s.observe(ctx, scope, telemetry.StockResultConflict)
			return shared.Newf(shared.ErrConcurrencyConflict,
				"stock update gave up after %d attempts: %s", attempt+1, err.Error())
		}

		if s.metrics != nil {
			s.metrics.CASRetried(ctx, scope)
		}
		logger.L(ctx).Debug("stock update conflicted, retrying",
			zap.String("scope", scope), zap.Int("attempt", attempt+1))

		if s.opts.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.opts.Backoff * time.Duration(attempt+1)):
			}
		}
	}
}

// enter obtains the per-item lock when configured and returns its release
func (s *StockService) enter(ctx context.Context, scope, key string) (func(), error) {
	if !s.opts.UseLocker || s.locker == nil {
		return func() {}, nil
	}
	lease, err := s.locker.Obtain(ctx, "stock:"+scope+":"+key)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lease.Release(ctx); err != nil {
			logger.L(ctx).Warn("failed to release stock lock", zap.String("scope", scope), zap.Error(err))
		}
	}, nil
}

func (s *StockService) observe(ctx context.Context, scope, result string) {
	if s.metrics != nil {
		s.metrics.StockAdjusted(ctx, scope, result)
	}
}

func isRejection(err error) bool {
	return errors.Is(err, shared.ErrConsistencyViolation) ||
		errors.Is(err, shared.ErrDependencyMissing) ||
		errors.Is(err, shared.ErrInvalidInput)
}
