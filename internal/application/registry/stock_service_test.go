package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/sqlitetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockWarehouseItemRepository is a mock implementation of WarehouseItemRepository
type MockWarehouseItemRepository struct {
	mock.Mock
}

func (m *MockWarehouseItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.WarehouseItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.WarehouseItem), args.Error(1)
}

func (m *MockWarehouseItemRepository) FindByCode(ctx context.Context, code string) (*registry.WarehouseItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.WarehouseItem), args.Error(1)
}

func (m *MockWarehouseItemRepository) FindByVarianceName(ctx context.Context, name string) (*registry.WarehouseItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.WarehouseItem), args.Error(1)
}

func (m *MockWarehouseItemRepository) FindAll(ctx context.Context, filter registry.WarehouseItemFilter) ([]registry.WarehouseItem, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.WarehouseItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarehouseItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseItemRepository) Save(ctx context.Context, item *registry.WarehouseItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWarehouseItemRepository) SaveStockWithLock(ctx context.Context, item *registry.WarehouseItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWarehouseItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func stockedItem(t *testing.T, warehouse string, stock int64) *registry.WarehouseItem {
	t.Helper()
	item, err := registry.NewWarehouseItem("FG001", "Plum Cake 500g", "Plum Cake", valueobject.MeasurementCount)
	require.NoError(t, err)
	if stock > 0 {
		_, err = item.Adjust(warehouse, dec(stock))
		require.NoError(t, err)
	}
	return item
}

type sqliteFixture struct {
	items      *persistence.GormWarehouseItemRepository
	branchwise *persistence.GormBranchwiseItemRepository
	stock      *StockService
}

func newSQLiteFixture(t *testing.T, opts StockOptions) *sqliteFixture {
	t.Helper()
	db := sqlitetest.Open(t)
	items := persistence.NewGormWarehouseItemRepository(db)
	branchwise := persistence.NewGormBranchwiseItemRepository(db)
	return &sqliteFixture{
		items:      items,
		branchwise: branchwise,
		stock:      NewStockService(items, branchwise, lock.NewLocalLocker(), opts),
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestStockService_AdjustWarehouse_RetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseItemRepository)
	stale := stockedItem(t, "Main", 10)
	fresh := stockedItem(t, "Main", 8)
	fresh.ID = stale.ID

	repo.On("FindByCode", ctx, "FG001").Return(stale, nil)
	repo.On("SaveStockWithLock", ctx, stale).
		Return(shared.Newf(shared.ErrOptimisticLock, "modified concurrently")).Once()
	repo.On("FindByID", ctx, stale.ID).Return(fresh, nil).Once()
	repo.On("SaveStockWithLock", ctx, fresh).Return(nil).Once()

	svc := NewStockService(repo, nil, nil, StockOptions{MaxRetries: 3})
	level, err := svc.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "main", dec(-3))

	require.NoError(t, err)
	assert.True(t, level.Equal(dec(5)), "second attempt works on the reloaded row, got %s", level)
	repo.AssertExpectations(t)
}

func TestStockService_AdjustWarehouse_GivesUpAfterRetryBudget(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseItemRepository)
	item := stockedItem(t, "Main", 10)

	repo.On("FindByCode", ctx, "FG001").Return(item, nil)
	repo.On("FindByID", ctx, item.ID).Return(item, nil)
	repo.On("SaveStockWithLock", ctx, item).Return(shared.Newf(shared.ErrOptimisticLock, "modified concurrently"))

	svc := NewStockService(repo, nil, nil, StockOptions{MaxRetries: 2})
	_, err := svc.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "Main", dec(-1))

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	repo.AssertNumberOfCalls(t, "SaveStockWithLock", 3)
}

func TestStockService_AdjustWarehouse_Rejections(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseItemRepository)
	svc := NewStockService(repo, nil, nil, StockOptions{})

	t.Run("unknown item is a missing dependency", func(t *testing.T) {
		repo.On("FindByCode", ctx, "FG404").Return(nil, shared.ErrNotFound).Once()
		_, err := svc.AdjustWarehouse(ctx, ItemRef{Code: "FG404"}, "Main", dec(1))
		assert.ErrorIs(t, err, shared.ErrDependencyMissing)
	})

	t.Run("resolves by variance name when the code is empty", func(t *testing.T) {
		item := stockedItem(t, "Main", 2)
		repo.On("FindByVarianceName", ctx, "Plum Cake 500g").Return(item, nil).Once()
		_, err := svc.AdjustWarehouse(ctx, ItemRef{VarianceName: "Plum Cake 500g"}, "Main", dec(-3))
		assert.ErrorIs(t, err, shared.ErrConsistencyViolation)
	})

	t.Run("zero delta does not write", func(t *testing.T) {
		item := stockedItem(t, "Main", 4)
		repo.On("FindByCode", ctx, "FG001").Return(item, nil).Once()
		level, err := svc.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "MAIN", decimal.Zero)
		require.NoError(t, err)
		assert.True(t, level.Equal(dec(4)))
	})

	repo.AssertNotCalled(t, "SaveStockWithLock", mock.Anything, mock.Anything)
}

func TestStockService_AdjustWarehouse_ConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t, StockOptions{MaxRetries: 20})
	require.NoError(t, f.items.Save(ctx, stockedItem(t, "Main", 10)))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.stock.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "Main", dec(-1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.items.FindByCode(ctx, "FG001")
	require.NoError(t, err)
	stock, ok := got.StockIn("Main")
	require.True(t, ok)
	assert.True(t, stock.IsZero(), "every debit applied exactly once, got %s", stock)

	_, err = f.stock.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "Main", dec(-1))
	assert.ErrorIs(t, err, shared.ErrConsistencyViolation)
}

func TestStockService_AdjustWarehouse_WithLocker(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t, StockOptions{MaxRetries: 1, UseLocker: true})
	require.NoError(t, f.items.Save(ctx, stockedItem(t, "Main", 0)))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.stock.AdjustWarehouse(ctx, ItemRef{Code: "FG001"}, "Main", dec(2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.items.FindByCode(ctx, "FG001")
	require.NoError(t, err)
	stock, _ := got.StockIn("main")
	assert.True(t, stock.Equal(dec(10)))
}

func TestStockService_Branch(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t, StockOptions{MaxRetries: 20})
	line := BranchLine{VarianceName: "Veg Puff", ItemCode: "FG002", ItemName: "Puff"}

	t.Run("debit of an unseen variance is a missing dependency", func(t *testing.T) {
		err := f.stock.Debit(ctx, line, "N", dec(1))
		assert.ErrorIs(t, err, shared.ErrDependencyMissing)
	})

	t.Run("credit creates the item on demand", func(t *testing.T) {
		require.NoError(t, f.stock.Credit(ctx, line, "n", dec(6)))
		item, err := f.branchwise.FindByVarianceName(ctx, "veg puff")
		require.NoError(t, err)
		assert.Equal(t, "FG002", item.VarianceItemCode)
		st, ok := item.State("N")
		require.True(t, ok)
		assert.True(t, st.PhysicalStock.Equal(dec(6)))
		assert.True(t, st.SystemStock.Equal(dec(6)))
	})

	t.Run("concurrent credits on a new variance all land", func(t *testing.T) {
		fresh := BranchLine{VarianceName: "Butter Bun"}
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, f.stock.Credit(ctx, fresh, "AR", dec(1)))
			}()
		}
		wg.Wait()
		item, err := f.branchwise.FindByVarianceName(ctx, "Butter Bun")
		require.NoError(t, err)
		st, _ := item.State("AR")
		assert.True(t, st.PhysicalStock.Equal(dec(5)))
	})

	t.Run("debit below zero is rejected without a write", func(t *testing.T) {
		err := f.stock.Debit(ctx, line, "N", dec(7))
		assert.ErrorIs(t, err, shared.ErrConsistencyViolation)
		item, err := f.branchwise.FindByVarianceName(ctx, "Veg Puff")
		require.NoError(t, err)
		st, _ := item.State("N")
		assert.True(t, st.PhysicalStock.Equal(dec(6)))
	})

	t.Run("negative amounts are invalid", func(t *testing.T) {
		assert.ErrorIs(t, f.stock.Credit(ctx, line, "N", dec(-1)), shared.ErrInvalidInput)
		assert.ErrorIs(t, f.stock.Debit(ctx, line, "N", dec(-1)), shared.ErrInvalidInput)
	})
}
