package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	seqapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	svc        *Service
	stock      *appregistry.StockService
	items      *persistence.GormWarehouseItemRepository
	branchwise *persistence.GormBranchwiseItemRepository
	orders     *persistence.GormSaleOrderRepository
	events     *recordingPublisher
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decs(vs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = dec(v)
	}
	return out
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := sqlitetest.Open(t)

	itemRepo := persistence.NewGormWarehouseItemRepository(db)
	branchwiseRepo := persistence.NewGormBranchwiseItemRepository(db)
	orders := persistence.NewGormSaleOrderRepository(db)

	counters := seqapp.NewService(persistence.NewGormCounterRepository(db), lock.NewLocalLocker())
	counters.RegisterSource(sequence.PrefixWarehouseItem, "", itemRepo)

	stock := appregistry.NewStockService(itemRepo, branchwiseRepo, lock.NewLocalLocker(), appregistry.StockOptions{MaxRetries: 20})
	items := appregistry.NewWarehouseItemService(itemRepo, counters, stock)
	branches := appregistry.NewBranchService(persistence.NewGormBranchRepository(db))
	employees := appregistry.NewEmployeeService(persistence.NewGormEmployeeRepository(db))

	_, err := branches.Create(ctx, appregistry.CreateBranchRequest{BranchName: "North", AliasName: "N", WarehouseName: "Main"})
	require.NoError(t, err)
	_, err = employees.Create(ctx, appregistry.CreateEmployeeRequest{FirstName: "Ravi", Position: "Driver", PhoneNumber: "9876543210"})
	require.NoError(t, err)

	_, err = items.Create(ctx, appregistry.CreateWarehouseItemRequest{
		VarianceName: "Plum Cake 500g",
		SystemStock:  []appregistry.WarehouseStockDTO{{WarehouseName: "Main", Stock: dec(10)}},
	})
	require.NoError(t, err)
	_, err = items.Create(ctx, appregistry.CreateWarehouseItemRequest{
		VarianceName:    "Rusk 1kg",
		MeasurementType: "weight",
		SystemStock:     []appregistry.WarehouseStockDTO{{WarehouseName: "Main", Stock: dec(2)}},
	})
	require.NoError(t, err)

	events := &recordingPublisher{}
	svc := NewService(persistence.NewGormDispatchRepository(db), orders, branches, employees, counters, stock)
	svc.SetEventPublisher(events)

	return &fixture{
		svc:        svc,
		stock:      stock,
		items:      itemRepo,
		branchwise: branchwiseRepo,
		orders:     orders,
		events:     events,
	}
}

func (f *fixture) warehouseStock(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	item, err := f.items.FindByCode(context.Background(), code)
	require.NoError(t, err)
	st, _ := item.StockIn("Main")
	return st
}

func (f *fixture) branchStock(t *testing.T, variance string) decimal.Decimal {
	t.Helper()
	item, err := f.branchwise.FindByVarianceName(context.Background(), variance)
	if errors.Is(err, shared.ErrNotFound) {
		// never credited
		return decimal.Zero
	}
	require.NoError(t, err)
	st, _ := item.State("N")
	return st.PhysicalStock
}

func basicRequest() CreateDispatchRequest {
	return CreateDispatchRequest{
		BranchName: "north",
		CreatedBy:  "store",
		DriverName: "Ravi",
		ItemCode:   []string{"FG001", "FG002"},
		Qty:        decs(4, 0),
		Weight:     decs(0, 1),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	got, err := f.svc.Create(ctx, basicRequest())
	require.NoError(t, err)

	assert.Equal(t, "DIN00001", got.DispatchNo)
	assert.Equal(t, "FG", got.Type)
	assert.Equal(t, "North", got.BranchName)
	assert.Equal(t, "Main", got.WarehouseName)
	assert.Equal(t, "dispatched", got.Status)
	assert.Equal(t, "9876543210", got.DriverNumber, "driver phone is filled from the employee registry")
	assert.Equal(t, []string{"Plum Cake 500g", "Rusk 1kg"}, got.VarianceName)

	assert.True(t, f.warehouseStock(t, "FG001").Equal(dec(6)))
	assert.True(t, f.warehouseStock(t, "FG002").Equal(dec(1)))
	assert.Equal(t, []string{dispatch.EventTypeDispatchCreated}, f.events.types())

	next, err := f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG001"}, Qty: decs(1)})
	require.NoError(t, err)
	assert.Equal(t, "DIN00002", next.DispatchNo)
	assert.Empty(t, next.DriverNumber)
}

func TestService_Create_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("unknown branch", func(t *testing.T) {
		req := basicRequest()
		req.BranchName = "Nowhere"
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrDependencyMissing)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG404"}, Qty: decs(1)})
		assert.ErrorIs(t, err, shared.ErrDependencyMissing)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG001"}, Qty: decs(-1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("more quantities than items", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG001"}, Qty: decs(1, 1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("SO dispatch needs an existing order", func(t *testing.T) {
		req := basicRequest()
		req.Type = "SO"
		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		req.SaleOrderNo = "SON0042"
		_, err = f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, shared.ErrDependencyMissing)
	})

	assert.True(t, f.warehouseStock(t, "FG001").Equal(dec(10)), "rejected requests leave stock untouched")
}

func TestService_Create_ReversesDebitsOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := basicRequest()
	req.Weight = decs(0, 3)
	_, err := f.svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrConsistencyViolation)

	assert.True(t, f.warehouseStock(t, "FG001").Equal(dec(10)), "first line debit was reversed")
	assert.True(t, f.warehouseStock(t, "FG002").Equal(dec(2)))

	list, total, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestService_Receive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, basicRequest())
	require.NoError(t, err)

	t.Run("pending approval credits what arrived", func(t *testing.T) {
		got, err := f.svc.Patch(ctx, created.ID, PatchDispatchRequest{
			Status:       strPtr("pending_approval"),
			ReceivedQty:  decs(3),
			ReceivedBy:   strPtr("manager"),
			ReceivedTime: strPtr("2026-10-16T09:30:00Z"),
		})
		require.NoError(t, err)
		assert.Equal(t, "pending_approval", got.Status)
		assert.Equal(t, "manager", got.ReceivedBy)
		require.NotNil(t, got.ReceivedTime)
		assert.Equal(t, 9, got.ReceivedTime.Hour())
		assert.True(t, f.branchStock(t, "Plum Cake 500g").Equal(dec(3)))
		assert.True(t, f.branchStock(t, "Rusk 1kg").IsZero())
	})

	t.Run("final receipt credits only the difference", func(t *testing.T) {
		got, err := f.svc.Patch(ctx, created.ID, PatchDispatchRequest{
			Status:         strPtr("received"),
			ReceivedQty:    decs(4, 0),
			ReceivedWeight: decs(0, 1),
		})
		require.NoError(t, err)
		assert.Equal(t, "received", got.Status)
		assert.True(t, f.branchStock(t, "Plum Cake 500g").Equal(dec(4)))
		assert.True(t, f.branchStock(t, "Rusk 1kg").Equal(dec(1)))
	})

	t.Run("a second receipt is rejected", func(t *testing.T) {
		_, err := f.svc.Patch(ctx, created.ID, PatchDispatchRequest{Status: strPtr("received"), ReceivedQty: decs(9)})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.True(t, f.branchStock(t, "Plum Cake 500g").Equal(dec(4)))
	})

	t.Run("bad timestamp", func(t *testing.T) {
		other, err := f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG001"}, Qty: decs(1)})
		require.NoError(t, err)
		_, err = f.svc.Patch(ctx, other.ID, PatchDispatchRequest{Status: strPtr("received"), ReceivedTime: strPtr("yesterday")})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	assert.Contains(t, f.events.types(), dispatch.EventTypeDispatchReceived)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, basicRequest())
	require.NoError(t, err)
	_, err = f.svc.Patch(ctx, created.ID, PatchDispatchRequest{Status: strPtr("received"), ReceivedQty: decs(4)})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState, "only cancelled dispatches can be deleted")

	got, err := f.svc.Patch(ctx, created.ID, PatchDispatchRequest{Status: strPtr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	assert.True(t, f.warehouseStock(t, "FG001").Equal(dec(10)), "warehouse stock restored")
	assert.True(t, f.warehouseStock(t, "FG002").Equal(dec(2)))
	assert.True(t, f.branchStock(t, "Plum Cake 500g").Equal(dec(4)), "branch stock is not reversed")

	_, err = f.svc.Cancel(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_Patch_Details(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, basicRequest())
	require.NoError(t, err)

	got, err := f.svc.Patch(ctx, created.ID, PatchDispatchRequest{
		VehicleNumber: strPtr("TN01AB1234"),
		ApprovalDetails: []shared.ApprovalDetail{
			{ApprovalStatus: "approved", ApprovedBy: "admin"},
			{ApprovalStatus: "noted", ApprovedBy: "auditor"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "TN01AB1234", got.VehicleNumber)
	assert.Len(t, got.ApprovalDetails, 2)
	assert.False(t, got.ApprovalDetails[0].ApprovalDate.IsZero())
	assert.Equal(t, created.Version+1, got.Version)

	_, err = f.svc.Patch(ctx, created.ID, PatchDispatchRequest{VehicleNumber: strPtr("TN01AB1234")})
	assert.ErrorIs(t, err, shared.ErrNoChange)

	_, err = f.svc.Patch(ctx, created.ID, PatchDispatchRequest{Status: strPtr("dispatched")})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	again, err := f.svc.GetByNumber(ctx, created.DispatchNo)
	require.NoError(t, err)
	assert.Equal(t, "TN01AB1234", again.VehicleNumber)
}

func TestService_SaleOrderLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := sales.NewSaleOrder(sales.KindSaleOrder, "North", "", nil)
	require.NoError(t, err)
	order.AssignNumber("N", 1)
	require.NoError(t, f.orders.Save(ctx, order))

	req := basicRequest()
	req.Type = "so"
	req.SaleOrderNo = order.SaleOrderNo
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "SO", created.Type)

	linked, err := f.orders.FindByNumber(ctx, order.SaleOrderNo)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusDispatched, linked.Status)

	_, err = f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	linked, err = f.orders.FindByNumber(ctx, order.SaleOrderNo)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusProductionEntry, linked.Status)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, basicRequest())
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, CreateDispatchRequest{BranchName: "North", ItemCode: []string{"FG001"}, Qty: decs(1)})
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	list, total, err := f.svc.List(ctx, ListFilter{BranchName: "North", Status: []string{"dispatched,pending_approval"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "DIN00002", list[0].DispatchNo)

	_, _, err = f.svc.List(ctx, ListFilter{Status: []string{"lost"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, _, err = f.svc.List(ctx, ListFilter{FromDate: "2026-10-16"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
