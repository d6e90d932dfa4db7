package transfer

import (
	"context"
	"testing"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	seqapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        *Service
	stock      *appregistry.StockService
	branchwise *persistence.GormBranchwiseItemRepository
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := sqlitetest.Open(t)

	branchwise := persistence.NewGormBranchwiseItemRepository(db)
	stock := appregistry.NewStockService(persistence.NewGormWarehouseItemRepository(db), branchwise, nil, appregistry.StockOptions{})
	branches := appregistry.NewBranchService(persistence.NewGormBranchRepository(db))
	for _, b := range []appregistry.CreateBranchRequest{
		{BranchName: "North", AliasName: "N"},
		{BranchName: "South", AliasName: "S"},
	} {
		_, err := branches.Create(ctx, b)
		require.NoError(t, err)
	}
	require.NoError(t, stock.Credit(ctx, appregistry.BranchLine{VarianceName: "Veg Puff"}, "N", dec(10)))
	require.NoError(t, stock.Credit(ctx, appregistry.BranchLine{VarianceName: "Butter Bun"}, "N", dec(2)))

	counters := seqapp.NewService(persistence.NewGormCounterRepository(db), lock.NewLocalLocker())
	return &fixture{
		svc:        NewService(persistence.NewGormItemTransferRepository(db), branches, counters, stock),
		stock:      stock,
		branchwise: branchwise,
	}
}

func (f *fixture) physical(t *testing.T, variance, alias string) decimal.Decimal {
	t.Helper()
	item, err := f.branchwise.FindByVarianceName(context.Background(), variance)
	require.NoError(t, err)
	st, _ := item.State(alias)
	return st.PhysicalStock
}

func request() CreateTransferRequest {
	return CreateTransferRequest{
		FromBranch:  "north",
		ToBranch:    "South",
		RequestedBy: "south-manager",
		ItemName:    []string{"Veg Puff", "Butter Bun"},
		ReqQty:      []decimal.Decimal{dec(4), dec(2)},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	got, err := f.svc.Create(ctx, request())
	require.NoError(t, err)
	assert.Equal(t, "IT0001", got.TransferNo)
	assert.Equal(t, "Pending", got.Status)
	assert.Equal(t, "North", got.FromBranch)
	assert.WithinDuration(t, time.Now(), got.RequestDateTime, time.Minute)

	_, err = f.svc.Create(ctx, CreateTransferRequest{FromBranch: "North", ToBranch: "north", ItemName: []string{"Veg Puff"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.Create(ctx, CreateTransferRequest{FromBranch: "North", ToBranch: "East", ItemName: []string{"Veg Puff"}})
	assert.ErrorIs(t, err, shared.ErrDependencyMissing)
}

func TestService_Transition_SendAndReceive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, request())
	require.NoError(t, err)

	sent, err := f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Sent", SendQty: []decimal.Decimal{dec(3)}})
	require.NoError(t, err)
	assert.Equal(t, "Sent", sent.Status)
	require.NotNil(t, sent.SentDateTime)
	assert.True(t, sent.SendQty[0].Equal(dec(3)))
	assert.True(t, sent.SendQty[1].Equal(dec(2)), "omitted positions send the requested quantity")

	assert.True(t, f.physical(t, "Veg Puff", "N").Equal(dec(7)))
	assert.True(t, f.physical(t, "Butter Bun", "N").IsZero())

	received, err := f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Received"})
	require.NoError(t, err)
	assert.Equal(t, "Received", received.Status)
	assert.True(t, f.physical(t, "Veg Puff", "S").Equal(dec(3)))
	assert.True(t, f.physical(t, "Butter Bun", "S").Equal(dec(2)))

	_, err = f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Rejected"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = f.svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestService_Transition_SendReversesOnShortage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, request())
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, created.ID, TransitionRequest{
		Status:  "Sent",
		SendQty: []decimal.Decimal{dec(4), dec(5)},
	})
	require.ErrorIs(t, err, shared.ErrConsistencyViolation)
	assert.True(t, f.physical(t, "Veg Puff", "N").Equal(dec(10)), "first line debit reversed")

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
}

func TestService_Transition_Reject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.Create(ctx, request())
	require.NoError(t, err)

	got, err := f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Rejected", Remarks: "not needed"})
	require.NoError(t, err)
	assert.Equal(t, "Rejected", got.Status)
	assert.Equal(t, "not needed", got.Remarks)
	require.NotNil(t, got.RejectDateTime)
	assert.True(t, f.physical(t, "Veg Puff", "N").Equal(dec(10)))

	_, err = f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Pending"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = f.svc.Transition(ctx, created.ID, TransitionRequest{Status: "Lost"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Create(ctx, request())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, request())
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, second.ID, TransitionRequest{Status: "Rejected"})
	require.NoError(t, err)

	list, total, err := f.svc.List(ctx, ListFilter{Status: []string{"Pending,Sent"}, FromBranch: "NORTH"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, first.TransferNo, list[0].TransferNo)

	_, total, err = f.svc.List(ctx, ListFilter{Branch: "south"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	f.svc.now = func() time.Time { return time.Now().AddDate(0, 0, 5) }
	_, total, err = f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "default window is three days")

	_, total, err = f.svc.List(ctx, ListFilter{Days: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	_, err = f.svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
