package shift

import (
	"context"
	"testing"
	"time"

	appregistry "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/transfer"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/sqlitetest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	ledgers Ledgers
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitetest.Open(t)

	branches := appregistry.NewBranchService(persistence.NewGormBranchRepository(db))
	for _, b := range []appregistry.CreateBranchRequest{
		{BranchName: "North", AliasName: "N", WarehouseName: "Main"},
		{BranchName: "South", AliasName: "S", WarehouseName: "Main"},
	} {
		_, err := branches.Create(context.Background(), b)
		require.NoError(t, err)
	}

	ledgers := Ledgers{
		Invoices:   persistence.NewGormInvoiceRepository(db),
		Orders:     persistence.NewGormSaleOrderRepository(db),
		Dispatches: persistence.NewGormDispatchRepository(db),
		Transfers:  persistence.NewGormItemTransferRepository(db),
	}
	svc := NewService(persistence.NewGormShiftRepository(db), persistence.NewGormDayEndRepository(db), ledgers, branches, lock.NewLocalLocker())
	return &fixture{svc: svc, ledgers: ledgers}
}

func (f *fixture) invoice(t *testing.T, shiftID uuid.UUID, salesType string, modes []string, cash, card, upi, total int64) {
	t.Helper()
	inv, err := sales.NewInvoice("North", shiftID.String(), salesType, modes, dec(total))
	require.NoError(t, err)
	inv.InvoiceNo = "INVN" + uuid.NewString()[:5]
	inv.Cash, inv.Card, inv.UPI = dec(cash), dec(card), dec(upi)
	require.NoError(t, f.ledgers.Invoices.Save(context.Background(), inv))
}

func (f *fixture) advance(t *testing.T, shiftID uuid.UUID, modes []string, amounts ...int64) {
	t.Helper()
	o, err := sales.NewSaleOrder(sales.KindSaleOrder, "North", "", nil)
	require.NoError(t, err)
	o.AssignNumber("N", time.Now().UnixNano()%10000)
	values := make([]decimal.Decimal, len(amounts))
	for i, a := range amounts {
		values[i] = dec(a)
	}
	require.NoError(t, o.AddAdvance(sales.AdvancePayment{ShiftID: shiftID.String(), Modes: modes, Amounts: values}))
	require.NoError(t, f.ledgers.Orders.Save(context.Background(), o))
}

func TestService_Open(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "north", OpeningBalance: dec(500), OpenedBy: "cashier"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ShiftNumber)
	assert.Equal(t, "North", first.BranchName)
	assert.Equal(t, "open", first.Status)
	assert.Equal(t, "open", first.DayEndStatus)
	assert.Equal(t, shared.LocalDate(time.Now()), first.LocalDate)

	_, err = f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists, "one open shift per branch")

	_, err = f.svc.Open(ctx, OpenShiftRequest{BranchName: "South", OpeningBalance: dec(-1)})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	other, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "South"})
	require.NoError(t, err)
	assert.Equal(t, 1, other.ShiftNumber, "numbering is per branch")

	_, err = f.svc.Close(ctx, first.ID, CloseShiftRequest{})
	require.NoError(t, err)
	second, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ShiftNumber)

	_, err = f.svc.Open(ctx, OpenShiftRequest{BranchName: "East"})
	assert.ErrorIs(t, err, shared.ErrDependencyMissing)
}

func TestService_Close(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	opened, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	require.NoError(t, err)

	f.invoice(t, opened.ID, sales.SalesTypeKOT, []string{"cash", "card"}, 100, 50, 0, 150)
	f.invoice(t, opened.ID, sales.SalesTypeTakeAway, []string{"upi", "other"}, 0, 0, 40, 100)
	f.invoice(t, uuid.New(), sales.SalesTypeKOT, []string{"cash"}, 999, 0, 0, 999)
	f.advance(t, opened.ID, []string{"Cash"}, 200)

	t.Run("recompute reflects the ledgers without closing", func(t *testing.T) {
		got, err := f.svc.Recompute(ctx, opened.ID)
		require.NoError(t, err)
		assert.True(t, got.SystemCashSales.Equal(dec(300)))
		assert.Equal(t, "open", got.Status)

		stored, err := f.svc.Get(ctx, opened.ID)
		require.NoError(t, err)
		assert.True(t, stored.SystemSales().IsZero())
	})

	got, err := f.svc.Close(ctx, opened.ID, CloseShiftRequest{
		ManualCash:     dec(290),
		ManualCard:     dec(50),
		ManualUPI:      dec(40),
		ManualOther:    dec(60),
		ClosingBalance: dec(790),
		ClosedBy:       "cashier",
	})
	require.NoError(t, err)

	assert.Equal(t, "closed", got.Status)
	assert.Equal(t, "open", got.DayEndStatus)
	require.NotNil(t, got.ClosingDateTime)

	assert.True(t, got.SystemCashSales.Equal(dec(300)), "invoice cash plus advance cash")
	assert.True(t, got.SystemCardSales.Equal(dec(50)))
	assert.True(t, got.SystemUpiSales.Equal(dec(40)))
	assert.True(t, got.SystemOtherSales.Equal(dec(60)), "other is the invoice residual")
	assert.True(t, got.KotCashSales.Equal(dec(100)))
	assert.True(t, got.TakeAwayOtherSales.Equal(dec(60)))
	assert.True(t, got.SaleOrderCashSales.Equal(dec(200)))
	assert.True(t, got.ManualCashSales.Equal(dec(290)))

	assert.True(t, got.CashDifference.Equal(dec(-10)))
	assert.True(t, got.TotalDifference.Equal(dec(-10)))
	assert.Equal(t, shift.DifferenceShortage, got.DifferenceType)

	_, err = f.svc.Close(ctx, opened.ID, CloseShiftRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	stored, err := f.svc.Recompute(ctx, opened.ID)
	require.NoError(t, err)
	assert.True(t, stored.SystemSales().Equal(dec(450)), "closed shifts keep their stored totals")
}

func TestService_DayEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	require.NoError(t, err)
	f.invoice(t, first.ID, sales.SalesTypeKOT, []string{"cash"}, 80, 0, 0, 80)
	_, err = f.svc.Close(ctx, first.ID, CloseShiftRequest{ManualCash: dec(100)})
	require.NoError(t, err)
	second, err := f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	require.NoError(t, err)

	snapshot, err := f.svc.CreateDayEnd(ctx, "North")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID.String()}, snapshot.ShiftIDs, "open shifts are not rolled up")
	assert.True(t, snapshot.SystemCashSales.Equal(dec(80)))
	assert.True(t, snapshot.CashDifference.Equal(dec(20)))
	assert.Equal(t, shift.DifferenceExcess, snapshot.DifferenceType)
	assert.Equal(t, first.OpeningDateTime.Unix(), snapshot.OpeningDateTime.Unix())

	closed, err := f.svc.DayEndBranch(ctx, "north")
	require.NoError(t, err)
	assert.Len(t, closed, 2)
	for _, s := range closed {
		assert.Equal(t, "closed", s.Status)
		assert.Equal(t, "closed", s.DayEndStatus)
	}

	swept, err := f.svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, ClosedByDayEnd, swept.ClosedBy)

	_, err = f.svc.CreateDayEnd(ctx, "North")
	assert.ErrorIs(t, err, shared.ErrInvalidState, "nothing left to roll up")

	list, err := f.svc.ListDayEnds(ctx, "North", time.Now().In(shared.LocalZone).Format(shared.DayMonthYearLayout))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	shifts, total, err := f.svc.List(ctx, ListFilter{BranchName: "North", Status: "closed"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, shifts, 2)

	_, _, err = f.svc.List(ctx, ListFilter{Date: "2026-10-01"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_Validate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("clean branch passes", func(t *testing.T) {
		got, err := f.svc.Validate(ctx, "North")
		require.NoError(t, err)
		assert.True(t, got.Passed)
		assert.Len(t, got.Categories, 5)
		assert.Equal(t, shift.ValidationSuccess, got.ShiftStatus.Status)
	})

	held, err := sales.NewSaleOrder(sales.KindHeldOrder, "North", "", nil)
	require.NoError(t, err)
	held.AppendApproval(shared.ApprovalDetail{ApprovalStatus: shared.ApprovalStatusSending, ApprovalDate: time.Now()})
	require.NoError(t, f.ledgers.Orders.Save(ctx, held))

	confirmed, err := sales.NewSaleOrder(sales.KindSaleOrder, "North", "", nil)
	require.NoError(t, err)
	confirmed.AssignNumber("N", 1)
	require.NoError(t, f.ledgers.Orders.Save(ctx, confirmed))

	d, err := dispatch.NewDispatch(dispatch.TypeFG, "North", "N", "Main", []dispatch.Line{
		{ItemCode: "FG001", VarianceName: "Plum Cake 500g", Sent: valueobject.Count(dec(2))},
	})
	require.NoError(t, err)
	d.AssignNumber(1)
	require.NoError(t, f.ledgers.Dispatches.Save(ctx, d))

	tr, err := transfer.NewItemTransfer("South", "North", []transfer.Line{{ItemName: "Veg Puff", ReqQty: dec(5)}})
	require.NoError(t, err)
	tr.TransferNo = transfer.FormatNumber(1)
	require.NoError(t, f.ledgers.Transfers.Save(ctx, tr))

	_, err = f.svc.Open(ctx, OpenShiftRequest{BranchName: "North"})
	require.NoError(t, err)

	got, err := f.svc.Validate(ctx, "North")
	require.NoError(t, err)
	assert.False(t, got.Passed)
	assert.Equal(t, shift.CategoryResult{Status: shift.ValidationFailed, Pendings: 1}, got.Categories[shift.CategorySOApproval])
	assert.Equal(t, shift.CategoryResult{Status: shift.ValidationFailed, Pendings: 1}, got.Categories[shift.CategorySODelivery])
	assert.Equal(t, shift.CategoryResult{Status: shift.ValidationFailed, Pendings: 1}, got.Categories[shift.CategoryDispatch])
	assert.Equal(t, shift.CategoryResult{Status: shift.ValidationFailed, Pendings: 1}, got.Categories[shift.CategoryItemTransfer])
	assert.Equal(t, shift.ValidationSuccess, got.Categories[shift.CategoryStoreDispatch].Status)
	assert.Equal(t, shift.ValidationFailed, got.ShiftStatus.Status)

	south, err := f.svc.Validate(ctx, "South")
	require.NoError(t, err)
	assert.Equal(t, int64(1), south.Categories[shift.CategoryItemTransfer].Pendings, "transfers count at both ends")
	assert.Zero(t, south.Categories[shift.CategoryDispatch].Pendings)

	stored, err := f.svc.ListValidations(ctx, "North", "")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
