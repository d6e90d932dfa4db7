package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shift"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleOrderRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSaleOrderRepository(newTestDB(t))
	shiftID := "2f0b9f4e-6d55-4a55-9a0e-2b1f3c1d9e01"

	so, err := sales.NewSaleOrder(sales.KindSaleOrder, "North", sales.StatusConfirmOrder, []sales.OrderLine{
		{ItemCode: "FG001", Qty: dec(1), Price: dec(500), Amount: dec(500)},
	})
	require.NoError(t, err)
	so.AssignNumber("N", 1)
	require.NoError(t, so.AddAdvance(sales.AdvancePayment{ShiftID: shiftID, Modes: []string{"card"}, Amounts: []decimal.Decimal{dec(75)}}))
	require.NoError(t, repo.Save(ctx, so))

	held, err := sales.NewSaleOrder(sales.KindHeldOrder, "North", "", nil)
	require.NoError(t, err)
	held.AppendApproval(shared.ApprovalDetail{ApprovalStatus: shared.ApprovalStatusSending, ApprovedBy: "cashier"})
	require.NoError(t, repo.Save(ctx, held))

	t.Run("find by shift decodes advances", func(t *testing.T) {
		orders, err := repo.FindByShift(ctx, shiftID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "SON0001", orders[0].SaleOrderNo)
		require.Len(t, orders[0].Advances, 1)
		assert.True(t, orders[0].Advances[0].Amounts[0].Equal(dec(75)))

		orders, err = repo.FindByShift(ctx, "another-shift")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("counts by status and by last approval", func(t *testing.T) {
		n, err := repo.CountByStatus(ctx, sales.KindSaleOrder, "north", []sales.Status{sales.StatusConfirmOrder}, shared.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountByStatus(ctx, sales.KindHeldOrder, "north", nil, shared.DateRange{})
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.CountByLastApproval(ctx, sales.KindHeldOrder, "NORTH", shared.ApprovalStatusSending, shared.DateRange{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("patched approval updates the denormalised status", func(t *testing.T) {
		got, err := repo.FindByID(ctx, held.ID)
		require.NoError(t, err)
		got.PatchApproval(shared.ApprovalDetail{ApprovalStatus: shared.ApprovalStatusApproved})
		require.NoError(t, repo.SaveWithLock(ctx, got))

		n, err := repo.CountByLastApproval(ctx, sales.KindHeldOrder, "North", shared.ApprovalStatusSending, shared.DateRange{})
		require.NoError(t, err)
		assert.Zero(t, n)

		stored, err := repo.FindByID(ctx, held.ID)
		require.NoError(t, err)
		require.Len(t, stored.ApprovalDetails, 1)
		assert.Equal(t, shared.ApprovalStatusApproved, stored.LastApprovalStatus())
	})

	t.Run("list by kind", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, sales.Filter{Kind: sales.KindHeldOrder})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}

func TestGormInvoiceRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(newTestDB(t))

	inv, err := sales.NewInvoice("North", "S1", "kot", []string{"cash", "upi"}, dec(150))
	require.NoError(t, err)
	inv.Cash, inv.UPI = dec(100), dec(50)
	require.NoError(t, repo.Save(ctx, inv))

	got, err := repo.FindByShift(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"cash", "upi"}, got[0].PaymentTypes)
	assert.True(t, got[0].ModeAmount(sales.ModeUPI).Equal(dec(50)))

	_, total, err := repo.FindAll(ctx, sales.InvoiceFilter{BranchName: "north", ShiftID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGormShiftRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormShiftRepository(db)
	dayEnds := NewGormDayEndRepository(db)
	now := time.Now()
	today := shared.LocalDate(now)

	n, err := repo.MaxShiftNumber(ctx, "North", today)
	require.NoError(t, err)
	assert.Zero(t, n)

	s1, err := shift.Open("North", 1, dec(500), "cashier", now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s1))
	s2, err := shift.Open("North", 2, dec(0), "cashier", now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s2))

	n, err = repo.MaxShiftNumber(ctx, "north", today)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	open, err := repo.FindOpen(ctx, "NORTH")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	got, err := repo.FindByID(ctx, s1.ID)
	require.NoError(t, err)
	require.NoError(t, got.Close(shift.ZeroSystemTotals(), shift.ZeroModeTotals(), dec(500), "cashier", now))
	require.NoError(t, repo.SaveWithLock(ctx, got))

	pending, err := repo.FindDayEndOpen(ctx, "North")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, s1.ID, pending[0].ID)

	d, err := shift.NewDayEnd("North", pending, now)
	require.NoError(t, err)
	require.NoError(t, dayEnds.Save(ctx, d))
	list, err := dayEnds.FindAll(ctx, "north", d.LocalDate)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{s1.ID.String()}, list[0].ShiftIDs)

	v := &shift.DayEndValidation{
		BaseEntity:  shared.NewBaseEntity(),
		BranchName:  "North",
		LocalDate:   today,
		Categories:  map[string]shift.CategoryResult{shift.CategoryDispatch: shift.NewCategoryResult(2)},
		ShiftStatus: shift.NewCategoryResult(0),
	}
	require.NoError(t, dayEnds.SaveValidation(ctx, v))
	validations, err := dayEnds.FindValidations(ctx, "North", today)
	require.NoError(t, err)
	require.Len(t, validations, 1)
	assert.False(t, validations[0].Passed())
	assert.Equal(t, int64(2), validations[0].Categories[shift.CategoryDispatch].Pendings)
}
