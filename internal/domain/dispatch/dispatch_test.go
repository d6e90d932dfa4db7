package dispatch

import (
	"regexp"
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestDispatch(t *testing.T) *Dispatch {
	t.Helper()
	d, err := NewDispatch(TypeFG, "North", "N", "Main", []Line{
		{ItemCode: "FG001", VarianceName: "Plum Cake", Sent: valueobject.Count(dec(10))},
		{ItemCode: "FG002", VarianceName: "Rusk", Sent: valueobject.Weight(dec(2))},
	})
	require.NoError(t, err)
	d.AssignNumber(1)
	d.ClearDomainEvents()
	return d
}

func TestFormatNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^DI[A-Z]+\d{5}$`)
	assert.Equal(t, "DIN00001", FormatNumber("N", 1))
	assert.Regexp(t, pattern, FormatNumber("AR", 99999))
}

func TestNewDispatch(t *testing.T) {
	t.Run("requires lines", func(t *testing.T) {
		_, err := NewDispatch(TypeFG, "North", "N", "Main", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("requires item codes", func(t *testing.T) {
		_, err := NewDispatch(TypeFG, "North", "N", "Main", []Line{{Sent: valueobject.Count(dec(1))}})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("assigning number raises created event", func(t *testing.T) {
		d, err := NewDispatch(TypeFG, "North", "N", "Main", []Line{{ItemCode: "FG001", Sent: valueobject.Count(dec(1))}})
		require.NoError(t, err)
		d.AssignNumber(42)
		assert.Equal(t, "DIN00042", d.DispatchNo)
		assert.Equal(t, StatusDispatched, d.Status)
		events := d.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDispatchCreated, events[0].EventType())
	})
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, TypeFG, typ)

	typ, err = ParseType("so")
	require.NoError(t, err)
	assert.Equal(t, TypeSO, typ)

	_, err = ParseType("XX")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestReceive(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))

	t.Run("first receipt credits received amounts", func(t *testing.T) {
		d := newTestDispatch(t)
		deltas, err := d.Receive(StatusReceived, []valueobject.Quantity{valueobject.Count(dec(8))}, at, "manager")
		require.NoError(t, err)
		require.Len(t, deltas, 2)
		assert.True(t, deltas[0].Equal(dec(8)))
		assert.True(t, deltas[1].IsZero())
		assert.Equal(t, StatusReceived, d.Status)
		require.NotNil(t, d.ReceivedTime)
		assert.Equal(t, time.UTC, d.ReceivedTime.Location())
		assert.Equal(t, "manager", d.ReceivedBy)
	})

	t.Run("second received patch is rejected", func(t *testing.T) {
		d := newTestDispatch(t)
		_, err := d.Receive(StatusReceived, nil, at, "")
		require.NoError(t, err)
		_, err = d.Receive(StatusReceived, nil, at, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("pending approval then received applies only the difference", func(t *testing.T) {
		d := newTestDispatch(t)
		deltas, err := d.Receive(StatusPendingApproval, []valueobject.Quantity{valueobject.Count(dec(8)), valueobject.Weight(dec(2))}, at, "")
		require.NoError(t, err)
		assert.True(t, deltas[0].Equal(dec(8)))
		assert.True(t, deltas[1].Equal(dec(2)))

		deltas, err = d.Receive(StatusReceived, []valueobject.Quantity{valueobject.Count(dec(10))}, at, "")
		require.NoError(t, err)
		assert.True(t, deltas[0].Equal(dec(2)))
		assert.True(t, deltas[1].IsZero())
		assert.True(t, d.Lines[1].Received.Amount().Equal(dec(2)))
	})

	t.Run("rejects more received lines than sent", func(t *testing.T) {
		d := newTestDispatch(t)
		qs := []valueobject.Quantity{valueobject.Count(dec(1)), valueobject.Count(dec(1)), valueobject.Count(dec(1))}
		_, err := d.Receive(StatusReceived, qs, at, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects non receive status", func(t *testing.T) {
		d := newTestDispatch(t)
		_, err := d.Receive(StatusCancelled, nil, at, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCancel(t *testing.T) {
	d := newTestDispatch(t)
	require.NoError(t, d.Cancel())
	assert.Equal(t, StatusCancelled, d.Status)
	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDispatchCancelled, events[0].EventType())

	err := d.Cancel()
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = d.Receive(StatusReceived, nil, time.Now(), "")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestUpdateDetails(t *testing.T) {
	d := newTestDispatch(t)
	vehicle := "TN01AB1234"
	require.NoError(t, d.UpdateDetails(Details{VehicleNumber: &vehicle}))
	assert.Equal(t, vehicle, d.VehicleNumber)

	err := d.UpdateDetails(Details{VehicleNumber: &vehicle})
	assert.ErrorIs(t, err, shared.ErrNoChange)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusDispatched.CanTransitionTo(StatusReceived))
	assert.True(t, StatusReceived.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusDispatched))
	assert.False(t, StatusReceived.CanTransitionTo(StatusPendingApproval))
}
