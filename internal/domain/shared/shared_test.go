package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorIs(t *testing.T) {
	err := Newf(ErrConsistencyViolation, "stock for %s would become %d", "FG001", -3)
	assert.True(t, errors.Is(err, ErrConsistencyViolation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "stock for FG001 would become -3", err.Error())

	wrapped := fmt.Errorf("adjusting: %w", err)
	var de *DomainError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "CONSISTENCY_VIOLATION", de.Code)
}

func TestLocalDayBounds(t *testing.T) {
	// 20:00 UTC is 01:30 the next day in Kolkata
	at := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", LocalDate(at))

	start, end := LocalDayBounds(at)
	assert.Equal(t, time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 11, 18, 30, 0, 0, time.UTC), end)
}

func TestParseDayMonthYear(t *testing.T) {
	got, err := ParseDayMonthYear("05-01-2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 4, 18, 30, 0, 0, time.UTC), got)

	_, err = ParseDayMonthYear("2024-01-05")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDayRange(t *testing.T) {
	r, err := DayRange("01-02-2024", "01-02-2024")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, r.To.Sub(r.From))

	r, err = DayRange("", "")
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 with offset", "2024-06-01T10:00:00+05:30", time.Date(2024, 6, 1, 4, 30, 0, 0, time.UTC)},
		{"utc millis", "2024-06-01T10:00:00.000Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"naive is local", "2024-06-01T10:00:00", time.Date(2024, 6, 1, 4, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApprovalLog(t *testing.T) {
	var log ApprovalLog
	log = log.ReplaceLast(ApprovalDetail{ApprovalStatus: ApprovalStatusSending})
	require.Len(t, log, 1)

	log = log.Append(ApprovalDetail{ApprovalStatus: ApprovalStatusSending, Summary: "second"})
	log = log.ReplaceLast(ApprovalDetail{ApprovalStatus: ApprovalStatusApproved})
	require.Len(t, log, 2)

	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, ApprovalStatusApproved, last.ApprovalStatus)
	assert.Equal(t, ApprovalStatusSending, log[0].ApprovalStatus)
}

func TestFilterOffset(t *testing.T) {
	assert.Equal(t, 2, Filter{Page: 2, PageSize: 2}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 2}.Offset())
}
