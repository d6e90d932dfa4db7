package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "DIN00001", Format("DIN", 1, 5))
	assert.Equal(t, "PE0042", Format("PE", 42, 4))
	assert.Equal(t, "WH-123456", Format("WH-", 123456, 3))
}

func TestParseSuffix(t *testing.T) {
	n, ok := ParseSuffix("WH-007", "WH-")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = ParseSuffix("FG-007", "WH-")
	assert.False(t, ok)
	_, ok = ParseSuffix("WH-abc", "WH-")
	assert.False(t, ok)
}

func TestMaxSuffix(t *testing.T) {
	assert.Equal(t, int64(12), MaxSuffix([]string{"FG001", "FG012", "XX999", "FGx"}, "FG"))
	assert.Equal(t, int64(0), MaxSuffix(nil, "FG"))
}

func TestSmallestFree(t *testing.T) {
	tests := []struct {
		name  string
		used  []int64
		floor int64
		want  int64
	}{
		{"empty", nil, 0, 1},
		{"fills gap", []int64{1, 2, 4}, 1, 3},
		{"respects floor", []int64{1, 2, 4}, 4, 5},
		{"unsorted input", []int64{3, 1, 2}, 1, 4},
		{"floor inside free area", []int64{1, 9}, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SmallestFree(tt.used, tt.floor))
		})
	}
}
