// Package sequence mints human-readable document numbers from named counters.
package sequence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Counter prefixes used by the document engines
const (
	PrefixDispatch        = "dispatch_global"
	PrefixProductionEntry = "productionEntry"
	PrefixItemTransfer    = "itemTransfer"
	PrefixWarehouse       = "WH-"
	PrefixWarehouseItem   = "FG"
)

// SaleOrderPrefix returns the per-branch counter prefix for sale orders
func SaleOrderPrefix(alias string) string {
	return "SO" + alias
}

// InvoicePrefix returns the per-branch counter prefix for invoices
func InvoicePrefix(alias string) string {
	return "INV" + alias
}

// Repository stores counters keyed by prefix
type Repository interface {
	// Next atomically increments the counter and returns the new value,
	// starting at 1 for a counter that does not exist yet.
	Next(ctx context.Context, prefix string) (int64, error)

	// Current returns the stored value, 0 when absent
	Current(ctx context.Context, prefix string) (int64, error)

	// Set overwrites the counter
	Set(ctx context.Context, prefix string, value int64) error
}

// CodeSource lists the codes already in use for a prefix
type CodeSource interface {
	UsedCodes(ctx context.Context) ([]string, error)
}

// CodeSourceFunc adapts a function to CodeSource
type CodeSourceFunc func(ctx context.Context) ([]string, error)

// UsedCodes implements CodeSource
func (f CodeSourceFunc) UsedCodes(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Format renders prefix followed by n zero-padded to width digits
func Format(prefix string, n int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// ParseSuffix returns the numeric part of code after prefix
func ParseSuffix(code, prefix string) (int64, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxSuffix returns the largest numeric suffix among codes carrying prefix
func MaxSuffix(codes []string, prefix string) int64 {
	var max int64
	for _, c := range codes {
		if n, ok := ParseSuffix(c, prefix); ok && n > max {
			max = n
		}
	}
	return max
}

// SmallestFree returns the smallest positive integer >= floor that is not in used
func SmallestFree(used []int64, floor int64) int64 {
	if floor < 1 {
		floor = 1
	}
	sorted := append([]int64(nil), used...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	candidate := floor
	for _, n := range sorted {
		if n < candidate {
			continue
		}
		if n > candidate {
			break
		}
		candidate++
	}
	return candidate
}
