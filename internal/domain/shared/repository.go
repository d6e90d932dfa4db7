package shared

import (
	"context"
	"time"
)

// Filter represents query filter options shared by list endpoints
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 50,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// DateRange bounds a query on a timestamp column. Zero values are open ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Lease is a held exclusive section; Release gives it up
type Lease interface {
	Release(ctx context.Context) error
}

// Locker grants exclusive sections keyed by name. Implementations may be
// process-local or backed by a shared store.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lease, error)
}
