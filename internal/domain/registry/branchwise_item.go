package registry

import (
	"sort"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BranchState is the price and stock of a variance at one branch
type BranchState struct {
	Price         decimal.Decimal            `json:"price"`
	PhysicalStock decimal.Decimal            `json:"physicalStock"`
	SystemStock   decimal.Decimal            `json:"systemStock"`
	OrderTypes    map[string]decimal.Decimal `json:"orderTypes,omitempty"`
}

// BranchwiseItem projects a variance onto every branch, keyed by branch alias
type BranchwiseItem struct {
	shared.BaseAggregateRoot
	VarianceName     string
	VarianceItemCode string
	ItemName         string
	Category         string
	UOM              string
	Branches         map[string]BranchState
}

// NewBranchwiseItem creates a branchwise item with no branch entries
func NewBranchwiseItem(varianceName, code, itemName string) (*BranchwiseItem, error) {
	if strings.TrimSpace(varianceName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "varianceName is required")
	}
	return &BranchwiseItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VarianceName:      strings.TrimSpace(varianceName),
		VarianceItemCode:  strings.TrimSpace(code),
		ItemName:          strings.TrimSpace(itemName),
		Branches:          make(map[string]BranchState),
	}, nil
}

// State returns the entry for alias
func (b *BranchwiseItem) State(alias string) (BranchState, bool) {
	s, ok := b.Branches[NormalizeAlias(alias)]
	return s, ok
}

// Adjust moves physical and system stock at alias by delta. Either level
// falling below zero rejects the change.
func (b *BranchwiseItem) Adjust(alias string, delta decimal.Decimal) error {
	alias = NormalizeAlias(alias)
	if alias == "" {
		return shared.Newf(shared.ErrInvalidInput, "branch alias is required")
	}
	if delta.IsZero() {
		return nil
	}
	if b.Branches == nil {
		b.Branches = make(map[string]BranchState)
	}
	s, ok := b.Branches[alias]
	if !ok && delta.IsNegative() {
		return shared.Newf(shared.ErrDependencyMissing, "%s has no stock at branch %s", b.VarianceName, alias)
	}
	physical := s.PhysicalStock.Add(delta)
	system := s.SystemStock.Add(delta)
	if physical.IsNegative() || system.IsNegative() {
		return shared.Newf(shared.ErrConsistencyViolation,
			"stock of %s at branch %s would become %s", b.VarianceName, alias, physical.String())
	}
	s.PhysicalStock = physical
	s.SystemStock = system
	b.Branches[alias] = s
	b.Touch()
	b.IncrementVersion()
	return nil
}

// SetState replaces the entry for alias
func (b *BranchwiseItem) SetState(alias string, s BranchState) {
	if b.Branches == nil {
		b.Branches = make(map[string]BranchState)
	}
	b.Branches[NormalizeAlias(alias)] = s
}

// Clone returns a deep copy
func (b *BranchwiseItem) Clone() *BranchwiseItem {
	c := *b
	c.Branches = make(map[string]BranchState, len(b.Branches))
	for k, v := range b.Branches {
		if v.OrderTypes != nil {
			ot := make(map[string]decimal.Decimal, len(v.OrderTypes))
			for name, val := range v.OrderTypes {
				ot[name] = val
			}
			v.OrderTypes = ot
		}
		c.Branches[k] = v
	}
	return &c
}

// Keys of the flattened export format
const (
	flatPrice         = "Price_"
	flatPhysicalStock = "physicalStock_"
	flatSystemStock   = "systemStock_"
	flatOrderType     = "orderType_"
)

// Flatten renders the per-branch state as sparse keys such as
// Price_N, physicalStock_N, systemStock_N and orderType_N_<TYPE>.
func (b *BranchwiseItem) Flatten() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.Branches)*3)
	for alias, s := range b.Branches {
		out[flatPrice+alias] = s.Price
		out[flatPhysicalStock+alias] = s.PhysicalStock
		out[flatSystemStock+alias] = s.SystemStock
		for name, v := range s.OrderTypes {
			out[flatOrderType+alias+"_"+name] = v
		}
	}
	return out
}

// ParseFlat reads sparse per-branch keys back into branch states. Keys that
// are not part of the format are ignored.
func ParseFlat(flat map[string]decimal.Decimal) map[string]BranchState {
	out := make(map[string]BranchState)
	get := func(alias string) BranchState {
		return out[alias]
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := flat[k]
		switch {
		case strings.HasPrefix(k, flatPrice):
			alias := NormalizeAlias(strings.TrimPrefix(k, flatPrice))
			s := get(alias)
			s.Price = v
			out[alias] = s
		case strings.HasPrefix(k, flatPhysicalStock):
			alias := NormalizeAlias(strings.TrimPrefix(k, flatPhysicalStock))
			s := get(alias)
			s.PhysicalStock = v
			out[alias] = s
		case strings.HasPrefix(k, flatSystemStock):
			alias := NormalizeAlias(strings.TrimPrefix(k, flatSystemStock))
			s := get(alias)
			s.SystemStock = v
			out[alias] = s
		case strings.HasPrefix(k, flatOrderType):
			rest := strings.TrimPrefix(k, flatOrderType)
			alias, name, ok := strings.Cut(rest, "_")
			if !ok || name == "" {
				continue
			}
			alias = NormalizeAlias(alias)
			s := get(alias)
			if s.OrderTypes == nil {
				s.OrderTypes = make(map[string]decimal.Decimal)
			}
			s.OrderTypes[name] = v
			out[alias] = s
		}
	}
	return out
}
