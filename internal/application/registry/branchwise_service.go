package registry

import (
	"context"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchwiseService handles branchwise items: per-branch price and stock
type BranchwiseService struct {
	repo registry.BranchwiseItemRepository
}

// NewBranchwiseService creates a new BranchwiseService
func NewBranchwiseService(repo registry.BranchwiseItemRepository) *BranchwiseService {
	return &BranchwiseService{repo: repo}
}

// Create creates a branchwise item with its initial branch states
func (s *BranchwiseService) Create(ctx context.Context, req CreateBranchwiseItemRequest) (*BranchwiseItemResponse, error) {
	item, err := registry.NewBranchwiseItem(req.VarianceName, req.VarianceItemCode, req.ItemName)
	if err != nil {
		return nil, err
	}
	item.Category = strings.TrimSpace(req.Category)
	item.UOM = strings.TrimSpace(req.UOM)
	for alias, st := range req.Branches {
		if st.PhysicalStock.IsNegative() || st.SystemStock.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "stock at branch %s must not be negative", alias)
		}
		item.SetState(alias, registry.BranchState(st))
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	response := ToBranchwiseItemResponse(item)
	return &response, nil
}

// GetByID retrieves a branchwise item by ID
func (s *BranchwiseService) GetByID(ctx context.Context, id uuid.UUID) (*BranchwiseItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBranchwiseItemResponse(item)
	return &response, nil
}

// List retrieves branchwise items
func (s *BranchwiseService) List(ctx context.Context, filter ListFilter) ([]BranchwiseItemResponse, int64, error) {
	f := filter.toShared("variance_name")
	f.OrderDir = orDefault(filter.OrderDir, "asc")
	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BranchwiseItemResponse, len(list))
	for i := range list {
		out[i] = ToBranchwiseItemResponse(&list[i])
	}
	return out, total, nil
}

// Update changes metadata and per-branch prices. The write is version
// checked so a concurrent stock movement is never overwritten.
func (s *BranchwiseService) Update(ctx context.Context, id uuid.UUID, req UpdateBranchwiseItemRequest) (*BranchwiseItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ItemName != nil {
		item.ItemName = strings.TrimSpace(*req.ItemName)
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.UOM != nil {
		item.UOM = strings.TrimSpace(*req.UOM)
	}
	for alias, price := range req.Prices {
		if price.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "price at branch %s must not be negative", alias)
		}
		st, _ := item.State(alias)
		st.Price = price
		item.SetState(alias, st)
	}
	for alias, types := range req.OrderTypes {
		st, _ := item.State(alias)
		if st.OrderTypes == nil {
			st.OrderTypes = make(map[string]decimal.Decimal, len(types))
		}
		for name, v := range types {
			st.OrderTypes[name] = v
		}
		item.SetState(alias, st)
	}
	item.Touch()
	item.IncrementVersion()

	// metadata columns are not part of the locked stock write
	if err := s.repo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToBranchwiseItemResponse(item)
	return &response, nil
}

// Delete deletes a branchwise item
func (s *BranchwiseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Export flattens every branchwise item into the legacy sparse row shape
func (s *BranchwiseService) Export(ctx context.Context) ([]ExportRow, error) {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir, f.PageSize = "variance_name", "asc", 0
	list, _, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, len(list))
	for i := range list {
		row := ExportRow{
			"varianceName":     list[i].VarianceName,
			"varianceItemCode": list[i].VarianceItemCode,
			"itemName":         list[i].ItemName,
			"category":         list[i].Category,
			"uom":              list[i].UOM,
		}
		for k, v := range list[i].Flatten() {
			row[k] = v
		}
		rows[i] = row
	}
	return rows, nil
}
