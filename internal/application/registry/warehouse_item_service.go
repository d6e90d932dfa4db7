package registry

import (
	"context"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// MasterIDAllocator mints registry codes such as FG001 or WH-004
type MasterIDAllocator interface {
	AllocateMasterID(ctx context.Context, prefix string, width int) (string, error)
}

// WarehouseItemService handles the warehouse item registry
type WarehouseItemService struct {
	repo  registry.WarehouseItemRepository
	ids   MasterIDAllocator
	stock *StockService
}

// NewWarehouseItemService creates a new WarehouseItemService
func NewWarehouseItemService(repo registry.WarehouseItemRepository, ids MasterIDAllocator, stock *StockService) *WarehouseItemService {
	return &WarehouseItemService{repo: repo, ids: ids, stock: stock}
}

// Create creates a new warehouse item
func (s *WarehouseItemService) Create(ctx context.Context, req CreateWarehouseItemRequest) (*WarehouseItemResponse, error) {
	code := strings.TrimSpace(req.VarianceItemCode)
	if code == "" {
		allocated, err := s.ids.AllocateMasterID(ctx, sequence.PrefixWarehouseItem, 3)
		if err != nil {
			return nil, err
		}
		code = allocated
	}

	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Newf(shared.ErrAlreadyExists, "warehouse item %s already exists", code)
	}
	if _, err := s.repo.FindByVarianceName(ctx, req.VarianceName); err == nil {
		return nil, shared.Newf(shared.ErrAlreadyExists, "variance %q already exists", req.VarianceName)
	}

	mt, err := parseMeasurement(req.MeasurementType)
	if err != nil {
		return nil, err
	}
	item, err := registry.NewWarehouseItem(code, req.VarianceName, req.ItemName, mt)
	if err != nil {
		return nil, err
	}
	item.Category = strings.TrimSpace(req.Category)
	item.UOM = strings.TrimSpace(req.UOM)
	item.Price = req.Price

	// opening stock goes through Adjust so duplicates and negatives are caught
	for _, st := range req.SystemStock {
		if st.Stock.IsNegative() {
			return nil, shared.Newf(shared.ErrInvalidInput, "opening stock for %q must not be negative", st.WarehouseName)
		}
		if _, seen := item.StockIn(st.WarehouseName); seen {
			return nil, shared.Newf(shared.ErrInvalidInput, "warehouse %q listed twice", st.WarehouseName)
		}
		if st.Stock.IsZero() {
			item.SystemStock = append(item.SystemStock, registry.WarehouseStock{WarehouseName: strings.TrimSpace(st.WarehouseName)})
			continue
		}
		if _, err := item.Adjust(st.WarehouseName, st.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("warehouse item created", zap.String("code", item.VarianceItemCode))

	response := ToWarehouseItemResponse(item)
	return &response, nil
}

// Get retrieves a warehouse item by its variance item code
func (s *WarehouseItemService) Get(ctx context.Context, code string) (*WarehouseItemResponse, error) {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseItemResponse(item)
	return &response, nil
}

// List retrieves warehouse items. A warehouse name narrows every item's
// stock view to that warehouse.
func (s *WarehouseItemService) List(ctx context.Context, filter WarehouseItemListFilter) ([]WarehouseItemResponse, int64, error) {
	f := ListFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.toShared("variance_item_code")
	f.OrderDir = orDefault(filter.OrderDir, "asc")

	mt := ""
	if filter.MeasurementType != "" {
		parsed, err := parseMeasurement(filter.MeasurementType)
		if err != nil {
			return nil, 0, err
		}
		mt = string(parsed)
	}

	items, total, err := s.repo.FindAll(ctx, registry.WarehouseItemFilter{
		Filter:          f,
		Category:        filter.Category,
		MeasurementType: mt,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]WarehouseItemResponse, len(items))
	for i := range items {
		out[i] = ToWarehouseItemResponse(&items[i])
		if filter.WarehouseName != "" {
			out[i].SystemStock = onlyWarehouse(out[i].SystemStock, filter.WarehouseName)
		}
	}
	return out, total, nil
}

// Update updates item metadata
func (s *WarehouseItemService) Update(ctx context.Context, code string, req UpdateWarehouseItemRequest) (*WarehouseItemResponse, error) {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if req.VarianceName != nil && !registry.SameName(*req.VarianceName, item.VarianceName) {
		if _, err := s.repo.FindByVarianceName(ctx, *req.VarianceName); err == nil {
			return nil, shared.Newf(shared.ErrAlreadyExists, "variance %q already exists", *req.VarianceName)
		}
		item.VarianceName = strings.TrimSpace(*req.VarianceName)
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
	if req.MeasurementType != nil {
		mt, err := parseMeasurement(*req.MeasurementType)
		if err != nil {
			return nil, err
		}
		item.MeasurementType = mt
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	item.Touch()

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := ToWarehouseItemResponse(item)
	return &response, nil
}

// AdjustStock applies a signed delta to the item's stock in one warehouse
func (s *WarehouseItemService) AdjustStock(ctx context.Context, code string, req AdjustStockRequest) (*StockResponse, error) {
	level, err := s.stock.AdjustWarehouse(ctx, ItemRef{Code: code}, req.WarehouseName, req.Delta)
	if err != nil {
		return nil, err
	}
	return &StockResponse{
		VarianceItemCode: code,
		WarehouseName:    strings.TrimSpace(req.WarehouseName),
		Stock:            level,
	}, nil
}

// Delete deletes a warehouse item
func (s *WarehouseItemService) Delete(ctx context.Context, code string) error {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, item.ID)
}

func parseMeasurement(raw string) (valueobject.MeasurementType, error) {
	if strings.TrimSpace(raw) == "" {
		return valueobject.MeasurementCount, nil
	}
	mt, ok := valueobject.ParseMeasurementType(raw)
	if !ok {
		return "", shared.Newf(shared.ErrInvalidInput, "unknown measurement type %q", raw)
	}
	return mt, nil
}

func onlyWarehouse(stock []WarehouseStockDTO, warehouseName string) []WarehouseStockDTO {
	out := make([]WarehouseStockDTO, 0, 1)
	for _, st := range stock {
		if registry.SameName(st.WarehouseName, warehouseName) {
			out = append(out, st)
		}
	}
	return out
}

func (f ListFilter) toShared(defaultOrder string) shared.Filter {
	out := shared.DefaultFilter()
	out.OrderBy = defaultOrder
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	out.Search = strings.TrimSpace(f.Search)
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
