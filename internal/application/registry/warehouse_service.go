package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseService handles the warehouse registry
type WarehouseService struct {
	repo registry.WarehouseRepository
	ids  MasterIDAllocator
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(repo registry.WarehouseRepository, ids MasterIDAllocator) *WarehouseService {
	return &WarehouseService{repo: repo, ids: ids}
}

// Create creates a warehouse, allocating a WH-### id when none is given
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.WarehouseName); err == nil {
		return nil, shared.Newf(shared.ErrAlreadyExists, "warehouse %q already exists", req.WarehouseName)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	id := strings.TrimSpace(req.WarehouseID)
	if id == "" {
		allocated, err := s.ids.AllocateMasterID(ctx, sequence.PrefixWarehouse, 3)
		if err != nil {
			return nil, err
		}
		id = allocated
	}

	w, err := registry.NewWarehouse(id, req.WarehouseName)
	if err != nil {
		return nil, err
	}
	w.Address = strings.TrimSpace(req.Address)
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(w)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(w)
	return &response, nil
}

// List retrieves warehouses
func (s *WarehouseService) List(ctx context.Context, filter ListFilter) ([]WarehouseResponse, int64, error) {
	f := filter.toShared("warehouse_id")
	f.OrderDir = orDefault(filter.OrderDir, "asc")
	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WarehouseResponse, len(list))
	for i := range list {
		out[i] = ToWarehouseResponse(&list[i])
	}
	return out, total, nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.WarehouseName != nil && !registry.SameName(*req.WarehouseName, w.WarehouseName) {
		if _, err := s.repo.FindByName(ctx, *req.WarehouseName); err == nil {
			return nil, shared.Newf(shared.ErrAlreadyExists, "warehouse %q already exists", *req.WarehouseName)
		}
		w.WarehouseName = strings.TrimSpace(*req.WarehouseName)
	}
	if req.Address != nil {
		w.Address = strings.TrimSpace(*req.Address)
	}
	w.Touch()
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(w)
	return &response, nil
}

// Delete deletes a warehouse
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
