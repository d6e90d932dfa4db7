package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// BranchService handles the branch registry
type BranchService struct {
	repo registry.BranchRepository
}

// NewBranchService creates a new BranchService
func NewBranchService(repo registry.BranchRepository) *BranchService {
	return &BranchService{repo: repo}
}

// Create creates a branch. Names and aliases are unique.
func (s *BranchService) Create(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error) {
	b, err := registry.NewBranch(req.BranchName, req.AliasName, req.WarehouseName)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByName(ctx, b.BranchName); err == nil {
		return nil, shared.Newf(shared.ErrAlreadyExists, "branch %q already exists", b.BranchName)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByAlias(ctx, b.Alias); err == nil {
		return nil, shared.Newf(shared.ErrAlreadyExists, "alias %q is already in use", b.Alias)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	b.Address = strings.TrimSpace(req.Address)
	b.Phone = strings.TrimSpace(req.Phone)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	response := ToBranchResponse(b)
	return &response, nil
}

// GetByID retrieves a branch by ID
func (s *BranchService) GetByID(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBranchResponse(b)
	return &response, nil
}

// List retrieves branches
func (s *BranchService) List(ctx context.Context, filter ListFilter) ([]BranchResponse, int64, error) {
	f := filter.toShared("branch_name")
	f.OrderDir = orDefault(filter.OrderDir, "asc")
	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BranchResponse, len(list))
	for i := range list {
		out[i] = ToBranchResponse(&list[i])
	}
	return out, total, nil
}

// Update updates a branch
func (s *BranchService) Update(ctx context.Context, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.BranchName != nil && !registry.SameName(*req.BranchName, b.BranchName) {
		if _, err := s.repo.FindByName(ctx, *req.BranchName); err == nil {
			return nil, shared.Newf(shared.ErrAlreadyExists, "branch %q already exists", *req.BranchName)
		}
		b.BranchName = strings.TrimSpace(*req.BranchName)
	}
	if req.WarehouseName != nil {
		b.WarehouseName = strings.TrimSpace(*req.WarehouseName)
	}
	if req.Address != nil {
		b.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		b.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
	b.Touch()
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	response := ToBranchResponse(b)
	return &response, nil
}

// Delete deletes a branch
func (s *BranchService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ResolveAlias returns the alias and dispatching warehouse of a branch.
// Documents that reference an unknown branch fail with a missing dependency.
func (s *BranchService) ResolveAlias(ctx context.Context, branchName string) (*BranchRef, error) {
	if strings.TrimSpace(branchName) == "" {
		return nil, shared.Newf(shared.ErrInvalidInput, "branchName is required")
	}
	b, err := s.repo.FindByName(ctx, branchName)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.Newf(shared.ErrDependencyMissing, "branch %q not found", branchName)
	}
	if err != nil {
		return nil, err
	}
	return &BranchRef{BranchName: b.BranchName, Alias: b.Alias, WarehouseName: b.WarehouseName}, nil
}
