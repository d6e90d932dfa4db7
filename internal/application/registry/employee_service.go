package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeService handles the employee registry
type EmployeeService struct {
	repo registry.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo registry.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// Create creates an employee
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	e, err := registry.NewEmployee(req.FirstName, req.LastName, req.Position, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	e.BranchName = strings.TrimSpace(req.BranchName)
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(e)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(e)
	return &response, nil
}

// List retrieves employees
func (s *EmployeeService) List(ctx context.Context, filter ListFilter) ([]EmployeeResponse, int64, error) {
	f := filter.toShared("first_name")
	f.OrderDir = orDefault(filter.OrderDir, "asc")
	list, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EmployeeResponse, len(list))
	for i := range list {
		out[i] = ToEmployeeResponse(&list[i])
	}
	return out, total, nil
}

// Update updates an employee
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		e.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		e.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Position != nil {
		e.Position = strings.TrimSpace(*req.Position)
	}
	if req.PhoneNumber != nil {
		e.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.BranchName != nil {
		e.BranchName = strings.TrimSpace(*req.BranchName)
	}
	e.Touch()
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(e)
	return &response, nil
}

// Delete deletes an employee
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// FindDriver looks up a driver by first name. The boolean is false when no
// driver with that name is registered.
func (s *EmployeeService) FindDriver(ctx context.Context, firstName string) (*registry.Employee, bool, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, false, nil
	}
	e, err := s.repo.FindByFirstNameAndPosition(ctx, firstName, registry.PositionDriver)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return e, true, nil
}
