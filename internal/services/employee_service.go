package services

import (
	"context"
	"fmt"
	"strings"

	"staffing_backend/internal/models"
	"staffing_backend/internal/repositories"
	"staffing_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	FullName  string                 `json:"full_name" binding:"required"`
	BranchID  string                 `json:"branch_id" binding:"required"`
	Positions []string               `json:"positions"`
	Status    *models.EmployeeStatus `json:"status"` // defaults to active
}

type UpdateEmployeeRequest struct {
	FullName  *string                `json:"full_name"`
	BranchID  *string                `json:"branch_id"`
	Positions []string               `json:"positions"` // nil leaves positions unchanged
	Status    *models.EmployeeStatus `json:"status"`
}

// --- EmployeeService Interface ---
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	ListEmployees(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error)
	UpdateEmployee(ctx context.Context, employeeID string, req UpdateEmployeeRequest) (*models.Employee, error)
}

// --- employeeService Implementation ---
type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	newID        func() string
}

// NewEmployeeService creates a new instance of EmployeeService.
func NewEmployeeService(emr repositories.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: emr, newID: uuid.NewString}
}

// cleanPositions trims, drops blanks and removes duplicates, keeping order.
func cleanPositions(positions []string) pq.StringArray {
	out := pq.StringArray{}
	seen := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, invalidf("full_name cannot be empty")
	}
	branch := strings.TrimSpace(req.BranchID)
	if branch == "" {
		return nil, invalidf("branch_id cannot be empty")
	}
	status := models.EmployeeStatusActive
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalidf("unknown status %q", *req.Status)
		}
		status = *req.Status
	}

	employee := &models.Employee{
		ID:        s.newID(),
		FullName:  name,
		BranchID:  branch,
		Positions: cleanPositions(req.Positions),
		Status:    status,
	}
	if err := s.employeeRepo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	utils.LogInfo("Employee created", map[string]interface{}{"employee_id": employee.ID, "branch_id": employee.BranchID})
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, repoErr(err, "employee", employeeID)
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, 0, invalidf("unknown status %q", *filters.Status)
	}
	employees, total, err := s.employeeRepo.ListEmployees(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// UpdateEmployee applies a partial update. Deactivating an employee only
// removes them from future candidate pools; existing assignments stay.
func (s *employeeService) UpdateEmployee(ctx context.Context, employeeID string, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, repoErr(err, "employee", employeeID)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, invalidf("full_name cannot be empty")
		}
		employee.FullName = name
	}
	if req.BranchID != nil {
		branch := strings.TrimSpace(*req.BranchID)
		if branch == "" {
			return nil, invalidf("branch_id cannot be empty")
		}
		employee.BranchID = branch
	}
	if req.Positions != nil {
		employee.Positions = cleanPositions(req.Positions)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalidf("unknown status %q", *req.Status)
		}
		employee.Status = *req.Status
	}

	if err := s.employeeRepo.UpdateEmployee(ctx, employee); err != nil {
		return nil, repoErr(err, "employee", employeeID)
	}
	return employee, nil
}
