package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"staffing_backend/internal/models"
	"staffing_backend/internal/repositories"
)

func TestCreateEmployee(t *testing.T) {
	var stored *models.Employee
	repo := &MockEmployeeRepository{
		CreateEmployeeFunc: func(ctx context.Context, e *models.Employee) error {
			stored = e
			return nil
		},
	}
	svc := &employeeService{employeeRepo: repo, newID: sequentialIDs("emp")}

	got, err := svc.CreateEmployee(context.Background(), CreateEmployeeRequest{
		FullName:  "  Dana Ortiz ",
		BranchID:  "north",
		Positions: []string{"bartender", " ", "server", "bartender"},
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if stored != got || got.ID != "emp-1" || got.FullName != "Dana Ortiz" {
		t.Errorf("unexpected employee %+v", got)
	}
	if got.Status != models.EmployeeStatusActive {
		t.Errorf("expected default status active, got %q", got.Status)
	}
	if want := []string{"bartender", "server"}; !reflect.DeepEqual([]string(got.Positions), want) {
		t.Errorf("positions: got %v, want %v", got.Positions, want)
	}
}

func TestCreateEmployee_Validation(t *testing.T) {
	bogus := models.EmployeeStatus("retired")
	svc := &employeeService{employeeRepo: &MockEmployeeRepository{}, newID: sequentialIDs("emp")}

	tests := []struct {
		name string
		req  CreateEmployeeRequest
	}{
		{"blank name", CreateEmployeeRequest{FullName: " ", BranchID: "north"}},
		{"blank branch", CreateEmployeeRequest{FullName: "Dana", BranchID: ""}},
		{"unknown status", CreateEmployeeRequest{FullName: "Dana", BranchID: "north", Status: &bogus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateEmployee(context.Background(), tt.req); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdateEmployee_PartialUpdate(t *testing.T) {
	existing := &models.Employee{ID: "e1", FullName: "Dana", BranchID: "north", Positions: []string{"server"}, Status: models.EmployeeStatusActive}
	var saved *models.Employee
	repo := &MockEmployeeRepository{
		GetEmployeeByIDFunc: func(ctx context.Context, id string) (*models.Employee, error) {
			cp := *existing
			return &cp, nil
		},
		UpdateEmployeeFunc: func(ctx context.Context, e *models.Employee) error {
			saved = e
			return nil
		},
	}
	svc := &employeeService{employeeRepo: repo}

	inactive := models.EmployeeStatusInactive
	got, err := svc.UpdateEmployee(context.Background(), "e1", UpdateEmployeeRequest{Status: &inactive})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if saved == nil || got.Status != models.EmployeeStatusInactive {
		t.Fatalf("expected inactive employee to be saved, got %+v", got)
	}
	if got.FullName != "Dana" || got.BranchID != "north" || len(got.Positions) != 1 {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	repo := &MockEmployeeRepository{
		GetEmployeeByIDFunc: func(ctx context.Context, id string) (*models.Employee, error) {
			return nil, repositories.ErrNotFound
		},
	}
	svc := &employeeService{employeeRepo: repo}
	name := "X"
	if _, err := svc.UpdateEmployee(context.Background(), "nope", UpdateEmployeeRequest{FullName: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEmployees_DefaultsPaging(t *testing.T) {
	var got models.EmployeeFilters
	repo := &MockEmployeeRepository{
		ListEmployeesFunc: func(ctx context.Context, f models.EmployeeFilters) ([]models.Employee, int, error) {
			got = f
			return []models.Employee{}, 0, nil
		},
	}
	svc := &employeeService{employeeRepo: repo}
	if _, _, err := svc.ListEmployees(context.Background(), models.EmployeeFilters{}); err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if got.Page != 1 || got.PageSize != 20 {
		t.Errorf("expected page 1 size 20, got %d/%d", got.Page, got.PageSize)
	}
}
