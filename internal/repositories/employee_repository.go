package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staffing_backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// EmployeeRepository stores the employee directory. Employees are never
// deleted; shifts and timesheets reference them by id.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployeeByID(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	ListEmployees(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error)

	GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
	GetEmployees(ctx context.Context, branchID, position *string, status *models.EmployeeStatus) ([]models.Employee, error)
}

type employeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, full_name, branch_id, positions, status, created_at, updated_at`

func (r *employeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	employee.CreatedAt, employee.UpdatedAt = now, now

	query := `INSERT INTO employees (` + employeeColumns + `)
	          VALUES (:id, :full_name, :branch_id, :positions, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return mapError(err, "creating employee")
	}
	return nil
}

func (r *employeeRepository) GetEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, mapError(err, "fetching employee")
	}
	return &employee, nil
}

func (r *employeeRepository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	query := `UPDATE employees SET full_name = :full_name, branch_id = :branch_id,
	            positions = :positions, status = :status, updated_at = :updated_at
	          WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, employee)
	if err != nil {
		return mapError(err, "updating employee")
	}
	return requireAffected(res, "updating employee")
}

// ListEmployees returns one page of the directory, ordered by name.
func (r *employeeRepository) ListEmployees(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error) {
	where, args := employeeConditions(filters.BranchID, filters.Position, filters.Status)
	if filters.Search != nil {
		args = append(args, "%"+*filters.Search+"%")
		where = appendCondition(where, fmt.Sprintf("full_name ILIKE $%d", len(args)))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM employees"+where, args...); err != nil {
		return nil, 0, mapError(err, "counting employees")
	}

	query := `SELECT ` + employeeColumns + ` FROM employees` + where +
		fmt.Sprintf(" ORDER BY full_name ASC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	employees := []models.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, mapError(err, "listing employees")
	}
	return employees, total, nil
}

func (r *employeeRepository) GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	employees := []models.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id::text = ANY($1)`
	if err := r.db.SelectContext(ctx, &employees, query, pq.Array(ids)); err != nil {
		return nil, mapError(err, "fetching employees")
	}
	return employees, nil
}

func (r *employeeRepository) GetEmployees(ctx context.Context, branchID, position *string, status *models.EmployeeStatus) ([]models.Employee, error) {
	where, args := employeeConditions(branchID, position, status)
	query := `SELECT ` + employeeColumns + ` FROM employees` + where + " ORDER BY full_name ASC"

	employees := []models.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, mapError(err, "listing employees")
	}
	return employees, nil
}

func employeeConditions(branchID, position *string, status *models.EmployeeStatus) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if branchID != nil {
		args = append(args, *branchID)
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)))
	}
	if position != nil {
		args = append(args, *position)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(positions)", len(args)))
	}
	if status != nil {
		args = append(args, string(*status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func appendCondition(where, condition string) string {
	if where == "" {
		return " WHERE " + condition
	}
	return where + " AND " + condition
}
