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

// TimesheetRepository defines the interface for timesheet entry database operations.
type TimesheetRepository interface {
	// CreateEntry inserts the entry unless one already exists for the same
	// employee and shift, in which case the existing row is returned and
	// created is false.
	CreateEntry(ctx context.Context, entry *models.TimesheetEntry) (stored *models.TimesheetEntry, created bool, err error)
	GetEntryByID(ctx context.Context, id string) (*models.TimesheetEntry, error)
	GetEntries(ctx context.Context, filters models.TimesheetFilters) ([]models.TimesheetEntry, int, error)
	UpdateEntry(ctx context.Context, entry *models.TimesheetEntry) error
	// SetApproval updates every listed entry in a single statement and
	// returns the ids that existed and were written.
	SetApproval(ctx context.Context, ids []string, approved bool, at *time.Time, by *string) ([]string, error)
}

type timesheetRepository struct {
	db *sqlx.DB
}

// NewTimesheetRepository creates a new instance of TimesheetRepository.
func NewTimesheetRepository(db *sqlx.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}

const timesheetColumns = `id, employee_id, shift_id, shift_start_time, shift_end_time,
	clock_in_time, clock_out_time, break_start_time, break_end_time,
	rating, approved, approved_at, approved_by, created_at, updated_at`

func (r *timesheetRepository) CreateEntry(ctx context.Context, entry *models.TimesheetEntry) (*models.TimesheetEntry, bool, error) {
	now := time.Now().UTC()
	entry.CreatedAt, entry.UpdatedAt = now, now

	query := `INSERT INTO timesheet_entries (` + timesheetColumns + `)
	          VALUES (:id, :employee_id, :shift_id, :shift_start_time, :shift_end_time,
	                  :clock_in_time, :clock_out_time, :break_start_time, :break_end_time,
	                  :rating, :approved, :approved_at, :approved_by, :created_at, :updated_at)
	          ON CONFLICT (employee_id, shift_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return nil, false, mapError(err, "creating timesheet entry")
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return entry, true, nil
	}

	var existing models.TimesheetEntry
	lookup := `SELECT ` + timesheetColumns + ` FROM timesheet_entries WHERE employee_id = $1 AND shift_id = $2`
	if err := r.db.GetContext(ctx, &existing, lookup, entry.EmployeeID, entry.ShiftID); err != nil {
		return nil, false, mapError(err, "fetching existing timesheet entry")
	}
	return &existing, false, nil
}

func (r *timesheetRepository) GetEntryByID(ctx context.Context, id string) (*models.TimesheetEntry, error) {
	var entry models.TimesheetEntry
	query := `SELECT ` + timesheetColumns + ` FROM timesheet_entries WHERE id = $1`
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, mapError(err, "fetching timesheet entry")
	}
	return &entry, nil
}

func (r *timesheetRepository) GetEntries(ctx context.Context, filters models.TimesheetFilters) ([]models.TimesheetEntry, int, error) {
	var conditions []string
	var args []interface{}

	if filters.ShiftID != nil {
		args = append(args, *filters.ShiftID)
		conditions = append(conditions, fmt.Sprintf("shift_id = $%d", len(args)))
	}
	if filters.EmployeeID != nil {
		args = append(args, *filters.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filters.Approved != nil {
		args = append(args, *filters.Approved)
		conditions = append(conditions, fmt.Sprintf("approved = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM timesheet_entries"+where, args...); err != nil {
		return nil, 0, mapError(err, "counting timesheet entries")
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheet_entries` + where +
		fmt.Sprintf(" ORDER BY shift_start_time DESC, id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	entries := []models.TimesheetEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, mapError(err, "listing timesheet entries")
	}
	return entries, total, nil
}

// UpdateEntry writes the editable fields. Approval is only changed through SetApproval.
func (r *timesheetRepository) UpdateEntry(ctx context.Context, entry *models.TimesheetEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	query := `UPDATE timesheet_entries SET
	            shift_start_time = :shift_start_time, shift_end_time = :shift_end_time,
	            clock_in_time = :clock_in_time, clock_out_time = :clock_out_time,
	            break_start_time = :break_start_time, break_end_time = :break_end_time,
	            rating = :rating, updated_at = :updated_at
	          WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return mapError(err, "updating timesheet entry")
	}
	return requireAffected(res, "updating timesheet entry")
}

func (r *timesheetRepository) SetApproval(ctx context.Context, ids []string, approved bool, at *time.Time, by *string) ([]string, error) {
	query := `UPDATE timesheet_entries
	          SET approved = $1, approved_at = $2, approved_by = $3, updated_at = NOW()
	          WHERE id::text = ANY($4)
	          RETURNING id`
	applied := []string{}
	if err := r.db.SelectContext(ctx, &applied, query, approved, at, by, pq.Array(ids)); err != nil {
		return nil, mapError(err, "updating timesheet approval")
	}
	return applied, nil
}
