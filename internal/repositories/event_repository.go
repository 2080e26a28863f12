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

// EventRepository defines the interface for event and shift database operations.
type EventRepository interface {
	// Event methods
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, int, error)
	DeleteEvent(ctx context.Context, id string) error

	// Shift methods
	CreateShift(ctx context.Context, shift *models.Shift) error
	GetShiftByID(ctx context.Context, id string) (*models.Shift, error)
	UpdateShift(ctx context.Context, shift *models.Shift) error
}

type eventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, location, event_date, branch_id, client_id, attachments, notifications, created_at, updated_at`

const shiftColumns = `id, event_id, position, start_time, end_time, quantity,
	assigned_employee_ids, available_employee_ids, area, notes, created_at, updated_at`

const insertShiftQuery = `INSERT INTO shifts (` + shiftColumns + `)
	VALUES (:id, :event_id, :position, :start_time, :end_time, :quantity,
	        :assigned_employee_ids, :available_employee_ids, :area, :notes, :created_at, :updated_at)`

// --- Event Methods ---

// CreateEvent inserts the event and all of its shifts in one transaction.
func (r *eventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO events (` + eventColumns + `)
		          VALUES (:id, :title, :location, :event_date, :branch_id, :client_id,
		                  :attachments, :notifications, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
			return mapError(err, "creating event")
		}
		for i := range event.Shifts {
			shift := &event.Shifts[i]
			shift.EventID = event.ID
			shift.CreatedAt, shift.UpdatedAt = now, now
			if _, err := tx.NamedExecContext(ctx, insertShiftQuery, shift); err != nil {
				return mapError(err, "creating shift")
			}
		}
		return nil
	})
}

func (r *eventRepository) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, mapError(err, "fetching event")
	}

	shifts, err := r.shiftsForEvents(ctx, []string{event.ID})
	if err != nil {
		return nil, err
	}
	event.Shifts = shifts[event.ID]
	if event.Shifts == nil {
		event.Shifts = []models.Shift{}
	}
	return &event, nil
}

func (r *eventRepository) GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("event_date >= $%d", argID))
		args = append(args, *filters.DateFrom)
		argID++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("event_date <= $%d", argID))
		args = append(args, *filters.DateTo)
		argID++
	}
	if filters.BranchID != nil {
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", argID))
		args = append(args, *filters.BranchID)
		argID++
	}
	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argID))
		args = append(args, *filters.ClientID)
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM events"+where, args...); err != nil {
		return nil, 0, mapError(err, "counting events")
	}

	query := `SELECT ` + eventColumns + ` FROM events` + where +
		fmt.Sprintf(" ORDER BY event_date ASC, created_at ASC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, mapError(err, "listing events")
	}

	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	shifts, err := r.shiftsForEvents(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range events {
		events[i].Shifts = shifts[events[i].ID]
		if events[i].Shifts == nil {
			events[i].Shifts = []models.Shift{}
		}
	}
	return events, total, nil
}

// DeleteEvent removes the event. Shifts, timesheet entries and availability
// requests go with it through ON DELETE CASCADE.
func (r *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "deleting event")
	}
	return requireAffected(res, "deleting event")
}

func (r *eventRepository) shiftsForEvents(ctx context.Context, eventIDs []string) (map[string][]models.Shift, error) {
	byEvent := make(map[string][]models.Shift, len(eventIDs))
	if len(eventIDs) == 0 {
		return byEvent, nil
	}
	var shifts []models.Shift
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE event_id = ANY($1::uuid[]) ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &shifts, query, pq.Array(eventIDs)); err != nil {
		return nil, mapError(err, "listing shifts")
	}
	for _, s := range shifts {
		byEvent[s.EventID] = append(byEvent[s.EventID], s)
	}
	return byEvent, nil
}

// --- Shift Methods ---

func (r *eventRepository) CreateShift(ctx context.Context, shift *models.Shift) error {
	now := time.Now().UTC()
	shift.CreatedAt, shift.UpdatedAt = now, now
	if _, err := r.db.NamedExecContext(ctx, insertShiftQuery, shift); err != nil {
		return mapError(err, "creating shift")
	}
	return nil
}

func (r *eventRepository) GetShiftByID(ctx context.Context, id string) (*models.Shift, error) {
	var shift models.Shift
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		return nil, mapError(err, "fetching shift")
	}
	return &shift, nil
}

// UpdateShift writes the mutable shift fields, including both rosters.
func (r *eventRepository) UpdateShift(ctx context.Context, shift *models.Shift) error {
	shift.UpdatedAt = time.Now().UTC()
	query := `UPDATE shifts SET position = :position, start_time = :start_time, end_time = :end_time,
	            quantity = :quantity, assigned_employee_ids = :assigned_employee_ids,
	            available_employee_ids = :available_employee_ids, area = :area, notes = :notes,
	            updated_at = :updated_at
	          WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, shift)
	if err != nil {
		return mapError(err, "updating shift")
	}
	return requireAffected(res, "updating shift")
}
