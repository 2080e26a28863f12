package repositories

import (
	"context"

	"staffing_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// AvailabilityRepository stores availability requests. Rows are only ever
// inserted or have their status updated.
type AvailabilityRepository interface {
	CreateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error
	GetAvailabilityRequestByID(ctx context.Context, id string) (*models.AvailabilityRequest, error)
	GetAvailabilityRequestsByShift(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error)
	UpdateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error
}

type availabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new instance of AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

const availabilityColumns = `id, shift_id, employee_id, status, created_at, responded_at`

func (r *availabilityRepository) CreateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error {
	query := `INSERT INTO availability_requests (` + availabilityColumns + `)
	          VALUES (:id, :shift_id, :employee_id, :status, :created_at, :responded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return mapError(err, "creating availability request")
	}
	return nil
}

func (r *availabilityRepository) GetAvailabilityRequestByID(ctx context.Context, id string) (*models.AvailabilityRequest, error) {
	var req models.AvailabilityRequest
	query := `SELECT ` + availabilityColumns + ` FROM availability_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, mapError(err, "fetching availability request")
	}
	return &req, nil
}

// GetAvailabilityRequestsByShift returns every request for the shift, oldest first.
func (r *availabilityRepository) GetAvailabilityRequestsByShift(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error) {
	reqs := []models.AvailabilityRequest{}
	query := `SELECT ` + availabilityColumns + ` FROM availability_requests
	          WHERE shift_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &reqs, query, shiftID); err != nil {
		return nil, mapError(err, "listing availability requests")
	}
	return reqs, nil
}

func (r *availabilityRepository) UpdateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error {
	query := `UPDATE availability_requests SET status = :status, responded_at = :responded_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, req)
	if err != nil {
		return mapError(err, "updating availability request")
	}
	return requireAffected(res, "updating availability request")
}
