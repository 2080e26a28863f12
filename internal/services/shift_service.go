package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"staffing_backend/internal/models"
	"staffing_backend/internal/repositories"
	"staffing_backend/pkg/timemath"
	"staffing_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// --- Event / Shift DTOs ---

type CreateShiftRequest struct {
	Position  string  `json:"position" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Area      *string `json:"area"`
	Notes     *string `json:"notes"`
}

type CreateEventRequest struct {
	Title         string               `json:"title" binding:"required"`
	Location      string               `json:"location"`
	Date          string               `json:"date" binding:"required"` // YYYY-MM-DD
	BranchID      *string              `json:"branch_id"`
	ClientID      *string              `json:"client_id"`
	Attachments   []models.Attachment  `json:"attachments"`
	Notifications json.RawMessage      `json:"notifications"`
	Shifts        []CreateShiftRequest `json:"shifts"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type AssignEmployeeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
}

type AvailabilityRequestPayload struct {
	EmployeeIDs []string `json:"employee_ids"`
}

type RespondAvailabilityRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ShiftView is a shift together with its booking summary.
type ShiftView struct {
	models.Shift
	Booking BookingSummary `json:"booking"`
}

// EventView is an event with per-shift and event-level booking summaries.
type EventView struct {
	models.Event
	Shifts  []ShiftView    `json:"shifts"`
	Booking BookingSummary `json:"booking"`
}

// AvailabilityOutcome reports what happened for one employee in a
// RequestAvailability call.
type AvailabilityOutcome struct {
	EmployeeID string  `json:"employee_id"`
	RequestID  *string `json:"request_id,omitempty"`
	Created    bool    `json:"created"`
	Reason     string  `json:"reason,omitempty"`
}

// --- ShiftService Interface ---
type ShiftService interface {
	// Event methods
	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventView, error)
	GetEvent(ctx context.Context, eventID string) (*EventView, error)
	ListEvents(ctx context.Context, filters models.EventFilters) ([]EventView, int, error)
	DeleteEvent(ctx context.Context, eventID string) error

	// Roster methods
	GetShift(ctx context.Context, shiftID string) (*ShiftView, error)
	DuplicateShift(ctx context.Context, shiftID string) (*ShiftView, error)
	UpdateQuantity(ctx context.Context, shiftID string, quantity int) (*ShiftView, error)
	AssignEmployee(ctx context.Context, shiftID, employeeID string) (*ShiftView, error)
	UnassignEmployee(ctx context.Context, shiftID, employeeID string) (*ShiftView, error)
	ListCandidates(ctx context.Context, shiftID string) ([]models.Employee, error)

	// Availability methods
	RequestAvailability(ctx context.Context, shiftID string, employeeIDs []string) ([]AvailabilityOutcome, error)
	ListAvailability(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error)
	RespondAvailability(ctx context.Context, requestID string, accept bool, ownerID string) (*models.AvailabilityRequest, error)
}

// --- shiftService Implementation ---
type shiftService struct {
	eventRepo        repositories.EventRepository
	employeeRepo     repositories.EmployeeRepository
	availabilityRepo repositories.AvailabilityRepository
	now              func() time.Time
	newID            func() string
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(er repositories.EventRepository, emr repositories.EmployeeRepository, ar repositories.AvailabilityRepository) ShiftService {
	return &shiftService{
		eventRepo:        er,
		employeeRepo:     emr,
		availabilityRepo: ar,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// repoErr converts repository errors into service errors.
func repoErr(err error, what, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundf("%s %s", what, id)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}

func newShiftView(shift models.Shift) ShiftView {
	return ShiftView{Shift: shift, Booking: SummarizeShifts([]models.Shift{shift})}
}

func newEventView(event *models.Event) *EventView {
	view := &EventView{
		Event:   *event,
		Shifts:  make([]ShiftView, 0, len(event.Shifts)),
		Booking: EventBookingSummary(event),
	}
	for _, s := range event.Shifts {
		view.Shifts = append(view.Shifts, newShiftView(s))
	}
	return view
}

func validateShiftRequest(i int, req CreateShiftRequest) error {
	if strings.TrimSpace(req.Position) == "" {
		return invalidf("shifts[%d]: position cannot be empty", i)
	}
	if !timemath.ValidClock(req.StartTime) {
		return invalidf("shifts[%d]: start_time %q is not a time of day", i, req.StartTime)
	}
	if !timemath.ValidClock(req.EndTime) {
		return invalidf("shifts[%d]: end_time %q is not a time of day", i, req.EndTime)
	}
	if req.Quantity < 1 {
		return invalidf("shifts[%d]: quantity must be at least 1", i)
	}
	return nil
}

// --- Event Method Implementations ---

func (s *shiftService) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventView, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalidf("title cannot be empty")
	}
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, invalidf("date %q must be YYYY-MM-DD", req.Date)
	}

	notifications := types.JSONText("{}")
	if len(req.Notifications) > 0 && string(req.Notifications) != "null" {
		notifications = types.JSONText(req.Notifications)
	}

	event := &models.Event{
		ID:            s.newID(),
		Title:         strings.TrimSpace(req.Title),
		Location:      req.Location,
		Date:          date,
		BranchID:      req.BranchID,
		ClientID:      req.ClientID,
		Attachments:   models.Attachments(req.Attachments),
		Notifications: notifications,
		Shifts:        make([]models.Shift, 0, len(req.Shifts)),
	}
	if event.Attachments == nil {
		event.Attachments = models.Attachments{}
	}

	for i, sr := range req.Shifts {
		if err := validateShiftRequest(i, sr); err != nil {
			return nil, err
		}
		event.Shifts = append(event.Shifts, models.Shift{
			ID:                   s.newID(),
			EventID:              event.ID,
			Position:             strings.TrimSpace(sr.Position),
			StartTime:            sr.StartTime,
			EndTime:              sr.EndTime,
			Quantity:             sr.Quantity,
			AssignedEmployeeIDs:  models.IDSet{},
			AvailableEmployeeIDs: models.IDSet{},
			Area:                 sr.Area,
			Notes:                sr.Notes,
		})
	}

	if err := s.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event in repository: %w", err)
	}
	utils.LogInfo("Event created", map[string]interface{}{"event_id": event.ID, "shifts": len(event.Shifts)})
	return newEventView(event), nil
}

func (s *shiftService) GetEvent(ctx context.Context, eventID string) (*EventView, error) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, repoErr(err, "event", eventID)
	}
	return newEventView(event), nil
}

func (s *shiftService) ListEvents(ctx context.Context, filters models.EventFilters) ([]EventView, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, 0, invalidf("date_to is before date_from")
	}

	events, total, err := s.eventRepo.GetEvents(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	views := make([]EventView, 0, len(events))
	for i := range events {
		views = append(views, *newEventView(&events[i]))
	}
	return views, total, nil
}

// DeleteEvent issues the delete; the store cascades to shifts, timesheet
// entries and availability requests.
func (s *shiftService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		return repoErr(err, "event", eventID)
	}
	utils.LogInfo("Event deleted", map[string]interface{}{"event_id": eventID})
	return nil
}

// --- Roster Method Implementations ---

func (s *shiftService) GetShift(ctx context.Context, shiftID string) (*ShiftView, error) {
	shift, err := s.eventRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	view := newShiftView(*shift)
	return &view, nil
}

func (s *shiftService) DuplicateShift(ctx context.Context, shiftID string) (*ShiftView, error) {
	shift, err := s.eventRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	dup := DuplicateShift(*shift, s.newID())
	if err := s.eventRepo.CreateShift(ctx, &dup); err != nil {
		return nil, fmt.Errorf("failed to create duplicated shift: %w", err)
	}
	utils.LogInfo("Shift duplicated", map[string]interface{}{"source_shift_id": shiftID, "shift_id": dup.ID})
	view := newShiftView(dup)
	return &view, nil
}

func (s *shiftService) UpdateQuantity(ctx context.Context, shiftID string, quantity int) (*ShiftView, error) {
	if quantity < 1 {
		return nil, invalidf("quantity must be at least 1")
	}
	shift, err := s.eventRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	shift.Quantity = quantity
	if err := s.eventRepo.UpdateShift(ctx, shift); err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	view := newShiftView(*shift)
	return &view, nil
}

// AssignEmployee bypasses the eligibility filter; it is the manual override path.
func (s *shiftService) AssignEmployee(ctx context.Context, shiftID, employeeID string) (*ShiftView, error) {
	return s.mutateRoster(ctx, shiftID, employeeID, AssignEmployee)
}

func (s *shiftService) UnassignEmployee(ctx context.Context, shiftID, employeeID string) (*ShiftView, error) {
	return s.mutateRoster(ctx, shiftID, employeeID, UnassignEmployee)
}

func (s *shiftService) mutateRoster(ctx context.Context, shiftID, employeeID string, apply func(*models.Shift, string) bool) (*ShiftView, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, invalidf("employee_id cannot be empty")
	}
	shift, err := s.eventRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	if apply(shift, employeeID) {
		if err := s.eventRepo.UpdateShift(ctx, shift); err != nil {
			return nil, repoErr(err, "shift", shiftID)
		}
		utils.LogInfo("Shift roster updated", map[string]interface{}{
			"shift_id": shiftID, "employee_id": employeeID, "assigned": shift.AssignedEmployeeIDs.Len(),
		})
	}
	view := newShiftView(*shift)
	return &view, nil
}

// shiftBranch loads the shift and the branch of its parent event.
func (s *shiftService) shiftBranch(ctx context.Context, shiftID string) (*models.Shift, *string, error) {
	shift, err := s.eventRepo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return nil, nil, repoErr(err, "shift", shiftID)
	}
	event, err := s.eventRepo.GetEventByID(ctx, shift.EventID)
	if err != nil {
		return nil, nil, repoErr(err, "event", shift.EventID)
	}
	return shift, event.BranchID, nil
}

func (s *shiftService) ListCandidates(ctx context.Context, shiftID string) ([]models.Employee, error) {
	shift, branchID, err := s.shiftBranch(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	active := models.EmployeeStatusActive
	position := shift.Position
	employees, err := s.employeeRepo.GetEmployees(ctx, branchID, &position, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return FilterCandidates(employees, *shift, branchID), nil
}

// --- Availability Method Implementations ---

// RequestAvailability creates one pending request per eligible employee.
// Every employee gets an outcome. When any employee could not be asked the
// outcomes are returned together with a *PartialFailureError.
func (s *shiftService) RequestAvailability(ctx context.Context, shiftID string, employeeIDs []string) ([]AvailabilityOutcome, error) {
	ids := models.NewIDSet(employeeIDs...)
	if ids.Len() == 0 {
		return nil, invalidf("employee_ids cannot be empty")
	}
	shift, branchID, err := s.shiftBranch(ctx, shiftID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}

	employees, err := s.employeeRepo.GetEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[string]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	outcomes := make([]AvailabilityOutcome, 0, ids.Len())
	partial := &PartialFailureError{Op: "request_availability"}
	fail := func(employeeID, reason string) {
		outcomes = append(outcomes, AvailabilityOutcome{EmployeeID: employeeID, Reason: reason})
		partial.Failures = append(partial.Failures, ItemFailure{ID: employeeID, Reason: reason})
	}

	for _, id := range ids {
		employee, ok := byID[id]
		if !ok {
			fail(id, "employee not found")
			continue
		}
		if !IsEligible(employee, *shift, branchID) {
			fail(id, ineligibleReason(employee, *shift, branchID))
			continue
		}
		req := &models.AvailabilityRequest{
			ID:         s.newID(),
			ShiftID:    shift.ID,
			EmployeeID: id,
			Status:     models.AvailabilityPending,
			CreatedAt:  s.now().UTC(),
		}
		if err := s.availabilityRepo.CreateAvailabilityRequest(ctx, req); err != nil {
			utils.LogError(err, "ShiftService: failed to create availability request")
			fail(id, "could not store request")
			continue
		}
		reqID := req.ID
		outcomes = append(outcomes, AvailabilityOutcome{EmployeeID: id, RequestID: &reqID, Created: true})
		partial.Applied = append(partial.Applied, id)
	}

	utils.LogInfo("Availability requested", map[string]interface{}{
		"shift_id": shiftID, "created": len(partial.Applied), "failed": len(partial.Failures),
	})
	if len(partial.Failures) > 0 {
		return outcomes, partial
	}
	return outcomes, nil
}

func (s *shiftService) ListAvailability(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error) {
	if _, err := s.eventRepo.GetShiftByID(ctx, shiftID); err != nil {
		return nil, repoErr(err, "shift", shiftID)
	}
	reqs, err := s.availabilityRepo.GetAvailabilityRequestsByShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability requests: %w", err)
	}
	return LatestRequests(reqs), nil
}

// RespondAvailability records the employee's answer. Accepting adds the
// employee to the shift's available set, declining removes them. A non-empty
// ownerID restricts the answer to that employee's own requests.
func (s *shiftService) RespondAvailability(ctx context.Context, requestID string, accept bool, ownerID string) (*models.AvailabilityRequest, error) {
	req, err := s.availabilityRepo.GetAvailabilityRequestByID(ctx, requestID)
	if err != nil {
		return nil, repoErr(err, "availability request", requestID)
	}
	if err := checkOwner(ownerID, req.EmployeeID, "availability request", requestID); err != nil {
		return nil, err
	}
	if req.Status != models.AvailabilityPending {
		return nil, invalidf("availability request %s was already answered (%s)", requestID, req.Status)
	}

	shift, err := s.eventRepo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return nil, repoErr(err, "shift", req.ShiftID)
	}

	respondedAt := s.now().UTC()
	req.RespondedAt = &respondedAt
	var changed bool
	if accept {
		req.Status = models.AvailabilityAccepted
		shift.AvailableEmployeeIDs, changed = shift.AvailableEmployeeIDs.Add(req.EmployeeID)
	} else {
		req.Status = models.AvailabilityDeclined
		shift.AvailableEmployeeIDs, changed = shift.AvailableEmployeeIDs.Remove(req.EmployeeID)
	}

	if err := s.availabilityRepo.UpdateAvailabilityRequest(ctx, req); err != nil {
		return nil, repoErr(err, "availability request", requestID)
	}
	if changed {
		if err := s.eventRepo.UpdateShift(ctx, shift); err != nil {
			return nil, repoErr(err, "shift", shift.ID)
		}
	}
	utils.LogInfo("Availability answered", map[string]interface{}{
		"request_id": requestID, "shift_id": shift.ID, "status": string(req.Status),
	})
	return req, nil
}
