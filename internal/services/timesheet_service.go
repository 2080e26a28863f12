package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staffing_backend/internal/models"
	"staffing_backend/internal/repositories"
	"staffing_backend/pkg/timemath"
	"staffing_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Timesheet DTOs ---

type CreateEntryRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required"`
	ShiftID        string  `json:"shift_id" binding:"required"`
	ShiftStartTime *string `json:"shift_start_time"` // RFC3339; defaults to the shift's start on the event date
	ShiftEndTime   *string `json:"shift_end_time"`
}

// EditEntryRequest carries a partial update. Nil leaves a field untouched and
// an empty string clears an optional timestamp.
type EditEntryRequest struct {
	ShiftStartTime *string `json:"shift_start_time"`
	ShiftEndTime   *string `json:"shift_end_time"`
	ClockInTime    *string `json:"clock_in_time"`
	ClockOutTime   *string `json:"clock_out_time"`
	BreakStartTime *string `json:"break_start_time"`
	BreakEndTime   *string `json:"break_end_time"`
	Rating         *int    `json:"rating"`
}

type ApprovalRequest struct {
	IDs      []string `json:"ids" binding:"required"`
	Approved *bool    `json:"approved" binding:"required"`
}

type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// EntryView is an entry with totals computed at read time. InvariantViolation
// is set when the totals are negative, which means the stored timestamps are
// inconsistent.
type EntryView struct {
	models.TimesheetEntry
	Totals             timemath.Totals `json:"totals"`
	InvariantViolation string          `json:"invariant_violation,omitempty"`
}

// ApprovalResult describes an approval batch that was written.
type ApprovalResult struct {
	Applied    []string   `json:"applied"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
}

// --- TimesheetService Interface ---
type TimesheetService interface {
	CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryView, bool, error)
	GetEntry(ctx context.Context, entryID string) (*EntryView, error)
	ListEntries(ctx context.Context, filters models.TimesheetFilters) ([]EntryView, int, error)
	EditEntry(ctx context.Context, entryID string, req EditEntryRequest) (*EntryView, error)
	ClockIn(ctx context.Context, entryID, ownerID string) (*EntryView, error)
	ClockOut(ctx context.Context, entryID, ownerID string) (*EntryView, error)
	SetRating(ctx context.Context, entryID string, rating int) (*EntryView, error)
	// Approve is the only approval primitive; single approvals pass one id.
	Approve(ctx context.Context, entryIDs []string, approved bool, actorID string) (*ApprovalResult, error)
}

// --- timesheetService Implementation ---
type timesheetService struct {
	timesheetRepo repositories.TimesheetRepository
	eventRepo     repositories.EventRepository
	now           func() time.Time
	newID         func() string
}

// NewTimesheetService creates a new instance of TimesheetService.
func NewTimesheetService(tr repositories.TimesheetRepository, er repositories.EventRepository) TimesheetService {
	return &timesheetService{
		timesheetRepo: tr,
		eventRepo:     er,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// NewEntryView computes the totals for entry.
func NewEntryView(entry models.TimesheetEntry) EntryView {
	totals := timemath.ComputeTimesheetTotals(entry.Times())
	view := EntryView{TimesheetEntry: entry, Totals: totals}
	if totals.Negative() {
		view.InvariantViolation = fmt.Sprintf("%v: computed hours are negative (total %s, break %s)",
			ErrInvariantViolation, totals.TotalHours.StringFixed(2), totals.BreakDeduction.StringFixed(2))
	}
	return view
}

func parseTimestamp(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Clients without zone info send local wall time; it is stored as UTC.
		t, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04", value)
		}
		if err != nil {
			return time.Time{}, invalidf("%s %q must be an RFC3339 timestamp", field, value)
		}
	}
	return t.UTC(), nil
}

// applyOptional parses value into *dst, clearing it on an empty string.
func applyOptional(dst **time.Time, field string, value *string) error {
	if value == nil {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		*dst = nil
		return nil
	}
	t, err := parseTimestamp(field, *value)
	if err != nil {
		return err
	}
	*dst = &t
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalidf("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}

// shiftWindow places the shift's time-of-day boundaries on the event date.
// An end before the start falls on the next day; equal boundaries give an
// empty window.
func shiftWindow(eventDate time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	startMin, ok := timemath.ParseClock(startClock)
	if !ok {
		return time.Time{}, time.Time{}, invalidf("shift start_time %q is not a time of day", startClock)
	}
	endMin, ok := timemath.ParseClock(endClock)
	if !ok {
		return time.Time{}, time.Time{}, invalidf("shift end_time %q is not a time of day", endClock)
	}
	day := models.DateOnly(eventDate)
	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

func (s *timesheetService) loadEntry(ctx context.Context, entryID string) (*models.TimesheetEntry, error) {
	entry, err := s.timesheetRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, repoErr(err, "timesheet entry", entryID)
	}
	return entry, nil
}

func (s *timesheetService) saveEntry(ctx context.Context, entry *models.TimesheetEntry) (*EntryView, error) {
	if err := s.timesheetRepo.UpdateEntry(ctx, entry); err != nil {
		return nil, repoErr(err, "timesheet entry", entry.ID)
	}
	view := NewEntryView(*entry)
	return &view, nil
}

// --- Method Implementations ---

// CreateEntry returns the existing entry, with created=false, when the
// employee already has one for the shift.
func (s *timesheetService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryView, bool, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return nil, false, invalidf("employee_id cannot be empty")
	}
	shift, err := s.eventRepo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return nil, false, repoErr(err, "shift", req.ShiftID)
	}
	event, err := s.eventRepo.GetEventByID(ctx, shift.EventID)
	if err != nil {
		return nil, false, repoErr(err, "event", shift.EventID)
	}

	start, end, err := shiftWindow(event.Date, shift.StartTime, shift.EndTime)
	if err != nil {
		return nil, false, err
	}
	if req.ShiftStartTime != nil {
		if start, err = parseTimestamp("shift_start_time", *req.ShiftStartTime); err != nil {
			return nil, false, err
		}
	}
	if req.ShiftEndTime != nil {
		if end, err = parseTimestamp("shift_end_time", *req.ShiftEndTime); err != nil {
			return nil, false, err
		}
	}

	entry := &models.TimesheetEntry{
		ID:             s.newID(),
		EmployeeID:     strings.TrimSpace(req.EmployeeID),
		ShiftID:        shift.ID,
		ShiftStartTime: start,
		ShiftEndTime:   end,
	}
	stored, created, err := s.timesheetRepo.CreateEntry(ctx, entry)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create timesheet entry: %w", err)
	}
	if created {
		utils.LogInfo("Timesheet entry created", map[string]interface{}{
			"entry_id": stored.ID, "employee_id": stored.EmployeeID, "shift_id": stored.ShiftID,
		})
	}
	view := NewEntryView(*stored)
	return &view, created, nil
}

func (s *timesheetService) GetEntry(ctx context.Context, entryID string) (*EntryView, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	view := NewEntryView(*entry)
	return &view, nil
}

func (s *timesheetService) ListEntries(ctx context.Context, filters models.TimesheetFilters) ([]EntryView, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	entries, total, err := s.timesheetRepo.GetEntries(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewEntryView(e))
	}
	return views, total, nil
}

// EditEntry applies the fields present in req. Totals are not stored; they
// are recomputed whenever the entry is read.
func (s *timesheetService) EditEntry(ctx context.Context, entryID string, req EditEntryRequest) (*EntryView, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	for _, boundary := range []struct {
		field string
		value *string
		dst   *time.Time
	}{
		{"shift_start_time", req.ShiftStartTime, &entry.ShiftStartTime},
		{"shift_end_time", req.ShiftEndTime, &entry.ShiftEndTime},
	} {
		if boundary.value == nil {
			continue
		}
		if strings.TrimSpace(*boundary.value) == "" {
			return nil, invalidf("%s cannot be cleared", boundary.field)
		}
		t, err := parseTimestamp(boundary.field, *boundary.value)
		if err != nil {
			return nil, err
		}
		*boundary.dst = t
	}

	if err := applyOptional(&entry.ClockInTime, "clock_in_time", req.ClockInTime); err != nil {
		return nil, err
	}
	if err := applyOptional(&entry.ClockOutTime, "clock_out_time", req.ClockOutTime); err != nil {
		return nil, err
	}
	if err := applyOptional(&entry.BreakStartTime, "break_start_time", req.BreakStartTime); err != nil {
		return nil, err
	}
	if err := applyOptional(&entry.BreakEndTime, "break_end_time", req.BreakEndTime); err != nil {
		return nil, err
	}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		rating := *req.Rating
		entry.Rating = &rating
	}

	return s.saveEntry(ctx, entry)
}

// ClockIn stamps the current time. A non-empty ownerID limits it to that
// employee's entries; ClockOut does the same.
func (s *timesheetService) ClockIn(ctx context.Context, entryID, ownerID string) (*EntryView, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(ownerID, entry.EmployeeID, "timesheet entry", entryID); err != nil {
		return nil, err
	}
	if entry.ClockInTime != nil {
		return nil, invalidf("timesheet entry %s is already clocked in", entryID)
	}
	at := s.now().UTC()
	entry.ClockInTime = &at
	return s.saveEntry(ctx, entry)
}

func (s *timesheetService) ClockOut(ctx context.Context, entryID, ownerID string) (*EntryView, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(ownerID, entry.EmployeeID, "timesheet entry", entryID); err != nil {
		return nil, err
	}
	if entry.ClockInTime == nil {
		return nil, invalidf("timesheet entry %s has not been clocked in", entryID)
	}
	if entry.ClockOutTime != nil {
		return nil, invalidf("timesheet entry %s is already clocked out", entryID)
	}
	at := s.now().UTC()
	entry.ClockOutTime = &at
	return s.saveEntry(ctx, entry)
}

// SetRating works regardless of approval state.
func (s *timesheetService) SetRating(ctx context.Context, entryID string, rating int) (*EntryView, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Rating = &rating
	return s.saveEntry(ctx, entry)
}

// Approve sets the approval flag on every listed entry in one store call.
// Approving stamps approvedAt and approvedBy, unapproving clears them. Ids
// that do not exist are reported through a *PartialFailureError alongside the
// result for the ids that were written. Any other error means nothing was
// written.
func (s *timesheetService) Approve(ctx context.Context, entryIDs []string, approved bool, actorID string) (*ApprovalResult, error) {
	ids := models.NewIDSet(entryIDs...)
	if ids.Len() == 0 {
		return nil, invalidf("ids cannot be empty")
	}
	actorID = strings.TrimSpace(actorID)
	if approved && actorID == "" {
		return nil, invalidf("approving requires an acting user")
	}

	result := &ApprovalResult{Approved: approved}
	if approved {
		at := s.now().UTC()
		result.ApprovedAt = &at
		result.ApprovedBy = &actorID
	}

	applied, err := s.timesheetRepo.SetApproval(ctx, ids, approved, result.ApprovedAt, result.ApprovedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update timesheet approval: %w", err)
	}
	result.Applied = applied

	written := models.NewIDSet(applied...)
	var failures []ItemFailure
	for _, id := range ids {
		if !written.Contains(id) {
			failures = append(failures, ItemFailure{ID: id, Reason: "timesheet entry not found"})
		}
	}

	utils.LogInfo("Timesheet approval applied", map[string]interface{}{
		"approved": approved, "applied": len(applied), "failed": len(failures), "actor": actorID,
	})
	if len(failures) > 0 {
		return result, &PartialFailureError{Op: "approve", Applied: applied, Failures: failures}
	}
	return result, nil
}
