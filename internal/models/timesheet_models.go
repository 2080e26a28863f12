package models

import (
	"time"

	"staffing_backend/pkg/timemath"
)

// TimesheetEntry tracks one employee's time against one shift. Shift
// boundaries are full timestamps copied from the shift when the entry is
// created.
type TimesheetEntry struct {
	ID             string     `json:"id" db:"id"`
	EmployeeID     string     `json:"employee_id" db:"employee_id"`
	ShiftID        string     `json:"shift_id" db:"shift_id"`
	ShiftStartTime time.Time  `json:"shift_start_time" db:"shift_start_time"`
	ShiftEndTime   time.Time  `json:"shift_end_time" db:"shift_end_time"`
	ClockInTime    *time.Time `json:"clock_in_time,omitempty" db:"clock_in_time"`
	ClockOutTime   *time.Time `json:"clock_out_time,omitempty" db:"clock_out_time"`
	BreakStartTime *time.Time `json:"break_start_time,omitempty" db:"break_start_time"`
	BreakEndTime   *time.Time `json:"break_end_time,omitempty" db:"break_end_time"`
	Rating         *int       `json:"rating,omitempty" db:"rating"`
	Approved       bool       `json:"approved" db:"approved"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy     *string    `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Times returns the timestamps used for hour totals.
func (e *TimesheetEntry) Times() timemath.TimesheetTimes {
	return timemath.TimesheetTimes{
		ShiftStart: e.ShiftStartTime,
		ShiftEnd:   e.ShiftEndTime,
		BreakStart: e.BreakStartTime,
		BreakEnd:   e.BreakEndTime,
	}
}

// TimesheetFilters narrows timesheet listings.
type TimesheetFilters struct {
	ShiftID    *string `form:"shift_id"`
	EmployeeID *string `form:"employee_id"`
	Approved   *bool   `form:"approved"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
