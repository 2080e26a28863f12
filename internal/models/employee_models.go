package models

import (
	"time"

	"github.com/lib/pq"
)

// EmployeeStatus is the employment state of a worker.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusPending  EmployeeStatus = "pending"
)

// Employee is a temporary worker that can be booked onto shifts.
type Employee struct {
	ID        string         `json:"id" db:"id"`
	FullName  string         `json:"full_name" db:"full_name"`
	BranchID  string         `json:"branch_id" db:"branch_id"`
	Positions pq.StringArray `json:"positions" db:"positions"`
	Status    EmployeeStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// HoldsPosition reports whether the employee can work position.
func (e *Employee) HoldsPosition(position string) bool {
	for _, p := range e.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known employee status.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusPending:
		return true
	}
	return false
}

// EmployeeFilters narrows the employee directory listing.
type EmployeeFilters struct {
	BranchID *string
	Position *string
	Status   *EmployeeStatus
	Search   *string // case-insensitive match on full_name
	Page     int
	PageSize int
}

// AvailabilityStatus is the state of an availability request.
type AvailabilityStatus string

const (
	AvailabilityPending  AvailabilityStatus = "pending"
	AvailabilityAccepted AvailabilityStatus = "accepted"
	AvailabilityDeclined AvailabilityStatus = "declined"
)

// AvailabilityRequest asks one employee whether they can work one shift.
// Requests are never deleted; a newer request for the same pair supersedes it.
type AvailabilityRequest struct {
	ID          string             `json:"id" db:"id"`
	ShiftID     string             `json:"shift_id" db:"shift_id"`
	EmployeeID  string             `json:"employee_id" db:"employee_id"`
	Status      AvailabilityStatus `json:"status" db:"status"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	RespondedAt *time.Time         `json:"responded_at,omitempty" db:"responded_at"`
}
