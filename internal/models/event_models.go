package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// BookingStatus is the fill classification of a shift or event.
type BookingStatus string

const (
	BookingStatusEmpty   BookingStatus = "EMPTY"
	BookingStatusPartial BookingStatus = "PARTIAL"
	BookingStatusFull    BookingStatus = "FULL"
)

// Attachment is an opaque file reference carried on an event.
type Attachment struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type,omitempty"`
}

// Attachments is stored as a JSONB array.
type Attachments []Attachment

// Value implements driver.Valuer.
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Attachments) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attachments{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("attachments: unsupported source type")
	}
	return json.Unmarshal(raw, a)
}

// Event is a dated job for a client. It owns its shifts.
type Event struct {
	ID            string         `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	Location      string         `json:"location" db:"location"`
	Date          time.Time      `json:"date" db:"event_date"`
	BranchID      *string        `json:"branch_id,omitempty" db:"branch_id"`
	ClientID      *string        `json:"client_id,omitempty" db:"client_id"`
	Attachments   Attachments    `json:"attachments" db:"attachments"`
	Notifications types.JSONText `json:"notifications,omitempty" db:"notifications"`
	Shifts        []Shift        `json:"shifts" db:"-"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Shift is one position on an event that needs Quantity workers.
// StartTime and EndTime are local time-of-day values (HH:MM).
type Shift struct {
	ID                   string    `json:"id" db:"id"`
	EventID              string    `json:"event_id" db:"event_id"`
	Position             string    `json:"position" db:"position"`
	StartTime            string    `json:"start_time" db:"start_time"`
	EndTime              string    `json:"end_time" db:"end_time"`
	Quantity             int       `json:"quantity" db:"quantity"`
	AssignedEmployeeIDs  IDSet     `json:"assigned_employee_ids" db:"assigned_employee_ids"`
	AvailableEmployeeIDs IDSet     `json:"available_employee_ids" db:"available_employee_ids"`
	Area                 *string   `json:"area,omitempty" db:"area"`
	Notes                *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// EventFilters narrows event listings.
type EventFilters struct {
	DateFrom *time.Time `form:"date_from"`
	DateTo   *time.Time `form:"date_to"`
	BranchID *string    `form:"branch_id"`
	ClientID *string    `form:"client_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
