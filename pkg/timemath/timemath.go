// Package timemath converts time boundaries into billable hours.
//
// Every function here is pure and never fails: missing or malformed input
// yields zero hours, matching how the rest of the system treats absent data.
package timemath

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

var sixty = decimal.NewFromInt(60)

// clockLayouts are the accepted time-of-day encodings.
var clockLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04 PM"}

// ParseClock parses a time-of-day string and returns minutes after midnight.
// ok is false when the value is empty or cannot be parsed.
func ParseClock(value string) (minutes int, ok bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, strings.ToUpper(v))
		if err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// ValidClock reports whether value is an accepted time-of-day string.
func ValidClock(value string) bool {
	_, ok := ParseClock(value)
	return ok
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MinutesToHours converts whole minutes to hours rounded to two places.
func MinutesToHours(minutes int64) decimal.Decimal {
	return Round2(decimal.NewFromInt(minutes).Div(sixty))
}

// ComputeHours returns the duration between two time-of-day values in hours.
// An end earlier than the start is taken to fall on the next calendar day.
func ComputeHours(startTime, endTime string) decimal.Decimal {
	start, ok := ParseClock(startTime)
	if !ok {
		return decimal.Zero
	}
	end, ok := ParseClock(endTime)
	if !ok {
		return decimal.Zero
	}
	if end < start {
		end += minutesPerDay
	}
	if end == start {
		return decimal.Zero
	}
	return MinutesToHours(int64(end - start))
}

// MinutesBetween returns end minus start in whole minutes, truncated toward
// zero. The result is negative when end precedes start.
func MinutesBetween(end, start time.Time) int64 {
	return int64(end.Sub(start) / time.Minute)
}

// TimesheetTimes holds the timestamps that drive timesheet totals. Shift
// boundaries are full timestamps, so no overnight inference is applied.
type TimesheetTimes struct {
	ShiftStart time.Time
	ShiftEnd   time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
}

// Totals is the hour breakdown of a single timesheet entry.
type Totals struct {
	TotalHours     decimal.Decimal `json:"total_hours"`
	BreakDeduction decimal.Decimal `json:"break_deduction"`
	GrossTotal     decimal.Decimal `json:"gross_total"`
}

// Negative reports whether the shift or break boundaries are out of order.
func (t Totals) Negative() bool {
	return t.TotalHours.IsNegative() || t.BreakDeduction.IsNegative()
}

// ComputeTimesheetTotals derives hours worked net of the break. A shift end
// before its start produces negative hours which are returned unchanged.
func ComputeTimesheetTotals(in TimesheetTimes) Totals {
	if in.ShiftStart.IsZero() || in.ShiftEnd.IsZero() {
		return Totals{TotalHours: decimal.Zero, BreakDeduction: decimal.Zero, GrossTotal: decimal.Zero}
	}
	shiftMinutes := MinutesBetween(in.ShiftEnd, in.ShiftStart)

	var breakMinutes int64
	if in.BreakStart != nil && in.BreakEnd != nil {
		breakMinutes = MinutesBetween(*in.BreakEnd, *in.BreakStart)
	}

	total := MinutesToHours(shiftMinutes - breakMinutes)
	return Totals{
		TotalHours:     total,
		BreakDeduction: MinutesToHours(breakMinutes),
		GrossTotal:     total,
	}
}
