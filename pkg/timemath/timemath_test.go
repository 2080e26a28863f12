package timemath

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeHours(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"day shift", "09:00", "17:00", "8"},
		{"overnight", "22:00", "06:00", "8"},
		{"zero duration", "09:00", "09:00", "0"},
		{"missing start", "", "17:00", "0"},
		{"missing end", "09:00", "", "0"},
		{"garbage", "nine", "17:00", "0"},
		{"quarter hours", "09:15", "10:00", "0.75"},
		{"rounds to two places", "09:00", "09:10", "0.17"},
		{"seconds ignored", "09:00:30", "10:30:00", "1.5"},
		{"twelve hour clock", "9:00 am", "5:30 pm", "8.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHours(tt.start, tt.end)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ComputeHours(%q, %q) = %s, want %s", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	if m, ok := ParseClock("07:45"); !ok || m != 465 {
		t.Fatalf("ParseClock(07:45) = %d, %v", m, ok)
	}
	if _, ok := ParseClock("25:00"); ok {
		t.Fatal("expected 25:00 to be rejected")
	}
	if ValidClock("  ") {
		t.Fatal("blank clock must not be valid")
	}
}

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestComputeTimesheetTotals(t *testing.T) {
	got := ComputeTimesheetTotals(TimesheetTimes{
		ShiftStart: ts("2024-01-01T09:00"),
		ShiftEnd:   ts("2024-01-01T17:00"),
		BreakStart: tsp("2024-01-01T12:00"),
		BreakEnd:   tsp("2024-01-01T12:30"),
	})

	if !got.TotalHours.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("TotalHours = %s, want 7.5", got.TotalHours)
	}
	if !got.BreakDeduction.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("BreakDeduction = %s, want 0.5", got.BreakDeduction)
	}
	if !got.GrossTotal.Equal(got.TotalHours) {
		t.Errorf("GrossTotal = %s, want %s", got.GrossTotal, got.TotalHours)
	}
	if got.Negative() {
		t.Error("valid shift reported negative")
	}
}

func TestComputeTimesheetTotals_NoBreak(t *testing.T) {
	got := ComputeTimesheetTotals(TimesheetTimes{
		ShiftStart: ts("2024-01-01T22:00"),
		ShiftEnd:   ts("2024-01-02T06:00"),
		BreakStart: tsp("2024-01-02T01:00"),
	})
	if !got.TotalHours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("TotalHours = %s, want 8", got.TotalHours)
	}
	if !got.BreakDeduction.IsZero() {
		t.Errorf("BreakDeduction = %s, want 0 when break end missing", got.BreakDeduction)
	}
}

func TestComputeTimesheetTotals_EndBeforeStartIsReported(t *testing.T) {
	got := ComputeTimesheetTotals(TimesheetTimes{
		ShiftStart: ts("2024-01-01T17:00"),
		ShiftEnd:   ts("2024-01-01T09:00"),
	})
	if !got.TotalHours.Equal(decimal.NewFromInt(-8)) {
		t.Errorf("TotalHours = %s, want -8", got.TotalHours)
	}
	if !got.Negative() {
		t.Error("expected Negative() for reversed boundaries")
	}
}

func TestComputeTimesheetTotals_MissingBoundary(t *testing.T) {
	got := ComputeTimesheetTotals(TimesheetTimes{ShiftStart: ts("2024-01-01T09:00")})
	if !got.TotalHours.IsZero() || !got.BreakDeduction.IsZero() {
		t.Errorf("expected zero totals, got %+v", got)
	}
}
