package services

import "staffing_backend/internal/models"

// BookingSummary is the fill state of a shift or of all shifts on an event.
type BookingSummary struct {
	TotalPositions int                  `json:"total_positions"`
	TotalBooked    int                  `json:"total_booked"`
	Status         models.BookingStatus `json:"status"`
	OverBooked     bool                 `json:"over_booked"`
}

// ClassifyBooking maps booked and required counts onto a BookingStatus.
// Nothing booked is EMPTY regardless of positions. Zero positions is never
// FULL, so bookings against a zero quantity count as PARTIAL.
func ClassifyBooking(totalBooked, totalPositions int) models.BookingStatus {
	switch {
	case totalBooked <= 0:
		return models.BookingStatusEmpty
	case totalPositions <= 0, totalBooked < totalPositions:
		return models.BookingStatusPartial
	default:
		return models.BookingStatusFull
	}
}

// SummarizeShifts totals quantity and assignments across shifts.
func SummarizeShifts(shifts []models.Shift) BookingSummary {
	var s BookingSummary
	for i := range shifts {
		s.TotalPositions += shifts[i].Quantity
		s.TotalBooked += shifts[i].AssignedEmployeeIDs.Len()
	}
	s.Status = ClassifyBooking(s.TotalBooked, s.TotalPositions)
	s.OverBooked = s.TotalBooked > s.TotalPositions
	return s
}

// ShiftBookingStatus classifies a single shift.
func ShiftBookingStatus(shift models.Shift) models.BookingStatus {
	return SummarizeShifts([]models.Shift{shift}).Status
}

// EventBookingSummary classifies all shifts of an event together.
func EventBookingSummary(event *models.Event) BookingSummary {
	if event == nil {
		return SummarizeShifts(nil)
	}
	return SummarizeShifts(event.Shifts)
}
