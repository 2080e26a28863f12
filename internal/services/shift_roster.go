package services

import (
	"sort"

	"staffing_backend/internal/models"
)

// AssignEmployee adds employeeID to the shift's assigned set. Assigning past
// the shift quantity is allowed. Returns false when the employee was already
// assigned.
func AssignEmployee(shift *models.Shift, employeeID string) bool {
	var added bool
	shift.AssignedEmployeeIDs, added = shift.AssignedEmployeeIDs.Add(employeeID)
	return added
}

// UnassignEmployee removes employeeID from the assigned set. Returns false
// when the employee was not assigned.
func UnassignEmployee(shift *models.Shift, employeeID string) bool {
	var removed bool
	shift.AssignedEmployeeIDs, removed = shift.AssignedEmployeeIDs.Remove(employeeID)
	return removed
}

// DuplicateShift copies the shift configuration under newID. The copy starts
// with an empty roster.
func DuplicateShift(shift models.Shift, newID string) models.Shift {
	dup := models.Shift{
		ID:                   newID,
		EventID:              shift.EventID,
		Position:             shift.Position,
		StartTime:            shift.StartTime,
		EndTime:              shift.EndTime,
		Quantity:             shift.Quantity,
		AssignedEmployeeIDs:  models.IDSet{},
		AvailableEmployeeIDs: models.IDSet{},
	}
	if shift.Area != nil {
		area := *shift.Area
		dup.Area = &area
	}
	if shift.Notes != nil {
		notes := *shift.Notes
		dup.Notes = &notes
	}
	return dup
}

// IsEligible reports whether the employee may be asked about the shift: same
// branch as the event, holds the position, and active. A nil branchID places
// no branch restriction.
func IsEligible(employee models.Employee, shift models.Shift, branchID *string) bool {
	if employee.Status != models.EmployeeStatusActive {
		return false
	}
	if branchID != nil && employee.BranchID != *branchID {
		return false
	}
	return employee.HoldsPosition(shift.Position)
}

// ineligibleReason explains why IsEligible would return false.
func ineligibleReason(employee models.Employee, shift models.Shift, branchID *string) string {
	switch {
	case employee.Status != models.EmployeeStatusActive:
		return "employee is not active"
	case branchID != nil && employee.BranchID != *branchID:
		return "employee belongs to another branch"
	case !employee.HoldsPosition(shift.Position):
		return "employee does not hold position " + shift.Position
	}
	return ""
}

// FilterCandidates keeps the eligible employees, preserving order.
func FilterCandidates(employees []models.Employee, shift models.Shift, branchID *string) []models.Employee {
	eligible := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if IsEligible(e, shift, branchID) {
			eligible = append(eligible, e)
		}
	}
	return eligible
}

// LatestRequests keeps the newest request per employee. Older requests for
// the same employee are superseded. The result is ordered by employee id.
func LatestRequests(reqs []models.AvailabilityRequest) []models.AvailabilityRequest {
	latest := make(map[string]models.AvailabilityRequest, len(reqs))
	for _, r := range reqs {
		cur, ok := latest[r.EmployeeID]
		if !ok || r.CreatedAt.After(cur.CreatedAt) || (r.CreatedAt.Equal(cur.CreatedAt) && r.ID > cur.ID) {
			latest[r.EmployeeID] = r
		}
	}
	out := make([]models.AvailabilityRequest, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}
