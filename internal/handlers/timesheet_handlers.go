package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"staffing_backend/internal/models"
	"staffing_backend/internal/services"
	"staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TimesheetHandler serves timesheet entries and their approval.
type TimesheetHandler struct {
	timesheetService services.TimesheetService
}

// NewTimesheetHandler creates a new TimesheetHandler.
func NewTimesheetHandler(ts services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetService: ts}
}

// CreateEntry returns 201 for a new entry and 200 when the employee already
// has one for the shift.
func (h *TimesheetHandler) CreateEntry(c *gin.Context) {
	var req services.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateEntry: Failed to bind JSON")
		return
	}
	if owner := ownerScope(c); owner != "" && strings.TrimSpace(req.EmployeeID) != owner {
		respondServiceError(c, fmt.Errorf("%w: cannot create an entry for employee %s", services.ErrForbidden, req.EmployeeID),
			"CreateEntry: employee token used for another employee", "Failed to create timesheet entry.")
		return
	}

	entry, created, err := h.timesheetService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateEntry: Error from timesheetService.CreateEntry", "Failed to create timesheet entry.")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

// GetEntries lists entries filtered by shift, employee and approval state.
func (h *TimesheetHandler) GetEntries(c *gin.Context) {
	page, pageSize, ok := pageParams(c, 50)
	if !ok {
		return
	}
	approved, err := utils.StrToBoolPtr(c.Query("approved"))
	if err != nil {
		utils.RespondValidationFailed(c, "approved: "+err.Error())
		return
	}

	filters := models.TimesheetFilters{
		ShiftID:    utils.NewNullString(c.Query("shift_id")),
		EmployeeID: utils.NewNullString(c.Query("employee_id")),
		Approved:   approved,
		Page:       page,
		PageSize:   pageSize,
	}
	entries, total, err := h.timesheetService.ListEntries(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetEntries: Error from timesheetService.ListEntries", "Failed to fetch timesheet entries.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *TimesheetHandler) GetEntryByID(c *gin.Context) {
	entry, err := h.timesheetService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetEntryByID: Error from timesheetService.GetEntry for ID "+c.Param("id"), "Failed to fetch timesheet entry.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// EditEntry updates times and rating. Approval is never touched here.
func (h *TimesheetHandler) EditEntry(c *gin.Context) {
	var req services.EditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "EditEntry: Failed to bind JSON")
		return
	}
	entry, err := h.timesheetService.EditEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "EditEntry: Error from timesheetService.EditEntry", "Failed to update timesheet entry.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *TimesheetHandler) ClockIn(c *gin.Context) {
	entry, err := h.timesheetService.ClockIn(c.Request.Context(), c.Param("id"), ownerScope(c))
	if err != nil {
		respondServiceError(c, err, "ClockIn: Error from timesheetService.ClockIn", "Failed to clock in.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *TimesheetHandler) ClockOut(c *gin.Context) {
	entry, err := h.timesheetService.ClockOut(c.Request.Context(), c.Param("id"), ownerScope(c))
	if err != nil {
		respondServiceError(c, err, "ClockOut: Error from timesheetService.ClockOut", "Failed to clock out.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *TimesheetHandler) SetRating(c *gin.Context) {
	var req services.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "SetRating: Failed to bind JSON")
		return
	}
	entry, err := h.timesheetService.SetRating(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		respondServiceError(c, err, "SetRating: Error from timesheetService.SetRating", "Failed to rate timesheet entry.")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ApproveEntries approves or unapproves a batch of entries. The actor is the
// authenticated user. A single-id batch whose entry is missing answers 404.
func (h *TimesheetHandler) ApproveEntries(c *gin.Context) {
	var req services.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "ApproveEntries: Failed to bind JSON")
		return
	}

	result, err := h.timesheetService.Approve(c.Request.Context(), req.IDs, *req.Approved, actorID(c))
	if err != nil {
		if pf, ok := services.IsPartialFailure(err); ok && pf.NothingApplied() && len(req.IDs) == 1 {
			utils.LogError(err, "ApproveEntries: entry not found")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Timesheet entry not found.", err.Error()))
			return
		}
		if errors.Is(err, services.ErrPartialFailure) && result != nil {
			respondPartial(c, result, err, "ApproveEntries: partial failure")
			return
		}
		respondServiceError(c, err, "ApproveEntries: Error from timesheetService.Approve", "Failed to update approval.")
		return
	}
	c.JSON(http.StatusOK, result)
}
