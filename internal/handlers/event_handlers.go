package handlers

import (
	"errors"
	"net/http"

	"staffing_backend/internal/models"
	"staffing_backend/internal/services"
	"staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler serves events and the shift roster.
type EventHandler struct {
	shiftService services.ShiftService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(ss services.ShiftService) *EventHandler {
	return &EventHandler{shiftService: ss}
}

// --- Event Handler Methods ---

// CreateEvent handles the creation of an event with its shifts.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateEvent: Failed to bind JSON")
		return
	}

	event, err := h.shiftService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateEvent: Error from shiftService.CreateEvent", "Failed to create event.")
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvents handles listing events by date range, branch and client.
func (h *EventHandler) GetEvents(c *gin.Context) {
	page, pageSize, ok := pageParams(c, 20)
	if !ok {
		return
	}
	dateFrom, err := utils.StrToDatePtr(c.Query("date_from"))
	if err != nil {
		utils.RespondValidationFailed(c, "date_from: "+err.Error())
		return
	}
	dateTo, err := utils.StrToDatePtr(c.Query("date_to"))
	if err != nil {
		utils.RespondValidationFailed(c, "date_to: "+err.Error())
		return
	}

	filters := models.EventFilters{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		BranchID: utils.NewNullString(c.Query("branch_id")),
		ClientID: utils.NewNullString(c.Query("client_id")),
		Page:     page,
		PageSize: pageSize,
	}
	events, total, err := h.shiftService.ListEvents(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetEvents: Error from shiftService.ListEvents", "Failed to fetch events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetEventByID handles fetching one event with booking summaries.
func (h *EventHandler) GetEventByID(c *gin.Context) {
	event, err := h.shiftService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetEventByID: Error from shiftService.GetEvent for ID "+c.Param("id"), "Failed to fetch event.")
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles deleting an event and everything under it.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.shiftService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "DeleteEvent: Error from shiftService.DeleteEvent for ID "+c.Param("id"), "Failed to delete event.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Shift Handler Methods ---

func (h *EventHandler) GetShiftByID(c *gin.Context) {
	shift, err := h.shiftService.GetShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetShiftByID: Error from shiftService.GetShift", "Failed to fetch shift.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *EventHandler) DuplicateShift(c *gin.Context) {
	shift, err := h.shiftService.DuplicateShift(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "DuplicateShift: Error from shiftService.DuplicateShift", "Failed to duplicate shift.")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *EventHandler) UpdateQuantity(c *gin.Context) {
	var req services.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateQuantity: Failed to bind JSON")
		return
	}
	shift, err := h.shiftService.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		respondServiceError(c, err, "UpdateQuantity: Error from shiftService.UpdateQuantity", "Failed to update shift quantity.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// AssignEmployee adds an employee to the shift roster, even past quantity.
func (h *EventHandler) AssignEmployee(c *gin.Context) {
	var req services.AssignEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "AssignEmployee: Failed to bind JSON")
		return
	}
	shift, err := h.shiftService.AssignEmployee(c.Request.Context(), c.Param("id"), req.EmployeeID)
	if err != nil {
		respondServiceError(c, err, "AssignEmployee: Error from shiftService.AssignEmployee", "Failed to assign employee.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *EventHandler) UnassignEmployee(c *gin.Context) {
	shift, err := h.shiftService.UnassignEmployee(c.Request.Context(), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		respondServiceError(c, err, "UnassignEmployee: Error from shiftService.UnassignEmployee", "Failed to unassign employee.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *EventHandler) GetCandidates(c *gin.Context) {
	employees, err := h.shiftService.ListCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetCandidates: Error from shiftService.ListCandidates", "Failed to list candidates.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employees})
}

// RequestAvailability responds 201 when every employee was asked and 207 when
// some could not be.
func (h *EventHandler) RequestAvailability(c *gin.Context) {
	var req services.AvailabilityRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RequestAvailability: Failed to bind JSON")
		return
	}
	outcomes, err := h.shiftService.RequestAvailability(c.Request.Context(), c.Param("id"), req.EmployeeIDs)
	if err != nil {
		if errors.Is(err, services.ErrPartialFailure) {
			respondPartial(c, outcomes, err, "RequestAvailability: partial failure")
			return
		}
		respondServiceError(c, err, "RequestAvailability: Error from shiftService.RequestAvailability", "Failed to request availability.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": outcomes})
}

func (h *EventHandler) GetAvailability(c *gin.Context) {
	reqs, err := h.shiftService.ListAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetAvailability: Error from shiftService.ListAvailability", "Failed to list availability requests.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

func (h *EventHandler) RespondAvailability(c *gin.Context) {
	var req services.RespondAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "RespondAvailability: Failed to bind JSON")
		return
	}
	updated, err := h.shiftService.RespondAvailability(c.Request.Context(), c.Param("id"), *req.Accept, ownerScope(c))
	if err != nil {
		respondServiceError(c, err, "RespondAvailability: Error from shiftService.RespondAvailability", "Failed to record availability response.")
		return
	}
	c.JSON(http.StatusOK, updated)
}
