package handlers

import (
	"net/http"

	"staffing_backend/internal/models"
	"staffing_backend/internal/services"
	"staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves the employee directory.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(es services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

// CreateEmployee handles the creation of a new employee.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateEmployee: Failed to bind JSON")
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateEmployee: Error from employeeService.CreateEmployee", "Failed to create employee.")
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// GetEmployees handles fetching employees with pagination, filters and search.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	page, pageSize, ok := pageParams(c, 20)
	if !ok {
		return
	}

	filters := models.EmployeeFilters{
		BranchID: utils.NewNullString(c.Query("branch_id")),
		Position: utils.NewNullString(c.Query("position")),
		Search:   utils.NewNullString(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	}
	if status := c.Query("status"); status != "" {
		st := models.EmployeeStatus(status)
		filters.Status = &st
	}

	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "GetEmployees: Error from employeeService.ListEmployees", "Failed to fetch employees.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      employees,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetEmployeeByID handles fetching a single employee by ID.
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetEmployeeByID: Error from employeeService.GetEmployee for ID "+c.Param("id"), "Failed to fetch employee.")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles updating an employee, including deactivation.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateEmployee: Failed to bind JSON for ID "+c.Param("id"))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateEmployee: Error from employeeService.UpdateEmployee for ID "+c.Param("id"), "Failed to update employee.")
		return
	}
	c.JSON(http.StatusOK, employee)
}
