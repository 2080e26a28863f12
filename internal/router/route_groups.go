package router

import (
	"staffing_backend/internal/handlers"
	"staffing_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

var (
	managersOnly = middleware.RoleAuthMiddleware(middleware.RoleAdmin, middleware.RoleManager)
	anyStaff     = middleware.RoleAuthMiddleware(middleware.RoleAdmin, middleware.RoleManager, middleware.RoleEmployee)
)

// SetupEmployeeRoutes sets up the employee directory routes.
func SetupEmployeeRoutes(authenticatedGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	employeeRoutes := authenticatedGroup.Group("/employees")
	employeeRoutes.Use(managersOnly)
	{
		employeeRoutes.POST("", employeeHandler.CreateEmployee)
		employeeRoutes.GET("", employeeHandler.GetEmployees)
		employeeRoutes.GET("/:id", employeeHandler.GetEmployeeByID)
		employeeRoutes.PATCH("/:id", employeeHandler.UpdateEmployee)
	}
}

// SetupEventRoutes sets up the event routes.
// Reads are open to any staff role; writes are for managers.
func SetupEventRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler) {
	eventWriteRoutes := authenticatedGroup.Group("/events")
	eventWriteRoutes.Use(managersOnly)
	{
		eventWriteRoutes.POST("", eventHandler.CreateEvent)
		eventWriteRoutes.DELETE("/:id", eventHandler.DeleteEvent)
	}

	authenticatedGroup.GET("/events", anyStaff, eventHandler.GetEvents)
	authenticatedGroup.GET("/events/:id", anyStaff, eventHandler.GetEventByID)
}

// SetupShiftRoutes sets up the shift roster routes.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	shiftRoutes.Use(managersOnly)
	{
		shiftRoutes.POST("/:id/duplicate", eventHandler.DuplicateShift)
		shiftRoutes.PATCH("/:id/quantity", eventHandler.UpdateQuantity)
		shiftRoutes.POST("/:id/assignments", eventHandler.AssignEmployee)
		shiftRoutes.DELETE("/:id/assignments/:employeeId", eventHandler.UnassignEmployee)
		shiftRoutes.GET("/:id/candidates", eventHandler.GetCandidates)
		shiftRoutes.POST("/:id/availability-requests", eventHandler.RequestAvailability)
		shiftRoutes.GET("/:id/availability-requests", eventHandler.GetAvailability)
	}

	authenticatedGroup.GET("/shifts/:id", anyStaff, eventHandler.GetShiftByID)
}

// SetupAvailabilityRoutes sets up the routes employees use to answer requests.
func SetupAvailabilityRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler) {
	availabilityRoutes := authenticatedGroup.Group("/availability-requests")
	availabilityRoutes.Use(anyStaff)
	{
		availabilityRoutes.POST("/:id/respond", eventHandler.RespondAvailability)
	}
}

// SetupTimesheetRoutes sets up the timesheet routes.
// Clocking and entry creation are open to staff; edits, ratings and approval are for managers.
func SetupTimesheetRoutes(authenticatedGroup *gin.RouterGroup, timesheetHandler *handlers.TimesheetHandler) {
	timesheetRoutes := authenticatedGroup.Group("/timesheets")
	timesheetRoutes.Use(anyStaff)
	{
		timesheetRoutes.POST("", timesheetHandler.CreateEntry)
		timesheetRoutes.GET("", timesheetHandler.GetEntries)
		timesheetRoutes.GET("/:id", timesheetHandler.GetEntryByID)
		timesheetRoutes.POST("/:id/clock-in", timesheetHandler.ClockIn)
		timesheetRoutes.POST("/:id/clock-out", timesheetHandler.ClockOut)
	}

	authenticatedGroup.PATCH("/timesheets/:id", managersOnly, timesheetHandler.EditEntry)
	authenticatedGroup.PUT("/timesheets/:id/rating", managersOnly, timesheetHandler.SetRating)
	authenticatedGroup.POST("/timesheets/approval", managersOnly, timesheetHandler.ApproveEntries)
}

// SetupInvoiceRoutes sets up the invoice routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(managersOnly)
	{
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("/export", invoiceHandler.ExportInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.DELETE("/:id", invoiceHandler.DeleteInvoice)
		invoiceRoutes.POST("/:id/items", invoiceHandler.AddItem)
		invoiceRoutes.PATCH("/:id/items/:index", invoiceHandler.UpdateItem)
		invoiceRoutes.DELETE("/:id/items/:index", invoiceHandler.RemoveItem)
		invoiceRoutes.POST("/:id/date-groups", invoiceHandler.AddDateGroup)
		invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
		invoiceRoutes.POST("/:id/duplicate", invoiceHandler.DuplicateInvoice)
	}
}
