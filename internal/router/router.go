package router

import (
	"staffing_backend/internal/handlers"
	"staffing_backend/internal/middleware"
	"staffing_backend/internal/repositories"
	"staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sqlx.DB) {
	// Initialize Repositories
	eventRepo := repositories.NewEventRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	timesheetRepo := repositories.NewTimesheetRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	// Initialize Services
	employeeService := services.NewEmployeeService(employeeRepo)
	shiftService := services.NewShiftService(eventRepo, employeeRepo, availabilityRepo)
	timesheetService := services.NewTimesheetService(timesheetRepo, eventRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo)

	// Initialize Handlers
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	eventHandler := handlers.NewEventHandler(shiftService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	apiV1 := engine.Group("/api/v1")

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupEmployeeRoutes(authenticated, employeeHandler)
		SetupEventRoutes(authenticated, eventHandler)
		SetupShiftRoutes(authenticated, eventHandler)
		SetupAvailabilityRoutes(authenticated, eventHandler)
		SetupTimesheetRoutes(authenticated, timesheetHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
	}
}
