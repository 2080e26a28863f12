package services

import (
	"context"
	"fmt"
	"time"

	"staffing_backend/internal/models"
)

type MockEventRepository struct {
	CreateEventFunc  func(ctx context.Context, event *models.Event) error
	GetEventByIDFunc func(ctx context.Context, id string) (*models.Event, error)
	GetEventsFunc    func(ctx context.Context, filters models.EventFilters) ([]models.Event, int, error)
	DeleteEventFunc  func(ctx context.Context, id string) error
	CreateShiftFunc  func(ctx context.Context, shift *models.Shift) error
	GetShiftByIDFunc func(ctx context.Context, id string) (*models.Shift, error)
	UpdateShiftFunc  func(ctx context.Context, shift *models.Shift) error
}

func (m *MockEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.CreateEventFunc(ctx, event)
}

func (m *MockEventRepository) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return m.GetEventByIDFunc(ctx, id)
}

func (m *MockEventRepository) GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, int, error) {
	return m.GetEventsFunc(ctx, filters)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, id string) error {
	return m.DeleteEventFunc(ctx, id)
}

func (m *MockEventRepository) CreateShift(ctx context.Context, shift *models.Shift) error {
	return m.CreateShiftFunc(ctx, shift)
}

func (m *MockEventRepository) GetShiftByID(ctx context.Context, id string) (*models.Shift, error) {
	return m.GetShiftByIDFunc(ctx, id)
}

func (m *MockEventRepository) UpdateShift(ctx context.Context, shift *models.Shift) error {
	if m.UpdateShiftFunc == nil {
		return nil
	}
	return m.UpdateShiftFunc(ctx, shift)
}

type MockEmployeeRepository struct {
	CreateEmployeeFunc    func(ctx context.Context, employee *models.Employee) error
	GetEmployeeByIDFunc   func(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployeeFunc    func(ctx context.Context, employee *models.Employee) error
	ListEmployeesFunc     func(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error)
	GetEmployeesByIDsFunc func(ctx context.Context, ids []string) ([]models.Employee, error)
	GetEmployeesFunc      func(ctx context.Context, branchID, position *string, status *models.EmployeeStatus) ([]models.Employee, error)
}

func (m *MockEmployeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return m.CreateEmployeeFunc(ctx, employee)
}

func (m *MockEmployeeRepository) GetEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	return m.GetEmployeeByIDFunc(ctx, id)
}

func (m *MockEmployeeRepository) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	if m.UpdateEmployeeFunc == nil {
		return nil
	}
	return m.UpdateEmployeeFunc(ctx, employee)
}

func (m *MockEmployeeRepository) ListEmployees(ctx context.Context, filters models.EmployeeFilters) ([]models.Employee, int, error) {
	return m.ListEmployeesFunc(ctx, filters)
}

func (m *MockEmployeeRepository) GetEmployeesByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	return m.GetEmployeesByIDsFunc(ctx, ids)
}

func (m *MockEmployeeRepository) GetEmployees(ctx context.Context, branchID, position *string, status *models.EmployeeStatus) ([]models.Employee, error) {
	return m.GetEmployeesFunc(ctx, branchID, position, status)
}

type MockAvailabilityRepository struct {
	CreateFunc     func(ctx context.Context, req *models.AvailabilityRequest) error
	GetByIDFunc    func(ctx context.Context, id string) (*models.AvailabilityRequest, error)
	GetByShiftFunc func(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error)
	UpdateFunc     func(ctx context.Context, req *models.AvailabilityRequest) error
}

func (m *MockAvailabilityRepository) CreateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error {
	return m.CreateFunc(ctx, req)
}

func (m *MockAvailabilityRepository) GetAvailabilityRequestByID(ctx context.Context, id string) (*models.AvailabilityRequest, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAvailabilityRepository) GetAvailabilityRequestsByShift(ctx context.Context, shiftID string) ([]models.AvailabilityRequest, error) {
	return m.GetByShiftFunc(ctx, shiftID)
}

func (m *MockAvailabilityRepository) UpdateAvailabilityRequest(ctx context.Context, req *models.AvailabilityRequest) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, req)
}

type MockTimesheetRepository struct {
	CreateEntryFunc  func(ctx context.Context, entry *models.TimesheetEntry) (*models.TimesheetEntry, bool, error)
	GetEntryByIDFunc func(ctx context.Context, id string) (*models.TimesheetEntry, error)
	GetEntriesFunc   func(ctx context.Context, filters models.TimesheetFilters) ([]models.TimesheetEntry, int, error)
	UpdateEntryFunc  func(ctx context.Context, entry *models.TimesheetEntry) error
	SetApprovalFunc  func(ctx context.Context, ids []string, approved bool, at *time.Time, by *string) ([]string, error)
}

func (m *MockTimesheetRepository) CreateEntry(ctx context.Context, entry *models.TimesheetEntry) (*models.TimesheetEntry, bool, error) {
	return m.CreateEntryFunc(ctx, entry)
}

func (m *MockTimesheetRepository) GetEntryByID(ctx context.Context, id string) (*models.TimesheetEntry, error) {
	return m.GetEntryByIDFunc(ctx, id)
}

func (m *MockTimesheetRepository) GetEntries(ctx context.Context, filters models.TimesheetFilters) ([]models.TimesheetEntry, int, error) {
	return m.GetEntriesFunc(ctx, filters)
}

func (m *MockTimesheetRepository) UpdateEntry(ctx context.Context, entry *models.TimesheetEntry) error {
	if m.UpdateEntryFunc == nil {
		return nil
	}
	return m.UpdateEntryFunc(ctx, entry)
}

func (m *MockTimesheetRepository) SetApproval(ctx context.Context, ids []string, approved bool, at *time.Time, by *string) ([]string, error) {
	return m.SetApprovalFunc(ctx, ids, approved, at, by)
}

type MockInvoiceRepository struct {
	CreateInvoiceFunc          func(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceByIDFunc         func(ctx context.Context, id string) (*models.Invoice, error)
	SaveInvoiceFunc            func(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceNumbersFunc      func(ctx context.Context) ([]string, error)
	GetInvoicesByDateRangeFunc func(ctx context.Context, start, end time.Time) ([]models.Invoice, error)
	DeleteInvoiceFunc          func(ctx context.Context, id string) error
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return m.CreateInvoiceFunc(ctx, invoice)
}

func (m *MockInvoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	return m.GetInvoiceByIDFunc(ctx, id)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	if m.SaveInvoiceFunc == nil {
		return nil
	}
	return m.SaveInvoiceFunc(ctx, invoice)
}

func (m *MockInvoiceRepository) GetInvoiceNumbers(ctx context.Context) ([]string, error) {
	return m.GetInvoiceNumbersFunc(ctx)
}

func (m *MockInvoiceRepository) GetInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]models.Invoice, error) {
	return m.GetInvoicesByDateRangeFunc(ctx, start, end)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	return m.DeleteInvoiceFunc(ctx, id)
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
