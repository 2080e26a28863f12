package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staffing_backend/internal/models"
	"staffing_backend/internal/repositories"
	"staffing_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Invoice DTOs ---

type CreateInvoiceRequest struct {
	InvoiceNumber         *string              `json:"invoice_number"` // assigned when empty
	ClientName            string               `json:"client_name" binding:"required"`
	Date                  string               `json:"date" binding:"required"` // YYYY-MM-DD
	DueDate               string               `json:"due_date" binding:"required"`
	TransactionFeePercent decimal.Decimal      `json:"transaction_fee_percent"`
	Items                 []models.InvoiceItem `json:"items"`
}

type UpdateItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type DateGroupRequest struct {
	Date string `json:"date" binding:"required"`
}

// PaymentRequest carries the cumulative amount paid. An explicit 0 is a
// valid reset; a missing amount is rejected.
type PaymentRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceView is an invoice with its derived totals and date groups.
type InvoiceView struct {
	models.Invoice
	Totals InvoiceTotals `json:"totals"`
	Groups []DateGroup   `json:"groups"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceView, error)
	GetInvoice(ctx context.Context, invoiceID string) (*InvoiceView, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error

	AddItem(ctx context.Context, invoiceID string, item models.InvoiceItem) (*InvoiceView, error)
	UpdateItem(ctx context.Context, invoiceID string, index int, field, value string) (*InvoiceView, error)
	RemoveItem(ctx context.Context, invoiceID string, index int) (*InvoiceView, error)
	AddDateGroup(ctx context.Context, invoiceID, date string) (*InvoiceView, error)

	RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal) (*InvoiceView, error)
	DuplicateInvoice(ctx context.Context, invoiceID string) (*InvoiceView, error)
	ExportRows(ctx context.Context, start, end time.Time, sortField string, desc bool) ([][]string, error)
}

// --- invoiceService Implementation ---
type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	now         func() time.Time
	newID       func() string
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(ir repositories.InvoiceRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo: ir,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

const maxNumberAttempts = 3

func (s *invoiceService) view(inv *models.Invoice) *InvoiceView {
	return &InvoiceView{
		Invoice: *inv,
		Totals:  ComputeTotals(inv),
		Groups:  GroupItems(inv, s.now()),
	}
}

func parseDay(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalidf("%s %q must be YYYY-MM-DD", field, value)
	}
	return t, nil
}

// createWithNumber stores inv, picking the next free number when auto is set
// and retrying if another writer took it first.
func (s *invoiceService) createWithNumber(ctx context.Context, inv *models.Invoice, auto bool) error {
	for attempt := 1; ; attempt++ {
		if auto {
			numbers, err := s.invoiceRepo.GetInvoiceNumbers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list invoice numbers: %w", err)
			}
			inv.InvoiceNumber = NextInvoiceNumber(numbers)
		}
		err := s.invoiceRepo.CreateInvoice(ctx, inv)
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if auto && attempt < maxNumberAttempts {
				utils.LogDebug("Invoice number taken, retrying", map[string]interface{}{"invoice_number": inv.InvoiceNumber, "attempt": attempt})
				continue
			}
			return invalidf("invoice number %s already exists", inv.InvoiceNumber)
		}
		return fmt.Errorf("failed to create invoice in repository: %w", err)
	}
}

// mutate loads the invoice, applies fn, recomputes derived fields and saves.
func (s *invoiceService) mutate(ctx context.Context, invoiceID string, fn func(inv *models.Invoice) error) (*InvoiceView, error) {
	inv, err := s.invoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, repoErr(err, "invoice", invoiceID)
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	Normalize(inv)
	if err := s.invoiceRepo.SaveInvoice(ctx, inv); err != nil {
		return nil, repoErr(err, "invoice", invoiceID)
	}
	return s.view(inv), nil
}

// --- Method Implementations ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceView, error) {
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, invalidf("client_name cannot be empty")
	}
	date, err := parseDay("date", req.Date)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDay("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.TransactionFeePercent.IsNegative() {
		return nil, invalidf("transaction_fee_percent cannot be negative")
	}

	inv := &models.Invoice{
		ID:                    s.newID(),
		ClientName:            strings.TrimSpace(req.ClientName),
		Date:                  date,
		DueDate:               dueDate,
		Items:                 []models.InvoiceItem{},
		TransactionFeePercent: req.TransactionFeePercent,
		AmountPaid:            decimal.Zero,
	}
	for _, item := range req.Items {
		if err := AddItem(inv, item); err != nil {
			return nil, err
		}
	}
	Normalize(inv)

	auto := req.InvoiceNumber == nil || strings.TrimSpace(*req.InvoiceNumber) == ""
	if !auto {
		inv.InvoiceNumber = strings.TrimSpace(*req.InvoiceNumber)
	}
	if err := s.createWithNumber(ctx, inv, auto); err != nil {
		return nil, err
	}
	utils.LogInfo("Invoice created", map[string]interface{}{"invoice_id": inv.ID, "invoice_number": inv.InvoiceNumber})
	return s.view(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*InvoiceView, error) {
	inv, err := s.invoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, repoErr(err, "invoice", invoiceID)
	}
	return s.view(inv), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		return repoErr(err, "invoice", invoiceID)
	}
	utils.LogInfo("Invoice deleted", map[string]interface{}{"invoice_id": invoiceID})
	return nil
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID string, item models.InvoiceItem) (*InvoiceView, error) {
	return s.mutate(ctx, invoiceID, func(inv *models.Invoice) error {
		return AddItem(inv, item)
	})
}

func (s *invoiceService) UpdateItem(ctx context.Context, invoiceID string, index int, field, value string) (*InvoiceView, error) {
	return s.mutate(ctx, invoiceID, func(inv *models.Invoice) error {
		return UpdateItem(inv, index, field, value)
	})
}

func (s *invoiceService) RemoveItem(ctx context.Context, invoiceID string, index int) (*InvoiceView, error) {
	return s.mutate(ctx, invoiceID, func(inv *models.Invoice) error {
		return RemoveItem(inv, index)
	})
}

func (s *invoiceService) AddDateGroup(ctx context.Context, invoiceID, date string) (*InvoiceView, error) {
	return s.mutate(ctx, invoiceID, func(inv *models.Invoice) error {
		return AddDateGroup(inv, date, s.now())
	})
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal) (*InvoiceView, error) {
	view, err := s.mutate(ctx, invoiceID, func(inv *models.Invoice) error {
		return RecordPayment(inv, amount)
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Invoice payment recorded", map[string]interface{}{
		"invoice_id": invoiceID, "amount_paid": view.AmountPaid.StringFixed(2), "status": string(view.Status),
	})
	return view, nil
}

func (s *invoiceService) DuplicateInvoice(ctx context.Context, invoiceID string) (*InvoiceView, error) {
	inv, err := s.invoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, repoErr(err, "invoice", invoiceID)
	}
	numbers, err := s.invoiceRepo.GetInvoiceNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice numbers: %w", err)
	}
	dup := DuplicateInvoice(inv, s.newID(), numbers, s.now())
	if err := s.createWithNumber(ctx, &dup, false); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			// lost a race for the number; pick again
			err = s.createWithNumber(ctx, &dup, true)
		}
		if err != nil {
			return nil, err
		}
	}
	utils.LogInfo("Invoice duplicated", map[string]interface{}{
		"source_invoice_id": invoiceID, "invoice_id": dup.ID, "invoice_number": dup.InvoiceNumber,
	})
	return s.view(&dup), nil
}

func (s *invoiceService) ExportRows(ctx context.Context, start, end time.Time, sortField string, desc bool) ([][]string, error) {
	if end.Before(start) {
		return nil, invalidf("end date is before start date")
	}
	invoices, err := s.invoiceRepo.GetInvoicesByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for export: %w", err)
	}
	return ExportRange(invoices, start, end, sortField, desc)
}
