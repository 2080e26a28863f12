package repositories

import (
	"context"
	"time"

	"staffing_backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// InvoiceRepository persists invoices together with their ordered items.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error)
	// SaveInvoice rewrites the header and replaces the item list.
	SaveInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceNumbers(ctx context.Context) ([]string, error)
	// GetInvoicesByDateRange returns invoices dated within [start, end], inclusive.
	GetInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, invoice_number, client_name, invoice_date, due_date,
	transaction_fee_percent, amount_paid, status, created_at, updated_at`

const invoiceItemColumns = `invoice_id, position, description, item_date, address,
	start_time, end_time, quantity, rate, hours, amount`

func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt, invoice.UpdatedAt = now, now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO invoices (` + invoiceColumns + `)
		          VALUES (:id, :invoice_number, :client_name, :invoice_date, :due_date,
		                  :transaction_fee_percent, :amount_paid, :status, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, invoice); err != nil {
			return mapError(err, "creating invoice")
		}
		return insertInvoiceItems(ctx, tx, invoice)
	})
}

func (r *invoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, mapError(err, "fetching invoice")
	}

	items, err := itemsForInvoices(ctx, r.db, []string{invoice.ID})
	if err != nil {
		return nil, err
	}
	invoice.Items = items[invoice.ID]
	if invoice.Items == nil {
		invoice.Items = []models.InvoiceItem{}
	}
	return &invoice, nil
}

func (r *invoiceRepository) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE invoices SET invoice_number = :invoice_number, client_name = :client_name,
		            invoice_date = :invoice_date, due_date = :due_date,
		            transaction_fee_percent = :transaction_fee_percent, amount_paid = :amount_paid,
		            status = :status, updated_at = :updated_at
		          WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, invoice)
		if err != nil {
			return mapError(err, "updating invoice")
		}
		if err := requireAffected(res, "updating invoice"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
			return mapError(err, "clearing invoice items")
		}
		return insertInvoiceItems(ctx, tx, invoice)
	})
}

func (r *invoiceRepository) GetInvoiceNumbers(ctx context.Context) ([]string, error) {
	numbers := []string{}
	if err := r.db.SelectContext(ctx, &numbers, `SELECT invoice_number FROM invoices`); err != nil {
		return nil, mapError(err, "listing invoice numbers")
	}
	return numbers, nil
}

func (r *invoiceRepository) GetInvoicesByDateRange(ctx context.Context, start, end time.Time) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices
	          WHERE invoice_date BETWEEN $1 AND $2 ORDER BY invoice_date ASC, invoice_number ASC`
	if err := r.db.SelectContext(ctx, &invoices, query, start, end); err != nil {
		return nil, mapError(err, "listing invoices")
	}

	ids := make([]string, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	items, err := itemsForInvoices(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Items = items[invoices[i].ID]
	}
	return invoices, nil
}

func (r *invoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "deleting invoice")
	}
	return requireAffected(res, "deleting invoice")
}

// insertInvoiceItems writes the items in slice order; Position records that order.
func insertInvoiceItems(ctx context.Context, exec SQLExecutor, invoice *models.Invoice) error {
	query := `INSERT INTO invoice_items (` + invoiceItemColumns + `)
	          VALUES (:invoice_id, :position, :description, :item_date, :address,
	                  :start_time, :end_time, :quantity, :rate, :hours, :amount)`
	for i := range invoice.Items {
		item := &invoice.Items[i]
		item.InvoiceID = invoice.ID
		item.Position = i
		if _, err := exec.NamedExecContext(ctx, query, item); err != nil {
			return mapError(err, "inserting invoice item")
		}
	}
	return nil
}

func itemsForInvoices(ctx context.Context, exec SQLExecutor, invoiceIDs []string) (map[string][]models.InvoiceItem, error) {
	byInvoice := make(map[string][]models.InvoiceItem, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return byInvoice, nil
	}
	var items []models.InvoiceItem
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items
	          WHERE invoice_id = ANY($1::uuid[]) ORDER BY invoice_id, position ASC`
	if err := exec.SelectContext(ctx, &items, query, pq.Array(invoiceIDs)); err != nil {
		return nil, mapError(err, "listing invoice items")
	}
	for _, item := range items {
		byInvoice[item.InvoiceID] = append(byInvoice[item.InvoiceID], item)
	}
	return byInvoice, nil
}
