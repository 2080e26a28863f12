package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from the amount paid against the invoice total.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

// Invoice bills a client for itemized work. It exclusively owns its items.
type Invoice struct {
	ID                    string          `json:"id" db:"id"`
	InvoiceNumber         string          `json:"invoice_number" db:"invoice_number"`
	ClientName            string          `json:"client_name" db:"client_name"`
	Date                  time.Time       `json:"date" db:"invoice_date"`
	DueDate               time.Time       `json:"due_date" db:"due_date"`
	Items                 []InvoiceItem   `json:"items" db:"-"`
	TransactionFeePercent decimal.Decimal `json:"transaction_fee_percent" db:"transaction_fee_percent"`
	AmountPaid            decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	Status                InvoiceStatus   `json:"status" db:"status"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// InvoiceItem is one billable line. Date is a calendar day (YYYY-MM-DD) and
// StartTime/EndTime are optional time-of-day values. Hours and Amount are
// always recomputed from the other fields before use.
type InvoiceItem struct {
	InvoiceID   string          `json:"-" db:"invoice_id"`
	Position    int             `json:"-" db:"position"`
	Description string          `json:"description" db:"description"`
	Date        string          `json:"date" db:"item_date"`
	Address     string          `json:"address" db:"address"`
	StartTime   string          `json:"start_time,omitempty" db:"start_time"`
	EndTime     string          `json:"end_time,omitempty" db:"end_time"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Rate        decimal.Decimal `json:"rate" db:"rate"`
	Hours       decimal.Decimal `json:"hours" db:"hours"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
}
