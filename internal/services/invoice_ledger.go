package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"staffing_backend/internal/models"
	"staffing_backend/pkg/timemath"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceTotals is derived from the items and the recorded payment.
type InvoiceTotals struct {
	Subtotal             decimal.Decimal      `json:"subtotal"`
	TransactionFeeAmount decimal.Decimal      `json:"transaction_fee_amount"`
	Total                decimal.Decimal      `json:"total"`
	AmountPaid           decimal.Decimal      `json:"amount_paid"`
	BalanceDue           decimal.Decimal      `json:"balance_due"`
	Status               models.InvoiceStatus `json:"status"`
}

// DateGroup is the set of items sharing one date. Indexes point into
// Invoice.Items so callers can address items for update or removal.
type DateGroup struct {
	Date     string               `json:"date"`
	Indexes  []int                `json:"indexes"`
	Items    []models.InvoiceItem `json:"items"`
	Subtotal decimal.Decimal      `json:"subtotal"`
}

// Item fields addressable through UpdateItem.
const (
	ItemFieldDescription = "description"
	ItemFieldDate        = "date"
	ItemFieldAddress     = "address"
	ItemFieldStartTime   = "start_time"
	ItemFieldEndTime     = "end_time"
	ItemFieldQuantity    = "quantity"
	ItemFieldRate        = "rate"
	ItemFieldHours       = "hours"
)

// RecomputeItem refreshes the derived fields. Hours come from the start and
// end time when both are set; otherwise the existing hours are kept.
func RecomputeItem(item *models.InvoiceItem) {
	if item.StartTime != "" && item.EndTime != "" {
		item.Hours = timemath.ComputeHours(item.StartTime, item.EndTime)
	}
	item.Hours = timemath.Round2(item.Hours)
	item.Amount = itemAmount(*item)
}

func itemAmount(item models.InvoiceItem) decimal.Decimal {
	hours := item.Hours
	if item.StartTime != "" && item.EndTime != "" {
		hours = timemath.ComputeHours(item.StartTime, item.EndTime)
	}
	return timemath.Round2(hours.Mul(decimal.NewFromInt(int64(item.Quantity))).Mul(item.Rate))
}

func validateItem(item models.InvoiceItem) error {
	if item.Date != "" {
		if _, err := time.Parse(models.DateLayout, item.Date); err != nil {
			return invalidf("item date %q must be YYYY-MM-DD", item.Date)
		}
	}
	if item.StartTime != "" && !timemath.ValidClock(item.StartTime) {
		return invalidf("item start_time %q is not a time of day", item.StartTime)
	}
	if item.EndTime != "" && !timemath.ValidClock(item.EndTime) {
		return invalidf("item end_time %q is not a time of day", item.EndTime)
	}
	if item.Quantity < 1 {
		return invalidf("item quantity must be at least 1")
	}
	if item.Rate.IsNegative() {
		return invalidf("item rate cannot be negative")
	}
	if finerThanCents(item.Rate) {
		return invalidf("item rate %s has more than two decimal places", item.Rate)
	}
	if item.Hours.IsNegative() {
		return invalidf("item hours cannot be negative")
	}
	if finerThanCents(item.Hours) {
		return invalidf("item hours %s has more than two decimal places", item.Hours)
	}
	return nil
}

// finerThanCents reports whether d would lose precision in a NUMERIC(_, 2) column.
func finerThanCents(d decimal.Decimal) bool {
	return !d.Equal(d.Round(2))
}

// AddItem validates and appends item. An item whose date matches an existing
// group joins that group.
func AddItem(inv *models.Invoice, item models.InvoiceItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	RecomputeItem(&item)
	inv.Items = append(inv.Items, item)
	return nil
}

// RemoveItem deletes the item at index.
func RemoveItem(inv *models.Invoice, index int) error {
	if index < 0 || index >= len(inv.Items) {
		return invalidf("item index %d out of range", index)
	}
	inv.Items = append(inv.Items[:index:index], inv.Items[index+1:]...)
	return nil
}

// UpdateItem sets one field of the item at index from its string form and
// recomputes hours and amount.
func UpdateItem(inv *models.Invoice, index int, field, value string) error {
	if index < 0 || index >= len(inv.Items) {
		return invalidf("item index %d out of range", index)
	}
	item := inv.Items[index]
	value = strings.TrimSpace(value)

	switch field {
	case ItemFieldDescription:
		item.Description = value
	case ItemFieldDate:
		item.Date = value
	case ItemFieldAddress:
		item.Address = value
	case ItemFieldStartTime:
		item.StartTime = value
	case ItemFieldEndTime:
		item.EndTime = value
	case ItemFieldQuantity:
		q, err := strconv.Atoi(value)
		if err != nil {
			return invalidf("quantity %q is not an integer", value)
		}
		item.Quantity = q
	case ItemFieldRate, ItemFieldHours:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return invalidf("%s %q is not a number", field, value)
		}
		if field == ItemFieldRate {
			item.Rate = d
		} else {
			item.Hours = d
		}
	default:
		return invalidf("unknown item field %q", field)
	}

	if err := validateItem(item); err != nil {
		return err
	}
	RecomputeItem(&item)
	inv.Items[index] = item
	return nil
}

func effectiveDate(item models.InvoiceItem, today time.Time) string {
	if item.Date == "" {
		return today.Format(models.DateLayout)
	}
	return item.Date
}

// GroupItems partitions the items by date, ascending. Items without a date
// group under today.
func GroupItems(inv *models.Invoice, today time.Time) []DateGroup {
	byDate := make(map[string]*DateGroup)
	for i, item := range inv.Items {
		date := effectiveDate(item, today)
		g, ok := byDate[date]
		if !ok {
			g = &DateGroup{Date: date, Subtotal: decimal.Zero}
			byDate[date] = g
		}
		g.Indexes = append(g.Indexes, i)
		g.Items = append(g.Items, item)
		g.Subtotal = g.Subtotal.Add(itemAmount(item))
	}

	groups := make([]DateGroup, 0, len(byDate))
	for _, g := range byDate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups
}

// AddDateGroup opens a new group by appending a blank item on date. Dates
// partition the items, so an existing date is rejected.
func AddDateGroup(inv *models.Invoice, date string, today time.Time) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return invalidf("date %q must be YYYY-MM-DD", date)
	}
	for _, item := range inv.Items {
		if effectiveDate(item, today) == date {
			return fmt.Errorf("%w: %s", ErrDuplicateDateGroup, date)
		}
	}
	inv.Items = append(inv.Items, models.InvoiceItem{
		Date:     date,
		Quantity: 1,
		Rate:     decimal.Zero,
		Hours:    decimal.Zero,
		Amount:   decimal.Zero,
	})
	return nil
}

// DeriveStatus classifies a payment against a total.
func DeriveStatus(amountPaid, total decimal.Decimal) models.InvoiceStatus {
	switch {
	case amountPaid.Sign() <= 0:
		return models.InvoiceStatusUnpaid
	case amountPaid.GreaterThanOrEqual(total):
		return models.InvoiceStatusPaid
	default:
		return models.InvoiceStatusPartiallyPaid
	}
}

// ComputeTotals recomputes every amount from the item fields. Stored amounts
// are ignored.
func ComputeTotals(inv *models.Invoice) InvoiceTotals {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(itemAmount(item))
	}
	fee := timemath.Round2(subtotal.Mul(inv.TransactionFeePercent).Div(hundred))
	total := subtotal.Add(fee)

	paid := inv.AmountPaid
	if paid.GreaterThan(total) {
		paid = total
	}
	return InvoiceTotals{
		Subtotal:             subtotal,
		TransactionFeeAmount: fee,
		Total:                total,
		AmountPaid:           paid,
		BalanceDue:           total.Sub(paid),
		Status:               DeriveStatus(paid, total),
	}
}

// Normalize rewrites the derived fields before the invoice is stored: item
// hours and amounts, the clamped amount paid and the status.
func Normalize(inv *models.Invoice) InvoiceTotals {
	for i := range inv.Items {
		RecomputeItem(&inv.Items[i])
	}
	totals := ComputeTotals(inv)
	inv.AmountPaid = totals.AmountPaid
	inv.Status = totals.Status
	return totals
}

// RecordPayment sets the cumulative amount paid. Amounts at or above the
// total are recorded as exactly the total.
func RecordPayment(inv *models.Invoice, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return invalidf("payment amount cannot be negative")
	}
	inv.AmountPaid = timemath.Round2(amount)
	Normalize(inv)
	return nil
}

var invoiceNumberSuffix = regexp.MustCompile(`(\d+)$`)

// NextInvoiceNumber returns INV-NNN where NNN is one past the largest numeric
// suffix among existing.
func NextInvoiceNumber(existing []string) string {
	highest := 0
	for _, n := range existing {
		if v, ok := invoiceNumberSeq(n); ok && v > highest {
			highest = v
		}
	}
	return fmt.Sprintf("INV-%03d", highest+1)
}

// invoiceNumberSeq returns the numeric suffix of an invoice number.
func invoiceNumberSeq(number string) (int, bool) {
	m := invoiceNumberSuffix.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// invoiceNumberLess orders by numeric suffix so INV-999 precedes INV-1000.
// Numbers without a suffix sort after numbered ones, by text.
func invoiceNumberLess(a, b string) bool {
	av, aok := invoiceNumberSeq(a)
	bv, bok := invoiceNumberSeq(b)
	switch {
	case aok && bok && av != bv:
		return av < bv
	case aok != bok:
		return aok
	}
	return a < b
}

// DuplicateInvoice copies inv under a new id and number, dated today and
// unpaid. The due date keeps the source invoice's payment term.
func DuplicateInvoice(inv *models.Invoice, newID string, existingNumbers []string, today time.Time) models.Invoice {
	today = models.DateOnly(today)
	term := models.DateOnly(inv.DueDate).Sub(models.DateOnly(inv.Date))
	if term < 0 {
		term = 0
	}

	dup := models.Invoice{
		ID:                    newID,
		InvoiceNumber:         NextInvoiceNumber(existingNumbers),
		ClientName:            inv.ClientName,
		Date:                  today,
		DueDate:               today.Add(term),
		Items:                 make([]models.InvoiceItem, len(inv.Items)),
		TransactionFeePercent: inv.TransactionFeePercent,
		AmountPaid:            decimal.Zero,
		Status:                models.InvoiceStatusUnpaid,
	}
	copy(dup.Items, inv.Items)
	for i := range dup.Items {
		dup.Items[i].InvoiceID = newID
	}
	Normalize(&dup)
	return dup
}

// Export sort fields.
const (
	ExportSortNumber = "invoice_number"
	ExportSortDate   = "date"
	ExportSortClient = "client_name"
	ExportSortAmount = "amount"
	ExportSortStatus = "status"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Invoice Number", "Date", "Client Name", "Amount", "Status"}

// ExportRange returns the header and one row per invoice dated within
// [start, end], sorted by sortField.
func ExportRange(invoices []models.Invoice, start, end time.Time, sortField string, desc bool) ([][]string, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)
	if end.Before(start) {
		return nil, invalidf("end date is before start date")
	}

	type row struct {
		inv    models.Invoice
		totals InvoiceTotals
	}
	var rows []row
	for i := range invoices {
		d := models.DateOnly(invoices[i].Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		rows = append(rows, row{inv: invoices[i], totals: ComputeTotals(&invoices[i])})
	}

	var less func(a, b row) bool
	switch sortField {
	case ExportSortNumber, "":
		less = func(a, b row) bool { return invoiceNumberLess(a.inv.InvoiceNumber, b.inv.InvoiceNumber) }
	case ExportSortDate:
		less = func(a, b row) bool { return a.inv.Date.Before(b.inv.Date) }
	case ExportSortClient:
		less = func(a, b row) bool { return strings.ToLower(a.inv.ClientName) < strings.ToLower(b.inv.ClientName) }
	case ExportSortAmount:
		less = func(a, b row) bool { return a.totals.Total.LessThan(b.totals.Total) }
	case ExportSortStatus:
		less = func(a, b row) bool { return a.totals.Status < b.totals.Status }
	default:
		return nil, invalidf("unknown sort field %q", sortField)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	out := make([][]string, 0, len(rows)+1)
	out = append(out, append([]string(nil), ExportHeader...))
	for _, r := range rows {
		out = append(out, []string{
			r.inv.InvoiceNumber,
			r.inv.Date.Format(models.DateLayout),
			r.inv.ClientName,
			r.totals.Total.StringFixed(2),
			string(r.totals.Status),
		})
	}
	return out, nil
}
