package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"reflect"
	"testing"
	"time"

	"staffing_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestUpdateItem_QuantityAndRateKeepHours(t *testing.T) {
	inv := &models.Invoice{Items: []models.InvoiceItem{{Description: "Staffing", Hours: dec("1"), Quantity: 1, Rate: dec("0")}}}

	if err := UpdateItem(inv, 0, ItemFieldQuantity, "10"); err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if err := UpdateItem(inv, 0, ItemFieldRate, "150"); err != nil {
		t.Fatalf("rate: %v", err)
	}

	item := inv.Items[0]
	if item.Amount.StringFixed(2) != "1500.00" {
		t.Errorf("amount = %s, want 1500.00", item.Amount.StringFixed(2))
	}
	if !item.Hours.Equal(dec("1")) {
		t.Errorf("hours changed to %s", item.Hours)
	}
}

func TestUpdateItem_TimesRecomputeHours(t *testing.T) {
	inv := &models.Invoice{Items: []models.InvoiceItem{{Quantity: 2, Rate: dec("25"), Hours: dec("1")}}}

	if err := UpdateItem(inv, 0, ItemFieldStartTime, "22:00"); err != nil {
		t.Fatal(err)
	}
	if !inv.Items[0].Hours.Equal(dec("1")) {
		t.Errorf("hours should wait for both times, got %s", inv.Items[0].Hours)
	}
	if err := UpdateItem(inv, 0, ItemFieldEndTime, "06:00"); err != nil {
		t.Fatal(err)
	}
	if !inv.Items[0].Hours.Equal(dec("8")) {
		t.Errorf("hours = %s, want 8", inv.Items[0].Hours)
	}
	if inv.Items[0].Amount.StringFixed(2) != "400.00" {
		t.Errorf("amount = %s, want 400.00", inv.Items[0].Amount.StringFixed(2))
	}
}

func TestUpdateItem_Invalid(t *testing.T) {
	inv := &models.Invoice{Items: []models.InvoiceItem{{Quantity: 1}}}

	tests := []struct {
		name  string
		index int
		field string
		value string
	}{
		{"index out of range", 3, ItemFieldQuantity, "1"},
		{"negative index", -1, ItemFieldQuantity, "1"},
		{"unknown field", 0, "colour", "red"},
		{"quantity not a number", 0, ItemFieldQuantity, "ten"},
		{"negative rate", 0, ItemFieldRate, "-5"},
		{"zero quantity", 0, ItemFieldQuantity, "0"},
		{"rate finer than cents", 0, ItemFieldRate, "33.333"},
		{"hours finer than cents", 0, ItemFieldHours, "1.005"},
		{"bad date", 0, ItemFieldDate, "2024/01/01"},
		{"bad time", 0, ItemFieldStartTime, "25:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := UpdateItem(inv, tt.index, tt.field, tt.value); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAddItem_RateStaysStable(t *testing.T) {
	inv := &models.Invoice{}
	if err := AddItem(inv, models.InvoiceItem{Quantity: 1, Rate: dec("33.333"), Hours: dec("3")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sub-cent rate, got %v", err)
	}
	if err := AddItem(inv, models.InvoiceItem{Quantity: 0, Rate: dec("10"), Hours: dec("1")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
	if err := AddItem(inv, models.InvoiceItem{Quantity: 1, Rate: dec("33.330"), Hours: dec("3")}); err != nil {
		t.Fatalf("trailing zero rate rejected: %v", err)
	}
	if got := inv.Items[0].Amount.StringFixed(2); got != "99.99" {
		t.Errorf("amount = %s, want 99.99", got)
	}
	if len(inv.Items) != 1 {
		t.Errorf("rejected items were appended: %d items", len(inv.Items))
	}
}

func TestComputeTotals(t *testing.T) {
	inv := &models.Invoice{
		Items: []models.InvoiceItem{
			{Quantity: 10, Rate: dec("150"), Hours: dec("1"), Amount: dec("9999")},
		},
		TransactionFeePercent: dec("3.5"),
	}

	tests := []struct {
		paid    string
		status  models.InvoiceStatus
		balance string
	}{
		{"0", models.InvoiceStatusUnpaid, "1552.50"},
		{"800", models.InvoiceStatusPartiallyPaid, "752.50"},
		{"1552.50", models.InvoiceStatusPaid, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.paid, func(t *testing.T) {
			inv.AmountPaid = dec(tt.paid)
			totals := ComputeTotals(inv)

			if totals.Subtotal.StringFixed(2) != "1500.00" {
				t.Errorf("subtotal = %s", totals.Subtotal.StringFixed(2))
			}
			if totals.TransactionFeeAmount.StringFixed(2) != "52.50" {
				t.Errorf("fee = %s", totals.TransactionFeeAmount.StringFixed(2))
			}
			if totals.Total.StringFixed(2) != "1552.50" {
				t.Errorf("total = %s", totals.Total.StringFixed(2))
			}
			if totals.Status != tt.status {
				t.Errorf("status = %s, want %s", totals.Status, tt.status)
			}
			if totals.BalanceDue.StringFixed(2) != tt.balance {
				t.Errorf("balance = %s, want %s", totals.BalanceDue.StringFixed(2), tt.balance)
			}
		})
	}
}

func TestRecordPayment(t *testing.T) {
	newInvoice := func() *models.Invoice {
		return &models.Invoice{Items: []models.InvoiceItem{{Quantity: 1, Rate: dec("100"), Hours: dec("2")}}}
	}

	inv := newInvoice()
	if err := RecordPayment(inv, dec("500")); err != nil {
		t.Fatal(err)
	}
	if inv.AmountPaid.StringFixed(2) != "200.00" || inv.Status != models.InvoiceStatusPaid {
		t.Errorf("overpayment should clamp to total: paid=%s status=%s", inv.AmountPaid, inv.Status)
	}

	inv = newInvoice()
	if err := RecordPayment(inv, dec("50")); err != nil {
		t.Fatal(err)
	}
	if inv.Status != models.InvoiceStatusPartiallyPaid {
		t.Errorf("status = %s, want partially_paid", inv.Status)
	}
	if err := RecordPayment(inv, dec("0")); err != nil {
		t.Fatal(err)
	}
	if inv.Status != models.InvoiceStatusUnpaid {
		t.Errorf("status = %s, want unpaid", inv.Status)
	}

	if err := RecordPayment(inv, dec("-1")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDateGroups(t *testing.T) {
	today := day("2024-06-01")
	inv := &models.Invoice{}

	if err := AddItem(inv, models.InvoiceItem{Date: "2024-06-03", Quantity: 1, Rate: dec("10"), Hours: dec("1")}); err != nil {
		t.Fatal(err)
	}
	if err := AddDateGroup(inv, "2024-06-02", today); err != nil {
		t.Fatalf("new date group: %v", err)
	}
	if err := AddDateGroup(inv, "2024-06-03", today); !errors.Is(err, ErrDuplicateDateGroup) {
		t.Errorf("expected ErrDuplicateDateGroup, got %v", err)
	}
	if err := AddItem(inv, models.InvoiceItem{Date: "2024-06-03", Quantity: 2, Rate: dec("10"), Hours: dec("1")}); err != nil {
		t.Errorf("direct append to an existing date should succeed: %v", err)
	}
	if err := AddItem(inv, models.InvoiceItem{Quantity: 1}); err != nil {
		t.Fatal(err)
	}
	if err := AddDateGroup(inv, "2024-06-01", today); !errors.Is(err, ErrDuplicateDateGroup) {
		t.Errorf("undated items group under today; expected ErrDuplicateDateGroup, got %v", err)
	}

	groups := GroupItems(inv, today)

	var dates []string
	for _, g := range groups {
		dates = append(dates, g.Date)
	}
	if !reflect.DeepEqual(dates, []string{"2024-06-01", "2024-06-02", "2024-06-03"}) {
		t.Fatalf("group dates = %v", dates)
	}
	last := groups[2]
	if !reflect.DeepEqual(last.Indexes, []int{0, 2}) {
		t.Errorf("merged group indexes = %v, want [0 2]", last.Indexes)
	}
	if last.Subtotal.StringFixed(2) != "30.00" {
		t.Errorf("merged group subtotal = %s", last.Subtotal.StringFixed(2))
	}
}

func TestRemoveItem(t *testing.T) {
	inv := &models.Invoice{Items: []models.InvoiceItem{{Description: "a"}, {Description: "b"}, {Description: "c"}}}
	if err := RemoveItem(inv, 1); err != nil {
		t.Fatal(err)
	}
	if len(inv.Items) != 2 || inv.Items[0].Description != "a" || inv.Items[1].Description != "c" {
		t.Errorf("unexpected items: %+v", inv.Items)
	}
	if err := RemoveItem(inv, 2); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		existing []string
		want     string
	}{
		{[]string{"INV-001", "INV-003"}, "INV-004"},
		{nil, "INV-001"},
		{[]string{"INV-099"}, "INV-100"},
		{[]string{"INV-1000", "draft"}, "INV-1001"},
	}
	for _, tt := range tests {
		if got := NextInvoiceNumber(tt.existing); got != tt.want {
			t.Errorf("NextInvoiceNumber(%v) = %s, want %s", tt.existing, got, tt.want)
		}
	}
}

func TestDuplicateInvoice(t *testing.T) {
	src := &models.Invoice{
		ID:                    "inv-3",
		InvoiceNumber:         "INV-003",
		ClientName:            "Acme",
		Date:                  day("2024-01-10"),
		DueDate:               day("2024-01-24"),
		Items:                 []models.InvoiceItem{{InvoiceID: "inv-3", Description: "Servers", Quantity: 2, Rate: dec("20"), Hours: dec("5")}},
		TransactionFeePercent: dec("2"),
		AmountPaid:            dec("50"),
		Status:                models.InvoiceStatusPartiallyPaid,
	}
	today := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	dup := DuplicateInvoice(src, "inv-9", []string{"INV-001", "INV-003"}, today)

	if dup.InvoiceNumber != "INV-004" {
		t.Errorf("number = %s, want INV-004", dup.InvoiceNumber)
	}
	if !dup.Date.Equal(day("2024-06-01")) || !dup.DueDate.Equal(day("2024-06-15")) {
		t.Errorf("dates = %v / %v", dup.Date, dup.DueDate)
	}
	if dup.Status != models.InvoiceStatusUnpaid || !dup.AmountPaid.IsZero() {
		t.Errorf("payment not reset: %s %s", dup.Status, dup.AmountPaid)
	}
	if len(dup.Items) != 1 || dup.Items[0].InvoiceID != "inv-9" || dup.Items[0].Amount.StringFixed(2) != "200.00" {
		t.Errorf("items not copied: %+v", dup.Items)
	}

	dup.Items[0].Description = "changed"
	if src.Items[0].Description != "Servers" {
		t.Error("duplicate shares items with source")
	}
}

func exportFixture() []models.Invoice {
	return []models.Invoice{
		{InvoiceNumber: "INV-002", ClientName: "beta", Date: day("2024-02-10"),
			Items: []models.InvoiceItem{{Quantity: 1, Rate: dec("100"), Hours: dec("1")}}},
		{InvoiceNumber: "INV-001", ClientName: "Alpha", Date: day("2024-02-01"),
			Items: []models.InvoiceItem{{Quantity: 1, Rate: dec("300.5"), Hours: dec("1")}}, AmountPaid: dec("300.5")},
		{InvoiceNumber: "INV-003", ClientName: "Gamma", Date: day("2024-03-01"),
			Items: []models.InvoiceItem{{Quantity: 1, Rate: dec("5"), Hours: dec("1")}}},
	}
}

func TestExportRange_NumberSortIsNumeric(t *testing.T) {
	invoices := []models.Invoice{
		{InvoiceNumber: "INV-1000", Date: day("2024-02-01")},
		{InvoiceNumber: "draft", Date: day("2024-02-01")},
		{InvoiceNumber: "INV-999", Date: day("2024-02-01")},
		{InvoiceNumber: "INV-001", Date: day("2024-02-01")},
	}
	rows, err := ExportRange(invoices, day("2024-02-01"), day("2024-02-01"), ExportSortNumber, false)
	if err != nil {
		t.Fatalf("ExportRange: %v", err)
	}
	var got []string
	for _, r := range rows[1:] {
		got = append(got, r[0])
	}
	if want := []string{"INV-001", "INV-999", "INV-1000", "draft"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestExportRange(t *testing.T) {
	rows, err := ExportRange(exportFixture(), day("2024-02-01"), day("2024-02-29"), ExportSortAmount, true)
	if err != nil {
		t.Fatalf("ExportRange: %v", err)
	}

	want := [][]string{
		{"Invoice Number", "Date", "Client Name", "Amount", "Status"},
		{"INV-001", "2024-02-01", "Alpha", "300.50", "paid"},
		{"INV-002", "2024-02-10", "beta", "100.00", "unpaid"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v\nwant %v", rows, want)
	}

	rows, err = ExportRange(exportFixture(), day("2024-01-01"), day("2024-12-31"), ExportSortClient, false)
	if err != nil {
		t.Fatal(err)
	}
	if rows[1][2] != "Alpha" || rows[2][2] != "beta" || rows[3][2] != "Gamma" {
		t.Errorf("client sort is case-insensitive, got %v", rows)
	}

	if _, err := ExportRange(exportFixture(), day("2024-02-01"), day("2024-01-01"), ExportSortDate, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("reversed range: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ExportRange(exportFixture(), day("2024-01-01"), day("2024-02-01"), "colour", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown sort: expected ErrInvalidInput, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	rows, err := ExportRange(exportFixture(), day("2024-01-01"), day("2024-12-31"), ExportSortNumber, false)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteExport(&buf, ExportFormatCSV, rows); err != nil {
		t.Fatalf("csv: %v", err)
	}
	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}
	if !reflect.DeepEqual(parsed, rows) {
		t.Errorf("csv rows = %v", parsed)
	}

	buf.Reset()
	if err := WriteExport(&buf, ExportFormatXLSX, rows); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("opening xlsx: %v", err)
	}
	defer f.Close()
	got, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("xlsx rows = %v", got)
	}

	if err := WriteExport(&buf, "pdf", rows); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for pdf, got %v", err)
	}
}

func TestInvoiceService_CreateAssignsNumber(t *testing.T) {
	var stored *models.Invoice
	repo := &MockInvoiceRepository{
		GetInvoiceNumbersFunc: func(ctx context.Context) ([]string, error) {
			return []string{"INV-001", "INV-003"}, nil
		},
		CreateInvoiceFunc: func(ctx context.Context, invoice *models.Invoice) error {
			stored = invoice
			return nil
		},
	}
	svc := &invoiceService{invoiceRepo: repo, now: fixedClock(testNow), newID: sequentialIDs("inv")}

	view, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName:            "Acme",
		Date:                  "2024-03-01",
		DueDate:               "2024-03-31",
		TransactionFeePercent: dec("3.5"),
		Items: []models.InvoiceItem{
			{Description: "Staffing", Date: "2024-03-01", Quantity: 10, Rate: dec("150"), Hours: dec("1"), Amount: dec("1")},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if stored.InvoiceNumber != "INV-004" {
		t.Errorf("number = %s, want INV-004", stored.InvoiceNumber)
	}
	if stored.Items[0].Amount.StringFixed(2) != "1500.00" {
		t.Errorf("stored amount = %s, want recomputed 1500.00", stored.Items[0].Amount)
	}
	if view.Totals.Total.StringFixed(2) != "1552.50" || view.Status != models.InvoiceStatusUnpaid {
		t.Errorf("unexpected totals %+v status %s", view.Totals, view.Status)
	}
	if len(view.Groups) != 1 || view.Groups[0].Date != "2024-03-01" {
		t.Errorf("unexpected groups: %+v", view.Groups)
	}

	if _, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{ClientName: "", Date: "2024-03-01", DueDate: "2024-03-31"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInvoiceService_AddDateGroupDuplicate(t *testing.T) {
	inv := &models.Invoice{ID: "inv-1", Items: []models.InvoiceItem{{Date: "2024-03-01", Quantity: 1}}}
	saves := 0
	repo := &MockInvoiceRepository{
		GetInvoiceByIDFunc: func(ctx context.Context, id string) (*models.Invoice, error) {
			cp := *inv
			cp.Items = append([]models.InvoiceItem(nil), inv.Items...)
			return &cp, nil
		},
		SaveInvoiceFunc: func(ctx context.Context, invoice *models.Invoice) error {
			saves++
			return nil
		},
	}
	svc := &invoiceService{invoiceRepo: repo, now: fixedClock(testNow), newID: sequentialIDs("inv")}

	if _, err := svc.AddDateGroup(context.Background(), "inv-1", "2024-03-01"); !errors.Is(err, ErrDuplicateDateGroup) {
		t.Errorf("expected ErrDuplicateDateGroup, got %v", err)
	}
	if saves != 0 {
		t.Errorf("rejected change should not be saved")
	}
	view, err := svc.AddDateGroup(context.Background(), "inv-1", "2024-03-02")
	if err != nil {
		t.Fatalf("AddDateGroup: %v", err)
	}
	if len(view.Groups) != 2 || saves != 1 {
		t.Errorf("groups=%d saves=%d", len(view.Groups), saves)
	}
}
