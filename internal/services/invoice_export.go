package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const exportSheet = "Invoices"

// ExportContentType returns the MIME type and file extension for format.
func ExportContentType(format string) (string, string, error) {
	switch format {
	case ExportFormatCSV, "":
		return "text/csv", "csv", nil
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", nil
	}
	return "", "", invalidf("unknown export format %q", format)
}

// WriteExport serializes rows produced by ExportRange in the given format.
func WriteExport(w io.Writer, format string, rows [][]string) error {
	switch format {
	case ExportFormatCSV, "":
		return writeCSV(w, rows)
	case ExportFormatXLSX:
		return writeXLSX(w, rows)
	}
	return invalidf("unknown export format %q", format)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv export: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming export sheet: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export cell for row %d: %w", i, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("writing export row %d: %w", i, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "E", 18); err != nil {
		return fmt.Errorf("sizing export columns: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx export: %w", err)
	}
	return nil
}
