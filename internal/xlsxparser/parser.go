// =============================================================================
// Booking Analytics - XLSX Export Parser
// =============================================================================
//
// Some source systems deliver the booking export as a spreadsheet instead of
// delimited text. This module reads such a workbook and hands its cells to the
// same row pipeline as the delimited parser, so both inputs produce identical
// header-keyed rows.
//
// WORKBOOK LAYOUT (Expected):
//
//   | Column A       | Column B      | Column C      | Column D | ...
//   |----------------|---------------|---------------|----------|
//   | Buchungsnummer | Buchungsdatum | Anreisedatum  | Objekt   | ...   <- header row
//   | B-1            | 01.06.2024    | 15.07.2024    | Haus A   | ...
//
//   - The first sheet is read unless a sheet name is configured.
//   - Leading empty rows are skipped; the first non-empty row is the header.
//   - Cells are read as displayed text, so dates and amounts arrive in the
//     same German formats as in the delimited export.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/booking-analytics/internal/csvparser"
)

// zipSignature starts every XLSX file.
var zipSignature = []byte("PK\x03\x04")

// =============================================================================
// PARSE OPTIONS
// =============================================================================

// Options controls which part of the workbook is read.
type Options struct {
	// SheetName is the sheet holding the export.
	// Default: "" (the first sheet)
	SheetName string
}

// DefaultOptions returns the default parse options.
func DefaultOptions() Options {
	return Options{}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// IsWorkbook reports whether the bytes look like an XLSX file.
func IsWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// Parse reads a booking export workbook.
//
// PARAMETERS:
//   - data: The raw file contents.
//   - transformHeader: Applied to every header; nil keeps headers as they are.
//
// RETURNS:
//   - The parsed data, in the same shape as csvparser.Parse returns.
//   - An error if the workbook cannot be opened or the sheet does not exist.
func Parse(data []byte, transformHeader csvparser.HeaderTransform) (*csvparser.CSVData, error) {
	return ParseWithOptions(data, transformHeader, DefaultOptions())
}

// ParseWithOptions reads a booking export workbook with custom options.
func ParseWithOptions(data []byte, transformHeader csvparser.HeaderTransform, options Options) (*csvparser.CSVData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := options.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return csvparser.FromRecords(rows, transformHeader), nil
}
