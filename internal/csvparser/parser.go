// =============================================================================
// Booking Analytics - Delimited Text Parser
// =============================================================================
//
// This module turns the raw bytes of a booking export into header-keyed rows.
// The file reading itself happens elsewhere; the parser receives a fully
// buffered byte slice.
//
// PARSING PROCESS:
//   1. Decode the bytes with the configured encoding (see decode.go)
//   2. Split the text with the configured delimiter
//   3. Take the first non-empty row as the header row and pass every header
//      through the header transform (alias resolution happens here)
//   4. Convert every following non-empty row into a header -> value map
//
// ROW ERRORS:
//   A row that breaks the delimited syntax is recorded in CSVData.BadRows and
//   parsing continues with the next row. Only a decode failure stops the parse.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/booking-analytics/internal/config"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed export.
type CSVData struct {
	// Headers contains the column headers after the header transform.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// RawRows contains the raw row data, for error reporting.
	RawRows [][]string

	// Lines holds the source line of each row in Rows (the header is usually
	// line 1). Rows the reader rejected and blank lines still count, so these
	// are the numbers a user finds in the file.
	Lines []int

	// BadRows lists the rows that could not be split.
	BadRows []BadRow

	// RowCount is the number of data rows (excluding the header).
	RowCount int

	// ColumnCount is the number of columns in the header.
	ColumnCount int
}

// BadRow is a row the delimited reader rejected.
type BadRow struct {
	Line int
	Err  error
}

// HeaderTransform rewrites one cleaned header name.
type HeaderTransform func(header string) string

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse decodes and splits a booking export.
//
// PARAMETERS:
//   - data: The raw file contents.
//   - settings: Delimiter and encoding.
//   - transformHeader: Applied to every header; nil keeps headers as they are.
//
// RETURNS:
//   - The parsed data. A file without data rows yields a CSVData with
//     RowCount 0, not an error.
//   - A *DecodeError if the bytes cannot be decoded.
func Parse(data []byte, settings config.InputSettings, transformHeader HeaderTransform) (*CSVData, error) {
	text, err := Decode(data, settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	configureReader(reader, settings)

	collector := newCollector(transformHeader)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				collector.result.BadRows = append(collector.result.BadRows, BadRow{Line: parseErr.Line, Err: parseErr.Err})
				continue
			}
			return nil, fmt.Errorf("failed to read delimited text: %w", err)
		}
		line, _ := reader.FieldPos(0)
		collector.add(record, line)
	}

	return collector.finish(), nil
}

// FromRecords builds CSVData from records that were split elsewhere, such as
// the cells of a spreadsheet. The first non-empty record is the header row;
// record i is line i+1.
func FromRecords(records [][]string, transformHeader HeaderTransform) *CSVData {
	collector := newCollector(transformHeader)
	for i, record := range records {
		collector.add(record, i+1)
	}
	return collector.finish()
}

// collector accumulates records into a CSVData.
type collector struct {
	transformHeader HeaderTransform
	headers         []string
	result          *CSVData
}

func newCollector(transformHeader HeaderTransform) *collector {
	return &collector{transformHeader: transformHeader, result: &CSVData{}}
}

func (c *collector) add(record []string, line int) {
	// Skip empty rows.
	if isRowEmpty(record) {
		return
	}

	if c.headers == nil {
		c.headers = cleanHeaders(record, c.transformHeader)
		return
	}

	c.result.RawRows = append(c.result.RawRows, record)
	c.result.Rows = append(c.result.Rows, toRowMap(c.headers, record))
	c.result.Lines = append(c.result.Lines, line)
}

func (c *collector) finish() *CSVData {
	c.result.Headers = c.headers
	c.result.RowCount = len(c.result.Rows)
	c.result.ColumnCount = len(c.headers)
	return c.result
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ",", "comma":
		reader.Comma = ','
	case "", ";", "semicolon":
		reader.Comma = ';'
	default:
		reader.Comma = []rune(settings.Delimiter)[0]
	}

	// Exports are hand-edited; column counts and quoting vary.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims headers, names empty ones by position and applies the
// header transform.
//
// EXAMPLE:
//
//	["Datum", " Objekt ", ""] -> ["Buchungsdatum", "Objekt", "Column_3"]
func cleanHeaders(headers []string, transformHeader HeaderTransform) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		if transformHeader != nil {
			header = transformHeader(header)
		}
		cleaned[i] = header
	}

	return cleaned
}

// toRowMap converts one record into a header -> value map. Missing trailing
// cells become "". When two columns share a header, the first one wins.
func toRowMap(headers []string, record []string) map[string]string {
	row := make(map[string]string, len(headers))

	for colIndex, header := range headers {
		if _, seen := row[header]; seen {
			continue
		}
		if colIndex < len(record) {
			row[header] = strings.TrimSpace(record[colIndex])
		} else {
			row[header] = ""
		}
	}

	return row
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GetUniqueValues returns the distinct values of a column in first-seen order.
func GetUniqueValues(data *CSVData, header string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, row := range data.Rows {
		value := row[header]
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}

	return unique
}
