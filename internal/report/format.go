package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/xmlwriter"
)

// =============================================================================
// OUTPUT FORMATS
// =============================================================================

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a user-supplied value onto a Format.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatJSON, FormatYAML, FormatXML, FormatXLSX, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", value)
	}
}

// Extension returns the file extension of the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// =============================================================================
// REPORT WRITERS
// =============================================================================

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	if err := encodeYAML(w, r); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteXML writes the report as an XML document.
func WriteXML(w io.Writer, r *Report) error {
	data, err := xmlwriter.Generate(r, xmlwriter.DefaultGenerateOptions())
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write XML report: %w", err)
	}
	return nil
}

// Write writes the report in one of the text formats. Workbooks are written
// by the xlsxreport package.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatXML:
		return WriteXML(w, r)
	default:
		return fmt.Errorf("format %q is not a text report format", format)
	}
}

// =============================================================================
// RECORD EXPORT
// =============================================================================

// WriteBookingsCSV writes the records as comma-separated UTF-8 text with a
// header row, in booking.Columns order.
func WriteBookingsCSV(w io.Writer, bookings []booking.Booking) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(booking.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, b := range bookings {
		if err := writer.Write(b.Values()); err != nil {
			return fmt.Errorf("failed to write CSV record %s: %w", b.BookingCode, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV export: %w", err)
	}
	return nil
}

// WriteBookings exports the records as CSV, JSON, YAML or XML.
func WriteBookings(w io.Writer, bookings []booking.Booking, format Format) error {
	switch format {
	case FormatCSV:
		return WriteBookingsCSV(w, bookings)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(bookings)
	case FormatYAML:
		return encodeYAML(w, bookings)
	case FormatXML:
		options := xmlwriter.DefaultGenerateOptions()
		_, err := w.Write(xmlwriter.GenerateBookings(bookings, options))
		return err
	default:
		return fmt.Errorf("format %q is not a record export format", format)
	}
}
