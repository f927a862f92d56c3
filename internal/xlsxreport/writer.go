// =============================================================================
// Booking Analytics - XLSX Report Writer
// =============================================================================
//
// This module renders a report as a workbook with one sheet per result block:
//
//   | Sheet          | Rows                                              |
//   |----------------|---------------------------------------------------|
//   | KPIs           | one per KPI; current, comparison, difference      |
//   | Accommodations | one per accommodation, then its apartment types   |
//   | Sources        | one per booking source                            |
//   | Monthly        | January to December                               |
//   | Series         | one per populated day or month                    |
//
// Comparison columns are only written when the report has a comparison
// period. Amounts stay numeric so the sheets can be summed in a spreadsheet.
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/booking-analytics/internal/analytics"
	"github.com/ginjaninja78/booking-analytics/internal/report"
)

// Sheet names.
const (
	SheetKPIs           = "KPIs"
	SheetAccommodations = "Accommodations"
	SheetSources        = "Sources"
	SheetMonthly        = "Monthly"
	SheetSeries         = "Series"
)

// =============================================================================
// WRITER
// =============================================================================

// Write renders the report as a workbook.
//
// PARAMETERS:
//   - w: The destination of the XLSX bytes.
//   - r: The report to render.
//
// RETURNS:
//   - An error if a sheet cannot be built or the workbook cannot be written.
func Write(w io.Writer, r *report.Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build creates the workbook without writing it.
func Build(r *report.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetAccommodations, SheetSources, SheetMonthly, SheetSeries} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{file: f, comparison: r.Meta.ComparisonPeriod != nil}
	if err := w.initStyle(); err != nil {
		f.Close()
		return nil, err
	}

	w.writeKPIs(r.KPIs)
	w.writeAccommodations(r.Accommodations)
	w.writeSources(r.Sources)
	w.writeMonthly(r.MonthOfYear)
	w.writeSeries(r.Series)

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// =============================================================================
// SHEET BUILDERS
// =============================================================================

// sheetWriter keeps the first error so the builders stay linear.
type sheetWriter struct {
	file        *excelize.File
	comparison  bool
	headerStyle int
	err         error
}

func (w *sheetWriter) initStyle() error {
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	w.headerStyle = style
	return nil
}

func (w *sheetWriter) writeKPIs(kpis analytics.KPIReport) {
	header := []any{"KPI", "Current"}
	if w.comparison {
		header = append(header, "Comparison", "Difference")
	}
	w.header(SheetKPIs, header)

	current := kpis.Current
	var comparison analytics.KPIs
	var delta analytics.KPIDelta
	if kpis.Comparison != nil {
		comparison = *kpis.Comparison
	}
	if kpis.Delta != nil {
		delta = *kpis.Delta
	}

	rows := []struct {
		label                string
		cur, cmp, difference any
	}{
		{"Total revenue", current.TotalRevenue, comparison.TotalRevenue, delta.TotalRevenue},
		{"Total commission incl. service fee", current.TotalCommissionWithFee, comparison.TotalCommissionWithFee, delta.TotalCommissionWithFee},
		{"Bookings with service fee", current.ServiceFeeBookings, comparison.ServiceFeeBookings, delta.ServiceFeeBookings},
		{"Bookings", current.TotalBookings, comparison.TotalBookings, delta.TotalBookings},
		{"Nights", current.TotalNights, comparison.TotalNights, delta.TotalNights},
		{"Average nights", current.AverageNights, comparison.AverageNights, delta.AverageNights},
		{"Average revenue per night", current.AverageRevenuePerNight, comparison.AverageRevenuePerNight, delta.AverageRevenuePerNight},
		{"Average revenue", current.AverageRevenue, comparison.AverageRevenue, delta.AverageRevenue},
		{"Phone bookings", current.PhoneBookings.Count, comparison.PhoneBookings.Count, delta.PhoneBookings},
		{"Guests", current.TotalGuests, comparison.TotalGuests, delta.TotalGuests},
		{"Average commission %", current.AverageCommissionPercent, comparison.AverageCommissionPercent, delta.AverageCommissionPercent},
		{"Cancellations", current.Cancellations, comparison.Cancellations, delta.Cancellations},
		{"Cancellation rate %", current.CancellationRate, comparison.CancellationRate, delta.CancellationRate},
	}

	for i, row := range rows {
		values := []any{row.label, row.cur}
		if w.comparison {
			values = append(values, row.cmp, row.difference)
		}
		w.row(SheetKPIs, i+2, values)
	}
	w.width(SheetKPIs, "A", "A", 36)
}

func (w *sheetWriter) writeAccommodations(rows []analytics.AccommodationRollup) {
	header := []any{"Accommodation", "Apartment type", "Revenue", "Commission", "Bookings", "Cancelled", "Nights", "Occupancy %"}
	if w.comparison {
		header = append(header, "Revenue difference", "Bookings difference", "Nights difference")
	}
	w.header(SheetAccommodations, header)

	line := 2
	for _, row := range rows {
		w.row(SheetAccommodations, line, w.figures(row.Accommodation, "", row.RollupFigures))
		line++
		for _, apartment := range row.Apartments {
			w.row(SheetAccommodations, line, w.figures(row.Accommodation, apartment.ApartmentType, apartment.RollupFigures))
			line++
		}
	}
	w.width(SheetAccommodations, "A", "B", 28)
}

func (w *sheetWriter) figures(accommodation, apartmentType string, figures analytics.RollupFigures) []any {
	values := []any{
		accommodation, apartmentType,
		figures.TotalRevenue, figures.TotalCommission,
		figures.BookingCount, figures.CancelledCount,
		figures.Nights, figures.OccupancyRate,
	}
	if w.comparison && figures.Difference != nil {
		values = append(values, figures.Difference.Revenue, figures.Difference.Bookings, figures.Difference.Nights)
	}
	return values
}

func (w *sheetWriter) writeSources(stats []analytics.SourceStat) {
	header := []any{"Source", "Bookings", "Share %", "Revenue", "Commission"}
	if w.comparison {
		header = append(header, "Comparison bookings", "Comparison revenue", "Bookings difference", "Revenue difference")
	}
	w.header(SheetSources, header)

	for i, s := range stats {
		values := []any{s.Source, s.Current.Count, s.Current.Percent, s.Current.Revenue, s.Current.Commission}
		if s.Comparison != nil && s.Delta != nil {
			values = append(values, s.Comparison.Count, s.Comparison.Revenue, s.Delta.Count, s.Delta.Revenue)
		}
		w.row(SheetSources, i+2, values)
	}
	w.width(SheetSources, "A", "A", 24)
}

func (w *sheetWriter) writeMonthly(months []analytics.MonthComparison) {
	header := []any{"Month", "Bookings", "Revenue", "Commission", "Nights", "Cancellations"}
	if w.comparison {
		header = append(header, "Comparison bookings", "Comparison revenue", "Revenue difference")
	}
	w.header(SheetMonthly, header)

	for i, m := range months {
		values := []any{m.Name, m.Current.Bookings, m.Current.Revenue, m.Current.Commission, m.Current.Nights, m.Current.Cancellations}
		if m.Comparison != nil && m.Delta != nil {
			values = append(values, m.Comparison.Bookings, m.Comparison.Revenue, m.Delta.Revenue)
		}
		w.row(SheetMonthly, i+2, values)
	}
}

func (w *sheetWriter) writeSeries(points []analytics.SeriesPoint) {
	w.header(SheetSeries, []any{"Period", "Bookings", "Revenue", "Commission"})
	for i, p := range points {
		w.row(SheetSeries, i+2, []any{p.Period, p.Bookings, p.Revenue, p.Commission})
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// header writes the bold first row of a sheet.
func (w *sheetWriter) header(sheet string, values []any) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.file.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

// row writes values starting in column A of a 1-based row.
func (w *sheetWriter) row(sheet string, line int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		w.err = err
		return
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, line, err)
	}
}

func (w *sheetWriter) width(sheet, startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	if err := w.file.SetColWidth(sheet, startCol, endCol, width); err != nil {
		w.err = fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
}
