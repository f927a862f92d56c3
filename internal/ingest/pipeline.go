// =============================================================================
// Booking Analytics - Ingestion Pipeline
// =============================================================================
//
// This module orchestrates the ingestion of one export file, from raw bytes
// to the ordered collection of canonical bookings.
//
// INGESTION PIPELINE:
//   1. Decode the bytes (UTF-16LE by default), or open them as a workbook
//      when they carry the XLSX signature
//   2. Split the text into header-keyed rows, resolving header aliases
//   3. Map every row through the Row Mapper, skipping rejected rows
//   4. Report the accepted/rejected counts
//
// FAILURES:
//   Three batch-level failures stop the pipeline and return no partial
//   result: the file cannot be decoded, the file holds no rows, or no row
//   survived mapping. Everything below batch level is counted, not raised.
//
// CONCURRENCY:
//   A Pipeline holds no mutable state. Run may be called concurrently for
//   independent files.
//
// =============================================================================

package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/config"
	"github.com/ginjaninja78/booking-analytics/internal/csvparser"
	"github.com/ginjaninja78/booking-analytics/internal/mapper"
	"github.com/ginjaninja78/booking-analytics/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of ingesting one file.
type Result struct {
	// Bookings holds the canonical records in row order. Never empty.
	Bookings []booking.Booking

	// Skipped lists the rejected rows with their reasons.
	Skipped []mapper.Result

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about one ingestion.
type Stats struct {
	// TotalRows is the number of data rows in the file, including rows the
	// delimited reader could not split.
	TotalRows int

	// Accepted is the number of rows that became bookings.
	Accepted int

	// Rejected is TotalRows - Accepted.
	Rejected int

	// ProcessingTime is the time taken by Run.
	ProcessingTime time.Duration
}

// Summary is the non-fatal user-facing summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d of %d rows imported", r.Stats.Accepted, r.Stats.TotalRows)
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline ingests export files.
type Pipeline struct {
	settings config.InputSettings
	mapper   *mapper.Mapper
	logger   zerolog.Logger
}

// New creates a Pipeline from the application configuration.
func New(cfg *config.MainConfig, logger zerolog.Logger) *Pipeline {
	options := mapper.Options{
		UnspecifiedLabel: cfg.Business.UnspecifiedLabel,
		PhoneCodes:       cfg.Business.PhoneCodes,
	}
	return &Pipeline{
		settings: cfg.Input,
		mapper:   mapper.New(options, logger),
		logger:   logger,
	}
}

// Run executes the ingestion pipeline on a fully buffered file.
//
// PARAMETERS:
//   - data: The raw file contents.
//
// RETURNS:
//   - A Result with at least one booking.
//   - An *Error (matching ErrDecode, ErrEmptyFile or ErrNoValidRows) on a
//     batch-level failure. The Result is nil in that case.
func (p *Pipeline) Run(data []byte) (*Result, error) {
	startTime := time.Now()
	logger := p.logger.With().Str("run_id", uuid.NewString()).Logger()

	// =========================================================================
	// STEP 1-2: DECODE AND PARSE
	// =========================================================================

	csvData, err := p.parse(data)
	if err != nil {
		logger.Error().Err(err).Msg("failed to decode input")
		return nil, newError(KindDecode, err)
	}

	totalRows := csvData.RowCount + len(csvData.BadRows)
	for _, bad := range csvData.BadRows {
		logger.Debug().Int("line", bad.Line).Err(bad.Err).Msg("unreadable row")
	}

	if totalRows == 0 {
		logger.Warn().Msg("file contains no data rows")
		return nil, newError(KindEmptyFile, nil)
	}

	logger.Debug().
		Int("rows", csvData.RowCount).
		Strs("headers", csvData.Headers).
		Int("accommodations", len(csvparser.GetUniqueValues(csvData, mapper.HeaderAccommodation))).
		Msg("parsed input")

	// =========================================================================
	// STEP 3: MAP ROWS
	// =========================================================================

	bookings, results := p.mapper.MapAll(csvData.Rows, csvData.Lines)

	if len(bookings) == 0 {
		logger.Warn().Int("rows", totalRows).Msg("no row survived mapping")
		return nil, newError(KindNoValidRows, fmt.Errorf("all %d rows rejected", totalRows))
	}

	// =========================================================================
	// STEP 4: STATISTICS
	// =========================================================================

	result := &Result{
		Bookings: bookings,
		Stats: Stats{
			TotalRows: totalRows,
			Accepted:  len(bookings),
			Rejected:  totalRows - len(bookings),
		},
	}
	for _, r := range results {
		if !r.OK() {
			result.Skipped = append(result.Skipped, r)
		}
	}
	result.Stats.ProcessingTime = time.Since(startTime)

	logger.Info().
		Int("accepted", result.Stats.Accepted).
		Int("rejected", result.Stats.Rejected).
		Dur("duration", result.Stats.ProcessingTime).
		Msg(result.Summary())

	return result, nil
}

// parse splits the input into header-keyed rows.
func (p *Pipeline) parse(data []byte) (*csvparser.CSVData, error) {
	if xlsxparser.IsWorkbook(data) {
		return xlsxparser.Parse(data, mapper.CanonicalHeader)
	}
	return csvparser.Parse(data, p.settings, mapper.CanonicalHeader)
}
