// =============================================================================
// Booking Analytics - Converter Module
// =============================================================================
//
// This module contains the per-file orchestration behind the commands. It
// runs the whole chain for one export file, from the raw bytes to a written
// report or record export.
//
// REPORT PIPELINE:
//   1. Read the input file
//   2. Ingest it into canonical bookings (ingest package)
//   3. Resolve the filter request (default: the full data range)
//   4. Assemble the report (report package)
//   5. Write it in the requested format
//
// EXPORT PIPELINE:
//   Steps 1-3 as above, then the selected records are written as CSV, JSON,
//   YAML or XML.
//
// CONCURRENCY:
//   A Converter holds no mutable state after construction. Its methods may be
//   called concurrently for independent files.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/booking-analytics/internal/analytics"
	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/config"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
	"github.com/ginjaninja78/booking-analytics/internal/ingest"
	"github.com/ginjaninja78/booking-analytics/internal/report"
	"github.com/ginjaninja78/booking-analytics/internal/validation"
	"github.com/ginjaninja78/booking-analytics/internal/xlsxreport"
	"github.com/ginjaninja78/booking-analytics/pkg/utils"
)

// StdoutPath selects standard output as the destination.
const StdoutPath = "-"

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the written file, StdoutPath, or empty if
	// processing failed.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Ingest is the ingestion outcome, nil if ingestion failed.
	Ingest *ingest.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Selected is the number of records in the primary selection.
	Selected int

	// Findings is the number of record validation findings.
	Findings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// JOBS
// =============================================================================

// Selection describes which records a job works on.
type Selection struct {
	// Request is the filter request. Nil selects the full data range of
	// FilterType.
	Request *filter.Request

	// FilterType is used when Request is nil.
	FilterType booking.FilterType

	// Search is used when Request is nil.
	Search string
}

// ReportJob describes one report run.
type ReportJob struct {
	Selection

	Format      report.Format
	Granularity analytics.Granularity
	Source      string

	// Output is the destination path. Empty generates a name in the output
	// directory; StdoutPath writes to standard output.
	Output string
}

// ExportJob describes one record export.
type ExportJob struct {
	Selection

	Format report.Format
	Output string
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs jobs against export files.
type Converter struct {
	pipeline *ingest.Pipeline
	files    *utils.FileManager
	params   analytics.Params
	logger   zerolog.Logger

	// stdout receives output written to StdoutPath.
	stdout io.Writer
}

// New creates a Converter from the application configuration.
func New(cfg *config.MainConfig, logger zerolog.Logger) *Converter {
	return &Converter{
		pipeline: ingest.New(cfg, logger),
		files:    utils.NewFileManager(cfg.Output),
		params:   analytics.ParamsFrom(cfg.Business),
		logger:   logger,
		stdout:   os.Stdout,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Ingest reads and ingests one file.
//
// RETURNS:
//   - The ingestion result.
//   - An error if the file cannot be read, or an *ingest.Error on a
//     batch-level ingestion failure.
func (c *Converter) Ingest(path string) (*ingest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger := c.logger.With().Str("file", filepath.Base(path)).Logger()
	logger.Debug().Int("bytes", len(data)).Msg("ingesting file")

	return c.pipeline.Run(data)
}

// Validate ingests one file and runs the record validation.
func (c *Converter) Validate(path string) (*validation.ValidationResult, error) {
	ingested, err := c.Ingest(path)
	if err != nil {
		return nil, err
	}
	return validation.NewValidator().ValidateAll(ingested.Bookings), nil
}

// Report runs a report job for one file.
//
// PROCESSING STEPS:
//  1. Ingest the file
//  2. Resolve the filter request
//  3. Build the report
//  4. Write it
func (c *Converter) Report(path string, job ReportJob) Result {
	startTime := time.Now()
	result := Result{FilePath: path}

	// =========================================================================
	// STEP 1: INGEST
	// =========================================================================

	ingested, err := c.Ingest(path)
	if err != nil {
		result.Error = err
		return result
	}
	result.Ingest = ingested
	result.Stats.Findings = validation.NewValidator().ValidateAll(ingested.Bookings).WarningCount

	// =========================================================================
	// STEP 2-3: SELECT AND BUILD
	// =========================================================================

	request, err := c.resolve(ingested.Bookings, job.Selection)
	if err != nil {
		result.Error = err
		return result
	}

	r, err := report.Build(ingested.Bookings, request, c.params, report.Options{
		Granularity: job.Granularity,
		Source:      job.Source,
	}, c.logger)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.Selected = r.Meta.Period.Bookings

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	output, err := c.write(job.Output, "report", path, job.Format, func(w io.Writer) error {
		if job.Format == report.FormatXLSX {
			return xlsxreport.Write(w, r)
		}
		return report.Write(w, r, job.Format)
	})
	if err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = output
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info().
		Str("file", filepath.Base(path)).
		Str("output", output).
		Int("selected", result.Stats.Selected).
		Dur("duration", result.Stats.ProcessingTime).
		Msg("report written")

	return result
}

// Export runs a record export job for one file.
func (c *Converter) Export(path string, job ExportJob) Result {
	startTime := time.Now()
	result := Result{FilePath: path}

	ingested, err := c.Ingest(path)
	if err != nil {
		result.Error = err
		return result
	}
	result.Ingest = ingested

	request, err := c.resolve(ingested.Bookings, job.Selection)
	if err != nil {
		result.Error = err
		return result
	}
	if err := request.Validate(); err != nil {
		result.Error = err
		return result
	}
	selected := filter.Apply(ingested.Bookings, request.Primary, c.logger)
	result.Stats.Selected = len(selected)

	output, err := c.write(job.Output, "export", path, job.Format, func(w io.Writer) error {
		return report.WriteBookings(w, selected, job.Format)
	})
	if err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = output
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info().
		Str("file", filepath.Base(path)).
		Str("output", output).
		Int("records", len(selected)).
		Msg("records exported")

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolve returns the job's request, or the full data range when it has none.
func (c *Converter) resolve(bookings []booking.Booking, selection Selection) (filter.Request, error) {
	if selection.Request != nil {
		return *selection.Request, nil
	}
	filterType := selection.FilterType
	if filterType == "" {
		filterType = booking.FilterByArrival
	}
	return report.DefaultRequest(bookings, filterType, selection.Search)
}

// write opens the destination and hands it to render.
//
// RETURNS:
//   - The destination that was written.
//   - An error if the destination cannot be created or render fails. A
//     partially written file is removed.
func (c *Converter) write(output, kind, inputPath string, format report.Format, render func(io.Writer) error) (string, error) {
	if output == StdoutPath {
		return StdoutPath, render(c.stdout)
	}

	if output == "" {
		if err := c.files.EnsureDirectories(); err != nil {
			return "", err
		}
		original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		output = c.files.OutputPath(kind, format.Extension(), map[string]string{"original": original})
	}

	file, err := os.Create(output)
	if err != nil {
		return "", fmt.Errorf("failed to create output: %w", err)
	}

	if err := render(file); err != nil {
		file.Close()
		os.Remove(output)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output: %w", err)
	}
	return output, nil
}
