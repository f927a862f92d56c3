// =============================================================================
// Booking Analytics - Ingest Command
// =============================================================================
//
// This file defines the 'ingest' command, which runs the ingestion pipeline
// over one or more export files and prints how many rows were imported.
//
// COMMAND USAGE:
//   bookings ingest FILE|DIR... [flags]
//
// FLAGS:
//   --summary   : Write an ingestion summary log to the output directory
//   --error-log : Write skipped rows and failed files to an error log
//   --jobs      : Number of files ingested at the same time
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Expand directories into export files
//   3. Ingest every file concurrently
//   4. Print one line per file, in argument order
//   5. Optionally write the summary and error logs
//
// A failing file never stops the others. The command fails when every file
// failed.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/booking-analytics/internal/converter"
	"github.com/ginjaninja78/booking-analytics/internal/ingest"
	"github.com/ginjaninja78/booking-analytics/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// writeSummary writes an ingestion summary log.
	writeSummary bool

	// writeIngestErrors writes an error log of skipped rows and failed files.
	writeIngestErrors bool

	// ingestJobs bounds the number of concurrently ingested files.
	ingestJobs int
)

// =============================================================================
// INGEST COMMAND DEFINITION
// =============================================================================

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE|DIR...",
	Short: "Ingest booking exports and report the accepted rows",
	Long: `The ingest command decodes and maps every given export file into canonical
booking records, and prints "N of M rows imported" for each file.

Directories are scanned (not recursively) for .csv, .txt and .xlsx files.
Files are ingested concurrently; an error in one file does not affect the
others.

Batch-level failures are reported with the message of the export's language:
  - Fehler beim Lesen der Datei         (the file cannot be decoded)
  - Keine Daten in der CSV-Datei gefunden (no data rows)
  - Keine gültigen Daten gefunden        (no row could be mapped)`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write an ingestion summary log to the output directory")
	ingestCmd.Flags().BoolVar(&writeIngestErrors, "error-log", false, "Write skipped rows and failed files to an error log")
	ingestCmd.Flags().IntVar(&ingestJobs, "jobs", runtime.NumCPU(), "Number of files ingested at the same time")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileOutcome is the ingestion outcome of one file.
type fileOutcome struct {
	path     string
	result   *ingest.Result
	err      error
	duration time.Duration
}

func runIngest(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files, err := utils.DiscoverInputFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No export files found.")
		return nil
	}
	logger.Info().Int("files", len(files)).Msg("ingesting")

	// =========================================================================
	// STEP 2: INGEST FILES CONCURRENTLY
	// =========================================================================
	// Each goroutine writes its own slot, so the output keeps argument order.
	// Per-file failures are recorded, not returned, so one bad file does not
	// cancel the group.

	conv := converter.New(cfg, logger)
	outcomes := make([]fileOutcome, len(files))

	var group errgroup.Group
	if ingestJobs > 0 {
		group.SetLimit(ingestJobs)
	}
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			fileStart := time.Now()
			result, err := conv.Ingest(file)
			outcomes[i] = fileOutcome{path: file, result: result, err: err, duration: time.Since(fileStart)}
			return nil
		})
	}
	group.Wait()

	// =========================================================================
	// STEP 3: PRINT RESULTS
	// =========================================================================

	out := cmd.OutOrStdout()
	summary := utils.ProcessingSummary{StartTime: startTime, TotalFiles: len(files)}
	var errorEntries []utils.ErrorLogEntry

	for _, outcome := range outcomes {
		name := filepath.Base(outcome.path)

		if outcome.err != nil {
			message, errorType := describeIngestError(outcome.err)
			fmt.Fprintf(out, "  ✗ %s: %s\n", name, message)
			logger.Debug().Err(outcome.err).Str("file", name).Msg("ingestion failed")

			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    outcome.path,
				ErrorMessage: message,
				ErrorType:    errorType,
			})
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				ErrorType:    errorType,
				ErrorMessage: outcome.err.Error(),
			})
			continue
		}

		result := outcome.result
		fmt.Fprintf(out, "  ✓ %s: %s\n", name, result.Summary())

		summary.SuccessfulFiles++
		summary.TotalRows += result.Stats.TotalRows
		summary.AcceptedRows += result.Stats.Accepted
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   outcome.path,
			TotalRows:   result.Stats.TotalRows,
			Accepted:    result.Stats.Accepted,
			ProcessTime: outcome.duration,
		})
		for _, skipped := range result.Skipped {
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     name,
				ErrorType:    "skipped_row",
				ErrorMessage: skipped.Reason,
				RowNumber:    skipped.RowNumber,
			})
		}
	}
	summary.EndTime = time.Now()

	fmt.Fprintf(out, "\nFiles: %d, imported: %d, failed: %d, rows: %d of %d imported\n",
		summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles,
		summary.AcceptedRows, summary.TotalRows)

	// =========================================================================
	// STEP 4: WRITE LOGS
	// =========================================================================

	if writeSummary || writeIngestErrors {
		manager := utils.NewFileManager(cfg.Output)
		if err := manager.EnsureDirectories(); err != nil {
			return err
		}
		if writeSummary {
			path, err := utils.WriteSummaryLog(summary, manager.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Summary written to %s\n", path)
		}
		if writeIngestErrors {
			path, err := utils.WriteErrorLog(errorEntries, manager.OutputDir)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(out, "Errors written to %s\n", path)
			}
		}
	}

	if summary.SuccessfulFiles == 0 {
		return fmt.Errorf("no file could be ingested")
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// describeIngestError returns the user-facing message and the log type of
// a failed file.
func describeIngestError(err error) (message, errorType string) {
	var ingestErr *ingest.Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Message, ingestErr.Kind.String()
	}
	return err.Error(), "read_error"
}
