// =============================================================================
// Booking Analytics - Report Command
// =============================================================================
//
// This file defines the 'report' command, which ingests one export, selects
// the requested window and writes every KPI block as one report.
//
// COMMAND USAGE:
//   bookings report FILE [flags]
//
// EXAMPLES:
//   bookings report buchungen.csv --year 2024 --compare-year 2023
//   bookings report buchungen.csv --start 2024-06-01 --end 2024-08-31 --format xlsx
//   bookings report buchungen.csv --filter-type booking --granularity monthly -o -
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/booking-analytics/internal/analytics"
	"github.com/ginjaninja78/booking-analytics/internal/converter"
	"github.com/ginjaninja78/booking-analytics/internal/report"
)

var (
	reportSelection   selectionFlags
	reportFormat      string
	reportGranularity string
	reportSource      string
	reportOutput      string
)

var reportCmd = &cobra.Command{
	Use:   "report FILE",
	Short: "Compute KPIs for a period and write a report",
	Long: `The report command computes the KPIs, the accommodation rollup, the channel
distribution, the time series and the seasonal breakdowns for one window of
one export, optionally against a comparison window.

Without --year or --start/--end the window is the full date range of the
data. The report is written to the output directory unless --output is
given; "--output -" writes to standard output (not for xlsx).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportSelection.register(reportCmd)
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "json", "Report format: json, yaml, xml or xlsx")
	reportCmd.Flags().StringVar(&reportGranularity, "granularity", "daily", "Time series granularity: daily or monthly")
	reportCmd.Flags().StringVar(&reportSource, "source", "", "Only accommodations with bookings from this source")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file, - for standard output")
}

func runReport(cmd *cobra.Command, path string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	if format == report.FormatCSV {
		return fmt.Errorf("csv is a record export format, use the export command")
	}
	if format == report.FormatXLSX && reportOutput == converter.StdoutPath {
		return fmt.Errorf("xlsx reports cannot be written to standard output")
	}
	granularity, err := analytics.ParseGranularity(reportGranularity)
	if err != nil {
		return err
	}
	selection, err := reportSelection.selection()
	if err != nil {
		return err
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	result := converter.New(cfg, logger).Report(path, converter.ReportJob{
		Selection:   selection,
		Format:      format,
		Granularity: granularity,
		Source:      reportSource,
		Output:      reportOutput,
	})
	if result.Error != nil {
		if result.Ingest == nil {
			message, _ := describeIngestError(result.Error)
			return fmt.Errorf("%s", message)
		}
		return result.Error
	}

	if result.OutputFile != converter.StdoutPath {
		fmt.Fprintf(cmd.OutOrStdout(), "%s, %d bookings selected\nReport written to %s\n",
			result.Ingest.Summary(), result.Stats.Selected, result.OutputFile)
	}
	return nil
}
