// =============================================================================
// Booking Analytics - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes the canonical records
// of one export that fall into the requested window.
//
// COMMAND USAGE:
//   bookings export FILE [flags]
//
// EXAMPLES:
//   bookings export buchungen.csv --format xml --year 2024
//   bookings export buchungen.xlsx --search möwe -o -
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/booking-analytics/internal/converter"
	"github.com/ginjaninja78/booking-analytics/internal/report"
)

var (
	exportSelection selectionFlags
	exportFormat    string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the selected canonical records",
	Long: `The export command ingests one export file and writes the records of the
selected window in canonical form, as CSV, JSON, YAML or XML.

Without --year or --start/--end every record with a valid date is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportSelection.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: csv, json, yaml or xml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, - for standard output")
}

func runExport(cmd *cobra.Command, path string) error {
	format, err := report.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX {
		return fmt.Errorf("xlsx is a report format, use the report command")
	}
	selection, err := exportSelection.selection()
	if err != nil {
		return err
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	result := converter.New(cfg, logger).Export(path, converter.ExportJob{
		Selection: selection,
		Format:    format,
		Output:    exportOutput,
	})
	if result.Error != nil {
		if result.Ingest == nil {
			message, _ := describeIngestError(result.Error)
			return fmt.Errorf("%s", message)
		}
		return result.Error
	}

	if result.OutputFile != converter.StdoutPath {
		fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", result.Stats.Selected, result.OutputFile)
	}
	return nil
}
