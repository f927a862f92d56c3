// =============================================================================
// Booking Analytics - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which ingests one export and
// checks the canonical records for data quality problems, for example a
// missing arrival date or a departure before the arrival. Findings never
// change the records; they are listed so the export can be corrected at the
// source.
//
// COMMAND USAGE:
//   bookings validate FILE [--log PATH]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/booking-analytics/internal/converter"
	"github.com/ginjaninja78/booking-analytics/internal/validation"
)

// validationLog is the path of an optional findings log.
var validationLog string

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check the ingested records for anomalies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validationLog, "log", "", "Write the findings to this file")
}

func runValidate(cmd *cobra.Command, path string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	result, err := converter.New(cfg, logger).Validate(path)
	if err != nil {
		message, _ := describeIngestError(err)
		return fmt.Errorf("%s", message)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d records validated, %d error(s), %d warning(s)\n",
		result.RecordsValidated, result.ErrorCount, result.WarningCount)
	fmt.Fprint(out, validation.FormatErrors(result.Errors))

	if validationLog != "" && len(result.Errors) > 0 {
		if err := validation.WriteErrorLog(result.Errors, validationLog); err != nil {
			return err
		}
		fmt.Fprintf(out, "Findings written to %s\n", validationLog)
	}

	if !result.IsValid {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
	}
	return nil
}
