// =============================================================================
// Booking Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (bookings)
//   ├── ingestCmd   (bookings ingest)
//   ├── reportCmd   (bookings report)
//   ├── exportCmd   (bookings export)
//   ├── validateCmd (bookings validate)
//   └── versionCmd  (bookings version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration (YAML file, .env file, BOOKINGS_* variables)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/booking-analytics/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Booking Analytics - KPIs and reports from vacation rental booking exports",
	Long: `Booking Analytics reads the booking export of a property management system
(semicolon separated, UTF-16, German column names) and turns it into business
figures: revenue, commission, occupancy, cancellations, channel mix and
seasonality, optionally compared against a second period.

Key Features:
  - Tolerant ingestion of CSV and XLSX exports
  - Arrival or booking date windows, by interval or calendar year
  - Year over year and range over range comparison
  - Reports as JSON, YAML, XML or XLSX workbooks

Example Usage:
  bookings ingest ./exports                          # Check which rows import
  bookings report buchungen.csv --year 2024 --compare-year 2023
  bookings export buchungen.csv --format xml --search möwe`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (a missing file means defaults)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads the configuration and builds the logger for a command.
func setup() (*config.MainConfig, zerolog.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load main config: %w", err)
	}

	logger, err := newLogger(cfg.Logging, verbose, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger.Debug().Str("config", cfgFile).Msg("configuration loaded")

	return cfg, logger, nil
}

// newLogger builds a zerolog logger from the logging settings. Console
// output is human readable; json output is one object per line.
func newLogger(settings config.LoggingSettings, verbose bool, out io.Writer) (zerolog.Logger, error) {
	levelName := strings.ToLower(settings.Level)
	if levelName == "warning" {
		levelName = "warn"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	if strings.EqualFold(settings.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
