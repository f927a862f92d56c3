// =============================================================================
// Booking Analytics - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Booking Analytics CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   bookings ingest FILE|DIR...  - Ingest exports and report accepted rows
//   bookings report FILE         - Compute KPIs and write a report
//   bookings export FILE         - Write the selected records
//   bookings validate FILE       - Check ingested records for anomalies
//   bookings version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Ingestion, filtering, aggregation and report writers
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/booking-analytics/cmd"
)

func main() {
	cmd.Execute()
}
