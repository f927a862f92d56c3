// =============================================================================
// Booking Analytics - Record Validation
// =============================================================================
//
// This module inspects canonical booking records after ingestion and reports
// data quality problems. It never drops or modifies a record: admission is
// decided by the Row Mapper, and the aggregations already tolerate every
// problem listed here. Validation only tells the user what was coerced.
//
// RULES (all warnings):
//   - arrival_date     : missing or malformed
//   - departure_date   : missing or malformed
//   - stay_order       : departure before arrival
//   - booking_date     : missing or malformed
//   - booking_time     : not H:MM or H:MM:SS
//   - commission_range : commission percent outside 0-100
//   - accommodation    : empty
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

var bookingTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the canonical field that failed validation.
	Field string

	// Value is the value that failed validation.
	Value string

	// Rule is the rule that was violated.
	Rule string

	// Message is a human-readable message.
	Message string

	// BookingCode identifies the record, when it has one.
	BookingCode string

	// RowNumber is the 1-based position of the record in the collection.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Record %d (%s), Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.BookingCode,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records inspected.
	RecordsValidated int

	// RuleCounts counts findings per rule.
	RuleCounts map[string]int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks canonical records.
type Validator struct {
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	// Default: false
	TreatWarningsAsErrors bool
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate validates all records and returns the findings.
func Validate(bookings []booking.Booking) []*ValidationError {
	return NewValidator().ValidateAll(bookings).Errors
}

// ValidateAll validates all records and returns a detailed result.
func (v *Validator) ValidateAll(bookings []booking.Booking) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(bookings),
		RuleCounts:       make(map[string]int),
	}

	for i := range bookings {
		for _, err := range v.ValidateRecord(&bookings[i], i+1) {
			result.Errors = append(result.Errors, err)
			result.RuleCounts[err.Rule]++

			if err.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
				continue
			}

			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		}
	}

	return result
}

// ValidateRecord runs every rule against one record.
func (v *Validator) ValidateRecord(b *booking.Booking, rowNumber int) []*ValidationError {
	var errors []*ValidationError

	warn := func(field, value, rule, message string) {
		errors = append(errors, &ValidationError{
			Severity:    SeverityWarning,
			Field:       field,
			Value:       value,
			Rule:        rule,
			Message:     message,
			BookingCode: b.BookingCode,
			RowNumber:   rowNumber,
		})
	}

	arrival, okArrival := b.Arrival()
	departure, okDeparture := b.Departure()

	if !okArrival {
		warn("arrival_date", b.ArrivalDate, "arrival_date", "arrival date missing or malformed")
	}
	if !okDeparture {
		warn("departure_date", b.DepartureDate, "departure_date", "departure date missing or malformed")
	}
	if okArrival && okDeparture && departure.Before(arrival) {
		warn("departure_date", b.DepartureDate, "stay_order", "departure is before arrival "+arrival.Format(time.DateOnly))
	}
	if _, ok := b.BookedOn(); !ok {
		warn("booking_date", b.BookingDate, "booking_date", "booking date missing or malformed")
	}
	if b.BookingTime != "" && !bookingTimePattern.MatchString(b.BookingTime) {
		warn("booking_time", b.BookingTime, "booking_time", "booking time is not H:MM:SS")
	}
	if b.CommissionPercent < 0 || b.CommissionPercent > 100 {
		warn("commission_percent", fmt.Sprintf("%.2f", b.CommissionPercent), "commission_range", "commission percent outside 0-100")
	}
	if strings.TrimSpace(b.Accommodation) == "" {
		warn("accommodation", b.Accommodation, "accommodation", "accommodation is empty")
	}

	return errors
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation errors to a log file.
//
// PARAMETERS:
//   - errors: The validation errors to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Validation log generated %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
