// =============================================================================
// Booking Analytics - Filter Engine
// =============================================================================
//
// This package selects subsets of the canonical booking collection for the
// aggregations. Selection is driven by:
//   - the filter type  : which date field counts (arrival or booking date)
//   - the filter mode  : an inclusive day interval, or a calendar year
//   - the search term  : optional case-insensitive accommodation substring
//
// A record whose selected date does not parse is excluded from every result
// and reported as a warning. Results keep the original relative order.
//
// Comparison mode runs a second, independent selection with the same rules.
// A Selection without comparison carries a nil Comparison, which is not the
// same thing as an empty comparison result.
//
// =============================================================================

package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// =============================================================================
// CRITERIA
// =============================================================================

// Mode selects how the date window is defined.
type Mode int

const (
	// Interval keeps dates within [Start, End], both days inclusive.
	Interval Mode = iota

	// Year keeps dates within one calendar year.
	Year
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Year {
		return "year"
	}
	return "interval"
}

// Criteria describes one selection.
type Criteria struct {
	// Type is the date field that drives the selection.
	Type booking.FilterType

	// Mode is Interval or Year.
	Mode Mode

	// Start and End bound an Interval selection. Only the calendar day
	// matters; times of day are ignored.
	Start time.Time
	End   time.Time

	// Year is the calendar year of a Year selection.
	Year int

	// Search is an optional accommodation substring, case-insensitive.
	Search string
}

// IntervalCriteria builds an interval selection.
func IntervalCriteria(filterType booking.FilterType, start, end time.Time, search string) Criteria {
	return Criteria{Type: filterType, Mode: Interval, Start: start, End: end, Search: search}
}

// YearCriteria builds a calendar-year selection.
func YearCriteria(filterType booking.FilterType, year int, search string) Criteria {
	return Criteria{Type: filterType, Mode: Year, Year: year, Search: search}
}

// Validate checks that the criteria describe a usable window.
func (c Criteria) Validate() error {
	if c.Type != booking.FilterByArrival && c.Type != booking.FilterByBooking {
		return fmt.Errorf("unknown filter type %q", c.Type)
	}
	switch c.Mode {
	case Interval:
		if c.Start.IsZero() || c.End.IsZero() {
			return fmt.Errorf("interval needs both start and end")
		}
		if dayOf(c.End).Before(dayOf(c.Start)) {
			return fmt.Errorf("interval end %s is before start %s", c.End.Format(time.DateOnly), c.Start.Format(time.DateOnly))
		}
	case Year:
		if c.Year <= 0 {
			return fmt.Errorf("year must be positive, got %d", c.Year)
		}
	default:
		return fmt.Errorf("unknown filter mode %d", c.Mode)
	}
	return nil
}

// Window returns the first and last day covered by the criteria.
func (c Criteria) Window() Window {
	if c.Mode == Year {
		return Window{
			Start: time.Date(c.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(c.Year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}
	return Window{Start: dayOf(c.Start), End: dayOf(c.End)}
}

// Contains reports whether a date is inside the criteria's window.
func (c Criteria) Contains(date time.Time) bool {
	if c.Mode == Year {
		return date.Year() == c.Year
	}
	return c.Window().Contains(date)
}

// =============================================================================
// WINDOW
// =============================================================================

// Window is an inclusive range of calendar days, normalized to UTC midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days in the window, End - Start + 1.
func (w Window) Days() int {
	return booking.DaysBetween(w.Start, w.End) + 1
}

// Contains reports whether the day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	day := dayOf(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// =============================================================================
// SELECTION
// =============================================================================

// Apply returns the records matching the criteria, in original order. Records
// whose selected date does not parse are excluded and logged as a warning.
func Apply(bookings []booking.Booking, criteria Criteria, logger zerolog.Logger) []booking.Booking {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	selected := make([]booking.Booking, 0)
	invalid := 0

	for _, b := range bookings {
		date, ok := b.DateFor(criteria.Type)
		if !ok {
			invalid++
			logger.Debug().
				Str("booking_code", b.BookingCode).
				Str("value", b.RawDateFor(criteria.Type)).
				Msg("invalid date")
			continue
		}

		if !criteria.Contains(date) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(b.Accommodation), search) {
			continue
		}

		selected = append(selected, b)
	}

	if invalid > 0 {
		logger.Warn().
			Int("records", invalid).
			Str("filter_type", string(criteria.Type)).
			Msg("records with invalid date excluded")
	}

	return selected
}

// Request is a primary selection plus an optional comparison selection.
type Request struct {
	Primary Criteria

	// Comparison is nil when comparison mode is off.
	Comparison *Criteria
}

// YearOverYear compares two calendar years under the same filter type and
// search term.
func YearOverYear(filterType booking.FilterType, year, compareYear int, search string) Request {
	comparison := YearCriteria(filterType, compareYear, search)
	return Request{
		Primary:    YearCriteria(filterType, year, search),
		Comparison: &comparison,
	}
}

// RangeOverRange compares two explicit intervals.
func RangeOverRange(filterType booking.FilterType, start, end, compareStart, compareEnd time.Time, search string) Request {
	comparison := IntervalCriteria(filterType, compareStart, compareEnd, search)
	return Request{
		Primary:    IntervalCriteria(filterType, start, end, search),
		Comparison: &comparison,
	}
}

// Validate validates both sides of the request.
func (r Request) Validate() error {
	if err := r.Primary.Validate(); err != nil {
		return fmt.Errorf("primary selection: %w", err)
	}
	if r.Comparison != nil {
		if err := r.Comparison.Validate(); err != nil {
			return fmt.Errorf("comparison selection: %w", err)
		}
	}
	return nil
}

// Selection holds the filtered subsets.
type Selection struct {
	Primary []booking.Booking

	// Comparison is nil when comparison mode is off. A non-nil pointer to
	// an empty slice means the comparison period simply has no bookings.
	Comparison *[]booking.Booking
}

// HasComparison reports whether comparison mode was active.
func (s Selection) HasComparison() bool {
	return s.Comparison != nil
}

// ComparisonBookings returns the comparison subset, or nil when comparison
// mode is off.
func (s Selection) ComparisonBookings() []booking.Booking {
	if s.Comparison == nil {
		return nil
	}
	return *s.Comparison
}

// Select computes the primary and, if requested, the comparison subset.
func Select(bookings []booking.Booking, request Request, logger zerolog.Logger) Selection {
	selection := Selection{
		Primary: Apply(bookings, request.Primary, logger),
	}
	if request.Comparison != nil {
		comparison := Apply(bookings, *request.Comparison, logger)
		selection.Comparison = &comparison
	}
	return selection
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// DataRange returns the earliest and latest valid date of the selected field.
func DataRange(bookings []booking.Booking, filterType booking.FilterType) (Window, bool) {
	var window Window
	found := false

	for _, b := range bookings {
		date, ok := b.DateFor(filterType)
		if !ok {
			continue
		}
		if !found || date.Before(window.Start) {
			window.Start = date
		}
		if !found || date.After(window.End) {
			window.End = date
		}
		found = true
	}

	return window, found
}

// dayOf truncates t to its calendar day, in UTC.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
