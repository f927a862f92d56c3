// =============================================================================
// Booking Analytics - Canonical Booking Record
// =============================================================================
//
// This package contains the canonical record shared by every stage after
// ingestion. It lives in its own package to avoid import cycles. Types defined
// here are used by:
//   - mapper     (produces records)
//   - filter     (selects records)
//   - analytics  (aggregates records)
//   - report     (exports records)
//
// =============================================================================

package booking

import (
	"strings"
	"time"

	"github.com/ginjaninja78/booking-analytics/internal/normalize"
)

// =============================================================================
// BOOKING RECORD
// =============================================================================

// Booking is one normalized reservation. Every record is self-contained; no
// field refers to another record.
type Booking struct {
	// BookingCode is the reservation identifier. It may be empty.
	BookingCode string `json:"bookingCode" yaml:"booking_code"`

	// ArrivalDate, DepartureDate and BookingDate are YYYY-MM-DD, or "" when
	// the source cell was missing or malformed.
	ArrivalDate   string `json:"arrivalDate" yaml:"arrival_date"`
	DepartureDate string `json:"departureDate" yaml:"departure_date"`
	BookingDate   string `json:"bookingDate" yaml:"booking_date"`

	// BookingTime is the wall-clock time of the booking, usually H:MM:SS.
	BookingTime string `json:"bookingTime" yaml:"booking_time"`

	// Accommodation is the property; ApartmentType the unit inside it.
	Accommodation string `json:"accommodation" yaml:"accommodation"`
	ApartmentType string `json:"apartmentType" yaml:"apartment_type"`

	// Revenue and Commission are EUR amounts. Negative revenue marks a
	// cancellation.
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	Commission        float64 `json:"commission" yaml:"commission"`
	CommissionPercent float64 `json:"commissionPercent" yaml:"commission_percent"`

	// Nights is the length of stay.
	Nights int `json:"nights" yaml:"nights"`

	CustomerZip  string `json:"customerZip" yaml:"customer_zip"`
	CustomerCity string `json:"customerCity" yaml:"customer_city"`

	Adults   int `json:"adults" yaml:"adults"`
	Children int `json:"children" yaml:"children"`
	Pets     int `json:"pets" yaml:"pets"`

	// BookingSource is the sales channel. Blank means "unspecified source",
	// which is a category of its own, not missing data.
	BookingSource string `json:"bookingSource" yaml:"booking_source"`

	IsCancelled bool `json:"isCancelled" yaml:"is_cancelled"`

	// PhoneBooking names the staff member who took a phone booking, or "".
	PhoneBooking string `json:"phoneBooking" yaml:"phone_booking"`
}

// =============================================================================
// FILTER TYPE
// =============================================================================

// FilterType selects which date field drives time-window selection.
type FilterType string

const (
	// FilterByArrival filters on the arrival date.
	FilterByArrival FilterType = "arrival"

	// FilterByBooking filters on the booking date.
	FilterByBooking FilterType = "booking"
)

// ParseFilterType maps a user-supplied selector onto a FilterType.
func ParseFilterType(value string) (FilterType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "arrival", "anreise":
		return FilterByArrival, true
	case "booking", "buchung":
		return FilterByBooking, true
	default:
		return "", false
	}
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// Arrival returns the parsed arrival date.
func (b Booking) Arrival() (time.Time, bool) {
	return normalize.ParseDate(b.ArrivalDate)
}

// Departure returns the parsed departure date.
func (b Booking) Departure() (time.Time, bool) {
	return normalize.ParseDate(b.DepartureDate)
}

// BookedOn returns the parsed booking date.
func (b Booking) BookedOn() (time.Time, bool) {
	return normalize.ParseDate(b.BookingDate)
}

// DateFor returns the date selected by the filter type.
func (b Booking) DateFor(filterType FilterType) (time.Time, bool) {
	if filterType == FilterByArrival {
		return b.Arrival()
	}
	return b.BookedOn()
}

// RawDateFor returns the unparsed date string selected by the filter type.
func (b Booking) RawDateFor(filterType FilterType) string {
	if filterType == FilterByArrival {
		return b.ArrivalDate
	}
	return b.BookingDate
}

// StayNights is departure minus arrival in days, floored at 0. It ignores the
// stored Nights field so that it always agrees with the dates.
func (b Booking) StayNights() int {
	arrival, okArrival := b.Arrival()
	departure, okDeparture := b.Departure()
	if !okArrival || !okDeparture {
		return 0
	}
	return DaysBetween(arrival, departure)
}

// HasStayDates reports whether both arrival and departure parse.
func (b Booking) HasStayDates() bool {
	_, okArrival := b.Arrival()
	_, okDeparture := b.Departure()
	return okArrival && okDeparture
}

// SourceKey is the booking source with blank values folded into label.
func (b Booking) SourceKey(unspecifiedLabel string) string {
	source := strings.TrimSpace(b.BookingSource)
	if source == "" {
		return unspecifiedLabel
	}
	return source
}

// Guests is adults plus children.
func (b Booking) Guests() int {
	return b.Adults + b.Children
}

// DaysBetween counts whole calendar days from start to end, floored at 0.
func DaysBetween(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(endDay.Sub(startDay).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
