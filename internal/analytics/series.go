// =============================================================================
// Booking Analytics - Time Series
// =============================================================================
//
// Sparse daily and monthly series plus the twelve-bucket month-of-year view.
// Buckets with no bookings are left out of the sparse series.
//
// =============================================================================

package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// Granularity is the bucket size of a sparse time series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// ParseGranularity maps a user-supplied value onto a Granularity.
func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(value))) {
	case Daily, "day", "":
		return Daily, nil
	case Monthly, "month":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", value)
	}
}

// monthNames are the German month names used as labels.
var monthNames = [12]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthName returns the label of a month, 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// =============================================================================
// SPARSE SERIES
// =============================================================================

// SeriesPoint is one bucket of a sparse series.
type SeriesPoint struct {
	// Period is YYYY-MM-DD for daily and YYYY-MM for monthly buckets.
	Period     string  `json:"period" yaml:"period" xml:"Period"`
	Bookings   int     `json:"bookings" yaml:"bookings" xml:"Bookings"`
	Revenue    float64 `json:"revenue" yaml:"revenue" xml:"Revenue"`
	Commission float64 `json:"commission" yaml:"commission" xml:"Commission"`
}

// TimeSeries buckets bookings by the selected date field. Only buckets that
// hold at least one booking are returned, in ascending order.
func TimeSeries(bookings []booking.Booking, filterType booking.FilterType, granularity Granularity) []SeriesPoint {
	layout := time.DateOnly
	if granularity == Monthly {
		layout = "2006-01"
	}

	type accumulator struct {
		bookings            int
		revenue, commission money
	}

	buckets := make(map[string]*accumulator)
	for _, b := range bookings {
		date, ok := b.DateFor(filterType)
		if !ok {
			continue
		}
		key := date.Format(layout)
		acc, ok := buckets[key]
		if !ok {
			acc = &accumulator{}
			buckets[key] = acc
		}
		acc.bookings++
		acc.revenue.add(b.Revenue)
		acc.commission.add(b.Commission)
	}

	points := make([]SeriesPoint, 0, len(buckets))
	for period, acc := range buckets {
		points = append(points, SeriesPoint{
			Period:     period,
			Bookings:   acc.bookings,
			Revenue:    acc.revenue.value(),
			Commission: acc.commission.value(),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

// DailySeries is TimeSeries with daily buckets.
func DailySeries(bookings []booking.Booking, filterType booking.FilterType) []SeriesPoint {
	return TimeSeries(bookings, filterType, Daily)
}

// MonthlySeries is TimeSeries with monthly buckets.
func MonthlySeries(bookings []booking.Booking, filterType booking.FilterType) []SeriesPoint {
	return TimeSeries(bookings, filterType, Monthly)
}

// =============================================================================
// MONTH OF YEAR
// =============================================================================

// MonthFigures are the totals of one calendar month.
type MonthFigures struct {
	Bookings      int     `json:"bookings" yaml:"bookings" xml:"Bookings"`
	Revenue       float64 `json:"revenue" yaml:"revenue" xml:"Revenue"`
	Commission    float64 `json:"commission" yaml:"commission" xml:"Commission"`
	Nights        int     `json:"nights" yaml:"nights" xml:"Nights"`
	Cancellations int     `json:"cancellations" yaml:"cancellations" xml:"Cancellations"`
}

// MonthBucket is one month of a month-of-year series.
type MonthBucket struct {
	Month int    `json:"month" yaml:"month" xml:"Number"`
	Name  string `json:"name" yaml:"name" xml:"Name"`

	MonthFigures `yaml:",inline"`
}

// MonthOfYear buckets bookings by calendar month of the selected date field,
// ignoring the year. Always 12 buckets, January first, zero-filled.
func MonthOfYear(bookings []booking.Booking, filterType booking.FilterType) []MonthBucket {
	var revenue, commission [12]money
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
		buckets[i].Name = monthNames[i]
	}

	for _, b := range bookings {
		date, ok := b.DateFor(filterType)
		if !ok {
			continue
		}
		i := int(date.Month()) - 1
		buckets[i].Bookings++
		buckets[i].Nights += b.StayNights()
		if b.IsCancelled {
			buckets[i].Cancellations++
		}
		revenue[i].add(b.Revenue)
		commission[i].add(b.Commission)
	}

	for i := range buckets {
		buckets[i].Revenue = revenue[i].value()
		buckets[i].Commission = commission[i].value()
	}
	return buckets
}

// MonthComparison pairs one month of the current and comparison periods.
type MonthComparison struct {
	Month   int          `json:"month" yaml:"month" xml:"Number"`
	Name    string       `json:"name" yaml:"name" xml:"Name"`
	Current MonthFigures `json:"current" yaml:"current" xml:"Current"`

	// Comparison and Delta are nil when comparison mode is off.
	Comparison *MonthFigures `json:"comparison,omitempty" yaml:"comparison,omitempty" xml:"Comparison,omitempty"`
	Delta      *MonthFigures `json:"delta,omitempty" yaml:"delta,omitempty" xml:"Delta,omitempty"`
}

// CompareMonthOfYear computes the month-of-year series of both periods.
// Always 12 entries.
func CompareMonthOfYear(current []booking.Booking, comparison *[]booking.Booking, filterType booking.FilterType) []MonthComparison {
	currentBuckets := MonthOfYear(current, filterType)

	var previousBuckets []MonthBucket
	if comparison != nil {
		previousBuckets = MonthOfYear(*comparison, filterType)
	}

	months := make([]MonthComparison, 12)
	for i := range months {
		months[i] = MonthComparison{
			Month:   i + 1,
			Name:    monthNames[i],
			Current: currentBuckets[i].MonthFigures,
		}
		if previousBuckets == nil {
			continue
		}

		previous := previousBuckets[i].MonthFigures
		delta := MonthFigures{
			Bookings:      months[i].Current.Bookings - previous.Bookings,
			Revenue:       months[i].Current.Revenue - previous.Revenue,
			Commission:    months[i].Current.Commission - previous.Commission,
			Nights:        months[i].Current.Nights - previous.Nights,
			Cancellations: months[i].Current.Cancellations - previous.Cancellations,
		}
		months[i].Comparison = &previous
		months[i].Delta = &delta
	}
	return months
}
