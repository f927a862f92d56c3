// =============================================================================
// Booking Analytics - Distributions
// =============================================================================
//
// Hour of day, postal regions, booking lead and revenue per night by source.
//
// =============================================================================

package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// =============================================================================
// HOUR OF DAY
// =============================================================================

// HourBucket counts bookings made in one hour of the day.
type HourBucket struct {
	Hour     int    `json:"hour" yaml:"hour" xml:"Hour"`
	Label    string `json:"label" yaml:"label" xml:"Label"`
	Bookings int    `json:"bookings" yaml:"bookings" xml:"Bookings"`
}

// HourOfDay buckets bookings by the hour of their booking time. Always 24
// buckets. Times that do not start with an hour 0-23 are not counted.
func HourOfDay(bookings []booking.Booking) []HourBucket {
	buckets := make([]HourBucket, 24)
	for hour := range buckets {
		buckets[hour] = HourBucket{Hour: hour, Label: fmt.Sprintf("%02d:00", hour)}
	}

	for _, b := range bookings {
		hourText, _, _ := strings.Cut(strings.TrimSpace(b.BookingTime), ":")
		hour, err := strconv.Atoi(hourText)
		if err != nil || hour < 0 || hour > 23 {
			continue
		}
		buckets[hour].Bookings++
	}
	return buckets
}

// =============================================================================
// POSTAL REGIONS
// =============================================================================

// postalRegionNames describes the German postal code zones by first digit.
var postalRegionNames = [10]string{
	"Dresden, Erfurt",
	"Berlin, Leipzig",
	"Hamburg, Rostock",
	"Hannover, Braunschweig",
	"Bremen, Osnabrück",
	"Köln, Dortmund",
	"Frankfurt, Kassel",
	"Stuttgart, Mannheim",
	"München, Nürnberg",
	"Nürnberg, Regensburg",
}

// PostalRegion counts bookings by the first digit of the customer postal code.
type PostalRegion struct {
	Region      string `json:"region" yaml:"region" xml:"Region"`
	Description string `json:"description" yaml:"description" xml:"Description"`
	Current     int    `json:"current" yaml:"current" xml:"Current"`

	// Comparison is nil when comparison mode is off.
	Comparison *int `json:"comparison,omitempty" yaml:"comparison,omitempty" xml:"Comparison,omitempty"`
}

// PostalRegions counts bookings per postal zone 0-9. Always 10 entries.
// Bookings without a postal code starting with a digit are not counted.
func PostalRegions(current []booking.Booking, comparison *[]booking.Booking) []PostalRegion {
	currentCounts := postalCounts(current)

	regions := make([]PostalRegion, 10)
	for i := range regions {
		regions[i] = PostalRegion{
			Region:      strconv.Itoa(i),
			Description: postalRegionNames[i],
			Current:     currentCounts[i],
		}
	}

	if comparison != nil {
		previousCounts := postalCounts(*comparison)
		for i := range regions {
			count := previousCounts[i]
			regions[i].Comparison = &count
		}
	}
	return regions
}

func postalCounts(bookings []booking.Booking) [10]int {
	var counts [10]int
	for _, b := range bookings {
		zip := strings.TrimSpace(b.CustomerZip)
		if zip == "" || zip[0] < '0' || zip[0] > '9' {
			continue
		}
		counts[zip[0]-'0']++
	}
	return counts
}

// =============================================================================
// BOOKING LEAD
// =============================================================================

// LeadRow counts, for one booking month, the bookings per arrival month.
type LeadRow struct {
	BookingMonth int    `json:"bookingMonth" yaml:"booking_month" xml:"BookingMonth"`
	Name         string `json:"name" yaml:"name" xml:"Name"`

	// ArrivalMonths[i] counts arrivals in month i+1.
	ArrivalMonths [12]int `json:"arrivalMonths" yaml:"arrival_months" xml:"ArrivalMonths>Count"`
}

// BookingLeadMatrix cross-tabulates booking month against arrival month,
// ignoring years. Always 12 rows. Bookings missing either date are not
// counted.
func BookingLeadMatrix(bookings []booking.Booking) []LeadRow {
	rows := make([]LeadRow, 12)
	for i := range rows {
		rows[i] = LeadRow{BookingMonth: i + 1, Name: monthNames[i]}
	}

	for _, b := range bookings {
		bookedOn, okBooked := b.BookedOn()
		arrival, okArrival := b.Arrival()
		if !okBooked || !okArrival {
			continue
		}
		rows[bookedOn.Month()-1].ArrivalMonths[arrival.Month()-1]++
	}
	return rows
}

// =============================================================================
// REVENUE PER NIGHT BY SOURCE
// =============================================================================

// SourceMonthlyRate is the average revenue per night of one source, by arrival
// month.
type SourceMonthlyRate struct {
	Source string `json:"source" yaml:"source" xml:"Name"`

	// Current[i] is the rate of month i+1; 0 for months without stays.
	Current [12]float64 `json:"current" yaml:"current" xml:"Current>Rate"`

	// Comparison is nil when comparison mode is off.
	Comparison *[12]float64 `json:"comparison,omitempty" yaml:"comparison,omitempty" xml:"Comparison>Rate,omitempty"`
}

// AverageRevenuePerNightBySource computes revenue / nights per source and
// arrival month. Only stays with at least one night count. Sources from
// either period appear, sorted by name.
func AverageRevenuePerNightBySource(current []booking.Booking, comparison *[]booking.Booking, params Params) []SourceMonthlyRate {
	currentRates := monthlyRates(current, params.UnspecifiedLabel)

	var previousRates map[string][12]float64
	if comparison != nil {
		previousRates = monthlyRates(*comparison, params.UnspecifiedLabel)
	}

	sources := make([]string, 0, len(currentRates)+len(previousRates))
	for source := range currentRates {
		sources = append(sources, source)
	}
	for source := range previousRates {
		if _, ok := currentRates[source]; !ok {
			sources = append(sources, source)
		}
	}
	sort.Strings(sources)

	result := make([]SourceMonthlyRate, 0, len(sources))
	for _, source := range sources {
		rate := SourceMonthlyRate{Source: source, Current: currentRates[source]}
		if comparison != nil {
			previous := previousRates[source]
			rate.Comparison = &previous
		}
		result = append(result, rate)
	}
	return result
}

func monthlyRates(bookings []booking.Booking, unspecifiedLabel string) map[string][12]float64 {
	type accumulator struct {
		revenue [12]money
		nights  [12]int
	}

	accumulators := make(map[string]*accumulator)
	for _, b := range bookings {
		nights := b.StayNights()
		if nights <= 0 {
			continue
		}
		arrival, _ := b.Arrival()
		source := b.SourceKey(unspecifiedLabel)

		acc, ok := accumulators[source]
		if !ok {
			acc = &accumulator{}
			accumulators[source] = acc
		}
		month := arrival.Month() - 1
		acc.revenue[month].add(b.Revenue)
		acc.nights[month] += nights
	}

	rates := make(map[string][12]float64, len(accumulators))
	for source, acc := range accumulators {
		var monthly [12]float64
		for i := range monthly {
			monthly[i] = ratio(acc.revenue[i].value(), float64(acc.nights[i]))
		}
		rates[source] = monthly
	}
	return rates
}
