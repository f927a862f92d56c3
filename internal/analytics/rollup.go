// =============================================================================
// Booking Analytics - Accommodation Rollup
// =============================================================================
//
// Per-accommodation totals with nested per-apartment rows. Nights are clipped
// to the window, so a stay that crosses the window edge counts only the nights
// inside it.
//
// =============================================================================

package analytics

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
)

// =============================================================================
// ROLLUP TYPES
// =============================================================================

// RollupFigures are the totals shared by accommodation and apartment rows.
type RollupFigures struct {
	TotalRevenue    float64 `json:"totalRevenue" yaml:"total_revenue" xml:"TotalRevenue"`
	TotalCommission float64 `json:"totalCommission" yaml:"total_commission" xml:"TotalCommission"`
	BookingCount    int     `json:"bookingCount" yaml:"booking_count" xml:"BookingCount"`
	CancelledCount  int     `json:"cancelledCount" yaml:"cancelled_count" xml:"CancelledCount"`

	// Nights counts only the nights inside the window; see Rollup.
	Nights int `json:"nights" yaml:"nights" xml:"Nights"`

	// OccupancyRate is a percentage, unrounded.
	OccupancyRate float64 `json:"occupancyRate" yaml:"occupancy_rate" xml:"OccupancyRate"`

	// Sources counts bookings per source, sorted by count then name.
	Sources []SourceCount `json:"sources" yaml:"sources" xml:"Sources>Source"`

	// Difference is current - comparison. It is nil unless comparison mode
	// is on and the comparison period has the same entity.
	Difference *RollupDelta `json:"difference,omitempty" yaml:"difference,omitempty" xml:"Difference,omitempty"`
}

// SourceCount is the booking count of one source.
type SourceCount struct {
	Source string `json:"source" yaml:"source" xml:"Name"`
	Count  int    `json:"count" yaml:"count" xml:"Count"`
}

// RollupDelta is current - comparison for one entity.
type RollupDelta struct {
	Revenue    float64 `json:"revenue" yaml:"revenue" xml:"Revenue"`
	Commission float64 `json:"commission" yaml:"commission" xml:"Commission"`
	Bookings   int     `json:"bookings" yaml:"bookings" xml:"Bookings"`
	Nights     int     `json:"nights" yaml:"nights" xml:"Nights"`
}

// ApartmentRollup is the rollup of one apartment type in an accommodation.
type ApartmentRollup struct {
	ApartmentType string `json:"apartmentType" yaml:"apartment_type" xml:"ApartmentType"`
	RollupFigures `yaml:",inline"`
}

// AccommodationRollup is the rollup of one accommodation.
type AccommodationRollup struct {
	Accommodation string `json:"accommodation" yaml:"accommodation" xml:"Name"`
	RollupFigures `yaml:",inline"`

	// ApartmentCount is the number of distinct apartment types booked.
	ApartmentCount int `json:"apartmentCount" yaml:"apartment_count" xml:"ApartmentCount"`

	// Apartments is sorted by revenue, descending.
	Apartments []ApartmentRollup `json:"apartments" yaml:"apartments" xml:"Apartments>Apartment"`
}

// RollupOptions controls the rollup.
type RollupOptions struct {
	// Window clips stays and is the occupancy denominator for the current
	// subset.
	Window filter.Window

	// Comparison is the comparison subset, nil when comparison mode is off.
	Comparison *[]booking.Booking

	// ComparisonWindow clips the comparison subset. Required when
	// Comparison is set.
	ComparisonWindow filter.Window

	// Search keeps accommodations whose name contains it, case-insensitive.
	Search string

	// Source keeps accommodations with at least one booking from that
	// source. The unspecified label selects blank sources.
	Source string
}

// =============================================================================
// ROLLUP
// =============================================================================

// Rollup groups bookings by accommodation and apartment type.
//
// NIGHTS AND OCCUPANCY:
//   Each stay is clipped to the window before its nights are counted, so a
//   stay crossing a window boundary contributes only its nights inside the
//   window. Cancelled bookings contribute no nights.
//
//     accommodation occupancy = nights / (window days * apartment types) * 100
//     apartment occupancy     = nights / window days * 100
//
// RANKING:
//   The result is sorted by total revenue, descending. Without a search
//   term and without a source filter only the top params.TopEntities
//   accommodations are returned; with either filter every match is returned.
func Rollup(bookings []booking.Booking, options RollupOptions, params Params) []AccommodationRollup {
	current := buildRollup(bookings, options.Window, params)

	search := strings.ToLower(strings.TrimSpace(options.Search))
	source := strings.TrimSpace(options.Source)

	rows := make([]AccommodationRollup, 0, len(current))
	for _, row := range current {
		if search != "" && !strings.Contains(strings.ToLower(row.Accommodation), search) {
			continue
		}
		if source != "" && !hasSource(row.Sources, source) {
			continue
		}
		rows = append(rows, *row)
	}

	sortAccommodations(rows)
	if search == "" && source == "" && params.TopEntities > 0 && len(rows) > params.TopEntities {
		rows = rows[:params.TopEntities]
	}

	if options.Comparison != nil {
		previous := buildRollup(*options.Comparison, options.ComparisonWindow, params)
		for i := range rows {
			attachDifference(&rows[i], previous[rows[i].Accommodation])
		}
	}

	return rows
}

// buildRollup computes the unfiltered rollup of one subset, keyed by name.
func buildRollup(bookings []booking.Booking, window filter.Window, params Params) map[string]*AccommodationRollup {
	type accumulator struct {
		row        *AccommodationRollup
		revenue    money
		commission money
		sources    map[string]int
		apartments map[string]*apartmentAccumulator
	}

	accumulators := make(map[string]*accumulator)
	for _, b := range bookings {
		acc, ok := accumulators[b.Accommodation]
		if !ok {
			acc = &accumulator{
				row:        &AccommodationRollup{Accommodation: b.Accommodation},
				sources:    make(map[string]int),
				apartments: make(map[string]*apartmentAccumulator),
			}
			accumulators[b.Accommodation] = acc
		}

		apartmentType := b.ApartmentType
		if apartmentType == "" {
			apartmentType = params.UnspecifiedLabel
		}
		apartment, ok := acc.apartments[apartmentType]
		if !ok {
			apartment = &apartmentAccumulator{
				row:     ApartmentRollup{ApartmentType: apartmentType},
				sources: make(map[string]int),
			}
			acc.apartments[apartmentType] = apartment
		}

		nights := NightsInWindow(b, window)
		sourceKey := b.SourceKey(params.UnspecifiedLabel)

		acc.revenue.add(b.Revenue)
		acc.commission.add(b.Commission)
		acc.sources[sourceKey]++
		addToFigures(&acc.row.RollupFigures, b, nights)

		apartment.revenue.add(b.Revenue)
		apartment.commission.add(b.Commission)
		apartment.sources[sourceKey]++
		addToFigures(&apartment.row.RollupFigures, b, nights)
	}

	days := float64(window.Days())
	result := make(map[string]*AccommodationRollup, len(accumulators))

	for name, acc := range accumulators {
		row := acc.row
		row.TotalRevenue = acc.revenue.value()
		row.TotalCommission = acc.commission.value()
		row.Sources = sortedSources(acc.sources)
		row.ApartmentCount = len(acc.apartments)
		row.OccupancyRate = percent(float64(row.Nights), days*float64(row.ApartmentCount))

		row.Apartments = make([]ApartmentRollup, 0, len(acc.apartments))
		for _, apartment := range acc.apartments {
			a := apartment.row
			a.TotalRevenue = apartment.revenue.value()
			a.TotalCommission = apartment.commission.value()
			a.Sources = sortedSources(apartment.sources)
			a.OccupancyRate = percent(float64(a.Nights), days)
			row.Apartments = append(row.Apartments, a)
		}
		sort.Slice(row.Apartments, func(i, j int) bool {
			if row.Apartments[i].TotalRevenue != row.Apartments[j].TotalRevenue {
				return row.Apartments[i].TotalRevenue > row.Apartments[j].TotalRevenue
			}
			return row.Apartments[i].ApartmentType < row.Apartments[j].ApartmentType
		})

		result[name] = row
	}

	return result
}

type apartmentAccumulator struct {
	row        ApartmentRollup
	revenue    money
	commission money
	sources    map[string]int
}

func addToFigures(figures *RollupFigures, b booking.Booking, nights int) {
	figures.BookingCount++
	figures.Nights += nights
	if b.IsCancelled {
		figures.CancelledCount++
	}
}

// attachDifference sets the deltas for the accommodation and every apartment
// type that also appears in the comparison period.
func attachDifference(row *AccommodationRollup, previous *AccommodationRollup) {
	if previous == nil {
		return
	}
	row.Difference = figuresDelta(row.RollupFigures, previous.RollupFigures)

	previousApartments := make(map[string]RollupFigures, len(previous.Apartments))
	for _, a := range previous.Apartments {
		previousApartments[a.ApartmentType] = a.RollupFigures
	}
	for i := range row.Apartments {
		if prev, ok := previousApartments[row.Apartments[i].ApartmentType]; ok {
			row.Apartments[i].Difference = figuresDelta(row.Apartments[i].RollupFigures, prev)
		}
	}
}

func figuresDelta(current, previous RollupFigures) *RollupDelta {
	return &RollupDelta{
		Revenue:    current.TotalRevenue - previous.TotalRevenue,
		Commission: current.TotalCommission - previous.TotalCommission,
		Bookings:   current.BookingCount - previous.BookingCount,
		Nights:     current.Nights - previous.Nights,
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NightsInWindow counts the nights of a stay that fall inside the window. The
// night starting on the window's last day is inside. Cancelled bookings and
// bookings without both dates have no nights.
func NightsInWindow(b booking.Booking, window filter.Window) int {
	if b.IsCancelled {
		return 0
	}
	arrival, okArrival := b.Arrival()
	departure, okDeparture := b.Departure()
	if !okArrival || !okDeparture {
		return 0
	}

	windowEnd := window.End.AddDate(0, 0, 1)
	if arrival.Before(window.Start) {
		arrival = window.Start
	}
	if departure.After(windowEnd) {
		departure = windowEnd
	}
	return booking.DaysBetween(arrival, departure)
}

func hasSource(sources []SourceCount, source string) bool {
	for _, s := range sources {
		if s.Source == source {
			return true
		}
	}
	return false
}

func sortedSources(counts map[string]int) []SourceCount {
	sources := make([]SourceCount, 0, len(counts))
	for source, count := range counts {
		sources = append(sources, SourceCount{Source: source, Count: count})
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Count != sources[j].Count {
			return sources[i].Count > sources[j].Count
		}
		return sources[i].Source < sources[j].Source
	})
	return sources
}

// sortAccommodations sorts by revenue descending, then name.
func sortAccommodations(rows []AccommodationRollup) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalRevenue != rows[j].TotalRevenue {
			return rows[i].TotalRevenue > rows[j].TotalRevenue
		}
		return rows[i].Accommodation < rows[j].Accommodation
	})
}
