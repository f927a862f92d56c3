// =============================================================================
// Booking Analytics - Report Assembly
// =============================================================================
//
// This package assembles every aggregation block for one filter request into
// a single plain data structure. The Report carries data only; rendering is
// done by the writers (format.go here, xlsxreport for workbooks).
//
// ASSEMBLY:
//   1. Validate the request and select the primary and comparison subsets
//   2. Derive the day windows used for clipping and occupancy
//   3. Run every aggregation over the subsets
//
// A request without comparison produces a Report whose comparison fields are
// all nil. A comparison period without bookings produces zero figures, not
// nil ones.
//
// =============================================================================

package report

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/booking-analytics/internal/analytics"
	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
)

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Report holds every aggregation block of one request.
type Report struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"report"`

	Meta Meta `json:"meta" yaml:"meta" xml:"Meta"`

	KPIs analytics.KPIReport `json:"kpis" yaml:"kpis" xml:"KPIs"`

	Accommodations []analytics.AccommodationRollup `json:"accommodations" yaml:"accommodations" xml:"Accommodations>Accommodation"`
	Sources        []analytics.SourceStat          `json:"sources" yaml:"sources" xml:"Sources>Source"`

	// Series is the sparse series of the primary subset at the requested
	// granularity; ComparisonSeries is the same for the comparison subset.
	Series           []analytics.SeriesPoint `json:"series" yaml:"series" xml:"Series>Point"`
	ComparisonSeries []analytics.SeriesPoint `json:"comparisonSeries,omitempty" yaml:"comparison_series,omitempty" xml:"ComparisonSeries>Point,omitempty"`

	MonthOfYear     []analytics.MonthComparison   `json:"monthOfYear" yaml:"month_of_year" xml:"MonthOfYear>Month"`
	HourOfDay       []analytics.HourBucket        `json:"hourOfDay" yaml:"hour_of_day" xml:"HourOfDay>Hour"`
	PostalRegions   []analytics.PostalRegion      `json:"postalRegions" yaml:"postal_regions" xml:"PostalRegions>Region"`
	BookingLead     []analytics.LeadRow           `json:"bookingLead" yaml:"booking_lead" xml:"BookingLead>Month"`
	RevenuePerNight []analytics.SourceMonthlyRate `json:"revenuePerNight" yaml:"revenue_per_night" xml:"RevenuePerNight>Source"`
}

// Meta describes how the report was produced.
type Meta struct {
	GeneratedAt time.Time `json:"generatedAt" yaml:"generated_at" xml:"GeneratedAt"`
	FilterType  string    `json:"filterType" yaml:"filter_type" xml:"FilterType"`
	Granularity string    `json:"granularity" yaml:"granularity" xml:"Granularity"`
	Search      string    `json:"search,omitempty" yaml:"search,omitempty" xml:"Search,omitempty"`
	Source      string    `json:"source,omitempty" yaml:"source,omitempty" xml:"Source,omitempty"`

	Period           Period  `json:"period" yaml:"period" xml:"Period"`
	ComparisonPeriod *Period `json:"comparisonPeriod,omitempty" yaml:"comparison_period,omitempty" xml:"ComparisonPeriod,omitempty"`
}

// Period is one selected window and the number of bookings in it.
type Period struct {
	Start    string `json:"start" yaml:"start" xml:"Start"`
	End      string `json:"end" yaml:"end" xml:"End"`
	Days     int    `json:"days" yaml:"days" xml:"Days"`
	Bookings int    `json:"bookings" yaml:"bookings" xml:"Bookings"`
}

// Options are the presentation settings of a report.
type Options struct {
	// Granularity of the sparse series.
	// Default: daily
	Granularity analytics.Granularity

	// Source restricts the accommodation rollup to entities with bookings
	// from this source.
	Source string

	// Now stamps Meta.GeneratedAt. Default: time.Now
	Now func() time.Time
}

// =============================================================================
// BUILD
// =============================================================================

// Build assembles the report for one filter request.
//
// PARAMETERS:
//   - bookings: The full ingested collection.
//   - request: The primary selection and optional comparison selection.
//   - params: The business parameters of the aggregations.
//   - options: Presentation settings.
//   - logger: Receives the filter warnings.
//
// RETURNS:
//   - The assembled report.
//   - An error if the request is invalid.
func Build(bookings []booking.Booking, request filter.Request, params analytics.Params, options Options, logger zerolog.Logger) (*Report, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report request: %w", err)
	}
	if options.Granularity == "" {
		options.Granularity = analytics.Daily
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	selection := filter.Select(bookings, request, logger)
	primary := selection.Primary
	comparison := selection.Comparison
	filterType := request.Primary.Type

	report := &Report{
		Meta: Meta{
			GeneratedAt: options.Now(),
			FilterType:  string(filterType),
			Granularity: string(options.Granularity),
			Search:      request.Primary.Search,
			Source:      options.Source,
			Period:      periodOf(request.Primary.Window(), len(primary)),
		},
	}

	rollupOptions := analytics.RollupOptions{
		Window:     request.Primary.Window(),
		Comparison: comparison,
		Search:     request.Primary.Search,
		Source:     options.Source,
	}

	if comparison != nil {
		comparisonPeriod := periodOf(request.Comparison.Window(), len(*comparison))
		report.Meta.ComparisonPeriod = &comparisonPeriod
		rollupOptions.ComparisonWindow = request.Comparison.Window()
		report.ComparisonSeries = analytics.TimeSeries(*comparison, filterType, options.Granularity)
	}

	report.KPIs = analytics.CompareKPIs(primary, comparison, params)
	report.Accommodations = analytics.Rollup(primary, rollupOptions, params)
	report.Sources = analytics.SourceDistribution(primary, comparison, params)
	report.Series = analytics.TimeSeries(primary, filterType, options.Granularity)
	report.MonthOfYear = analytics.CompareMonthOfYear(primary, comparison, filterType)
	report.HourOfDay = analytics.HourOfDay(primary)
	report.PostalRegions = analytics.PostalRegions(primary, comparison)
	report.BookingLead = analytics.BookingLeadMatrix(primary)
	report.RevenuePerNight = analytics.AverageRevenuePerNightBySource(primary, comparison, params)

	logger.Debug().
		Int("primary", len(primary)).
		Bool("comparison", comparison != nil).
		Int("accommodations", len(report.Accommodations)).
		Msg("report assembled")

	return report, nil
}

// DefaultRequest covers the full date range of the selected field, without
// comparison. It fails when no record has a valid date in that field.
func DefaultRequest(bookings []booking.Booking, filterType booking.FilterType, search string) (filter.Request, error) {
	window, ok := filter.DataRange(bookings, filterType)
	if !ok {
		return filter.Request{}, fmt.Errorf("no valid %s dates in the data", filterType)
	}
	return filter.Request{
		Primary: filter.IntervalCriteria(filterType, window.Start, window.End, search),
	}, nil
}

func periodOf(window filter.Window, bookings int) Period {
	return Period{
		Start:    window.Start.Format(time.DateOnly),
		End:      window.End.Format(time.DateOnly),
		Days:     window.Days(),
		Bookings: bookings,
	}
}
