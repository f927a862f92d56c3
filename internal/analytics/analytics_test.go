package analytics

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
)

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func window(start, end string) filter.Window {
	return filter.Window{Start: day(start), End: day(end)}
}

func stay(accommodation, arrival, departure string, revenue float64) booking.Booking {
	return booking.Booking{
		BookingCode:   accommodation + arrival,
		Accommodation: accommodation,
		ApartmentType: "ABC",
		ArrivalDate:   arrival,
		DepartureDate: departure,
		BookingDate:   arrival,
		Revenue:       revenue,
		IsCancelled:   revenue < 0,
		Adults:        2,
	}
}

// =============================================================================
// KPI
// =============================================================================

func TestComputeKPIs_Empty(t *testing.T) {
	kpis := ComputeKPIs(nil, DefaultParams())

	assert.Equal(t, 0, kpis.TotalBookings)
	assert.Equal(t, 0.0, kpis.AverageNights)
	assert.Equal(t, 0.0, kpis.AverageRevenuePerNight)
	assert.Equal(t, 0.0, kpis.AverageRevenue)
	assert.Equal(t, 0.0, kpis.CancellationRate)
	assert.Equal(t, 0.0, kpis.PhoneBookings.Percent)
	assert.Equal(t, 0.0, kpis.BookingTypes.AdultsOnly.Percent)
	assert.Empty(t, kpis.PhoneBookings.ByPerson)
	assert.False(t, math.IsNaN(kpis.AverageCommissionPercent))
}

func TestComputeKPIs(t *testing.T) {
	bookings := []booking.Booking{
		{ArrivalDate: "2024-06-01", DepartureDate: "2024-06-04", Nights: 9, Revenue: 300, Commission: 30, CommissionPercent: 10, Adults: 2, Children: 1, PhoneBooking: "Rohde"},
		{ArrivalDate: "2024-06-10", DepartureDate: "2024-06-11", Revenue: 100, Commission: 10, CommissionPercent: 10, Adults: 1, Pets: 1, Children: 2, PhoneBooking: "Marquardt"},
		{ArrivalDate: "2024-06-20", DepartureDate: "", Revenue: 150, Commission: 15, Adults: 3, PhoneBooking: "Rohde"},
		{ArrivalDate: "2024-06-25", DepartureDate: "2024-06-27", Revenue: -200, IsCancelled: true, Adults: 2},
	}

	kpis := ComputeKPIs(bookings, DefaultParams())

	assert.Equal(t, 4, kpis.TotalBookings)
	assert.Equal(t, 350.0, kpis.TotalRevenue)
	assert.Equal(t, 55.0, kpis.TotalCommission)
	assert.Equal(t, 1, kpis.ServiceFeeBookings, "only revenue above 150 carries the fee")
	assert.Equal(t, 25.0, kpis.ServiceFeeTotal)
	assert.Equal(t, 80.0, kpis.TotalCommissionWithFee)

	assert.Equal(t, 6, kpis.TotalNights, "stored nights are ignored")
	assert.Equal(t, 2.0, kpis.AverageNights)
	assert.InDelta(t, 350.0/6.0, kpis.AverageRevenuePerNight, 1e-9)
	assert.Equal(t, 87.5, kpis.AverageRevenue)

	assert.Equal(t, 2, kpis.BookingTypes.AdultsOnly.Count)
	assert.Equal(t, 2, kpis.BookingTypes.WithChildren.Count)
	assert.Equal(t, 1, kpis.BookingTypes.WithPets.Count)
	assert.Equal(t, 50.0, kpis.BookingTypes.WithChildren.Percent)

	assert.Equal(t, 3, kpis.PhoneBookings.Count)
	assert.Equal(t, 75.0, kpis.PhoneBookings.Percent)
	require.Len(t, kpis.PhoneBookings.ByPerson, 2)
	assert.Equal(t, "Rohde", kpis.PhoneBookings.ByPerson[0].Person)
	assert.InDelta(t, 200.0/3.0, kpis.PhoneBookings.ByPerson[0].Percent, 1e-9)

	assert.Equal(t, 11, kpis.TotalGuests)
	assert.Equal(t, 5.0, kpis.AverageCommissionPercent)
	assert.Equal(t, 1, kpis.Cancellations)
	assert.Equal(t, 25.0, kpis.CancellationRate)
}

func TestComputeKPIs_ChildrenAndPetsOverlap(t *testing.T) {
	kpis := ComputeKPIs([]booking.Booking{{Children: 1, Pets: 1}}, DefaultParams())

	assert.Equal(t, 1, kpis.BookingTypes.WithChildren.Count)
	assert.Equal(t, 1, kpis.BookingTypes.WithPets.Count)
	assert.Equal(t, 0, kpis.BookingTypes.AdultsOnly.Count)
}

func TestCompareKPIs(t *testing.T) {
	current := []booking.Booking{{Revenue: 100}}
	previous := []booking.Booking{{Revenue: 250}, {Revenue: 50}}

	report := CompareKPIs(current, &previous, DefaultParams())
	require.NotNil(t, report.Comparison)
	require.NotNil(t, report.Delta)

	assert.Equal(t, report.Current.TotalRevenue-report.Comparison.TotalRevenue, report.Delta.TotalRevenue)
	assert.Equal(t, -200.0, report.Delta.TotalRevenue)
	assert.Equal(t, -1, report.Delta.TotalBookings)
	assert.InDelta(t, -66.6667, report.Delta.RevenueChangePercent, 1e-3)

	off := CompareKPIs(current, nil, DefaultParams())
	assert.Nil(t, off.Comparison)
	assert.Nil(t, off.Delta)

	empty := []booking.Booking{}
	againstNothing := CompareKPIs(current, &empty, DefaultParams())
	require.NotNil(t, againstNothing.Delta)
	assert.Equal(t, 0.0, againstNothing.Delta.RevenueChangePercent)
	assert.Equal(t, 100.0, againstNothing.Delta.TotalRevenue)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50.0, PercentChange(150, 100))
	assert.Equal(t, -50.0, PercentChange(50, 100))
	assert.Equal(t, 0.0, PercentChange(50, 0))
}

// =============================================================================
// ROLLUP
// =============================================================================

func TestRollup_Occupancy(t *testing.T) {
	bookings := []booking.Booking{
		stay("Haus Möwe", "2024-06-05", "2024-06-15", 1000),
	}

	rows := Rollup(bookings, RollupOptions{Window: window("2024-06-01", "2024-06-30")}, DefaultParams())
	require.Len(t, rows, 1)

	assert.Equal(t, 10, rows[0].Nights)
	assert.Equal(t, 1, rows[0].ApartmentCount)
	assert.InDelta(t, 10.0/30.0*100, rows[0].OccupancyRate, 1e-12)
	require.Len(t, rows[0].Apartments, 1)
	assert.InDelta(t, 10.0/30.0*100, rows[0].Apartments[0].OccupancyRate, 1e-12)
}

func TestRollup_ClipsToWindowAndSkipsCancelled(t *testing.T) {
	first := stay("Haus Möwe", "2024-05-28", "2024-06-03", 800)
	first.ApartmentType = "Studio"
	last := stay("Haus Möwe", "2024-06-28", "2024-07-05", 700)
	last.ApartmentType = "Loft"
	cancelled := stay("Haus Möwe", "2024-06-10", "2024-06-12", -100)
	cancelled.ApartmentType = "Loft"

	rows := Rollup([]booking.Booking{first, last, cancelled}, RollupOptions{Window: window("2024-06-01", "2024-06-30")}, DefaultParams())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 2+3, row.Nights, "June 1-2 plus June 28-30")
	assert.Equal(t, 3, row.BookingCount)
	assert.Equal(t, 1, row.CancelledCount)
	assert.Equal(t, 2, row.ApartmentCount)
	assert.InDelta(t, 5.0/(30.0*2)*100, row.OccupancyRate, 1e-12)

	require.Len(t, row.Apartments, 2)
	assert.Equal(t, "Studio", row.Apartments[0].ApartmentType, "sorted by revenue")
	assert.Equal(t, 2, row.Apartments[0].Nights)
	assert.Equal(t, "Loft", row.Apartments[1].ApartmentType)
	assert.Equal(t, 3, row.Apartments[1].Nights)
}

func TestRollup_CapAndSearch(t *testing.T) {
	var bookings []booking.Booking
	for i := 1; i <= 50; i++ {
		bookings = append(bookings, stay(fmt.Sprintf("Haus %02d", i), "2024-06-01", "2024-06-02", float64(i*10)))
	}
	options := RollupOptions{Window: window("2024-06-01", "2024-06-30")}

	capped := Rollup(bookings, options, DefaultParams())
	require.Len(t, capped, 30)
	assert.Equal(t, "Haus 50", capped[0].Accommodation)
	assert.Equal(t, "Haus 21", capped[29].Accommodation)
	for i := 1; i < len(capped); i++ {
		assert.GreaterOrEqual(t, capped[i-1].TotalRevenue, capped[i].TotalRevenue)
	}

	options.Search = "haus"
	all := Rollup(bookings, options, DefaultParams())
	assert.Len(t, all, 50)
	assert.Equal(t, "Haus 50", all[0].Accommodation)

	options.Search = "Haus 1"
	matches := Rollup(bookings, options, DefaultParams())
	assert.Len(t, matches, 10, "Haus 10 to Haus 19")
}

func TestRollup_SourceFilter(t *testing.T) {
	var bookings []booking.Booking
	for i := 1; i <= 40; i++ {
		b := stay(fmt.Sprintf("Haus %02d", i), "2024-06-01", "2024-06-02", float64(i))
		if i%2 == 0 {
			b.BookingSource = "Airbnb"
		}
		bookings = append(bookings, b)
	}

	options := RollupOptions{Window: window("2024-06-01", "2024-06-30"), Source: "ABC"}
	rows := Rollup(bookings, options, DefaultParams())
	assert.Len(t, rows, 20, "unspecified label selects blank sources, uncapped")
	assert.Equal(t, "ABC", rows[0].Sources[0].Source)

	options.Source = "Airbnb"
	assert.Len(t, Rollup(bookings, options, DefaultParams()), 20)
}

func TestRollup_Difference(t *testing.T) {
	current := []booking.Booking{
		stay("Haus Möwe", "2024-06-01", "2024-06-05", 500),
		stay("Villa Neu", "2024-06-01", "2024-06-03", 200),
	}
	previous := []booking.Booking{
		stay("Haus Möwe", "2023-06-01", "2023-06-08", 800),
	}

	rows := Rollup(current, RollupOptions{
		Window:           window("2024-01-01", "2024-12-31"),
		Comparison:       &previous,
		ComparisonWindow: window("2023-01-01", "2023-12-31"),
	}, DefaultParams())
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].Difference)
	assert.Equal(t, -300.0, rows[0].Difference.Revenue)
	assert.Equal(t, 0, rows[0].Difference.Bookings)
	assert.Equal(t, 4-7, rows[0].Difference.Nights)
	require.NotNil(t, rows[0].Apartments[0].Difference)

	assert.Nil(t, rows[1].Difference, "no match in the comparison period")
}

func TestNightsInWindow(t *testing.T) {
	w := window("2024-06-01", "2024-06-30")

	assert.Equal(t, 30, NightsInWindow(stay("A", "2024-05-01", "2024-08-01", 1), w))
	assert.Equal(t, 0, NightsInWindow(stay("A", "2024-07-01", "2024-07-05", 1), w))
	assert.Equal(t, 0, NightsInWindow(booking.Booking{ArrivalDate: "2024-06-01"}, w))
	assert.Equal(t, 0, NightsInWindow(stay("A", "2024-06-01", "2024-06-05", -1), w))
}

// =============================================================================
// SOURCES AND SERIES
// =============================================================================

func TestSourceDistribution_Merge(t *testing.T) {
	current := []booking.Booking{
		{BookingSource: "Airbnb", Revenue: 100, Commission: 10},
		{BookingSource: "Airbnb", Revenue: 50},
		{BookingSource: "  ", Revenue: 70},
		{BookingSource: "Booking.com", Revenue: 30},
	}
	previous := []booking.Booking{
		{BookingSource: "Airbnb", Revenue: 80},
		{BookingSource: "Expedia", Revenue: 40},
	}

	stats := SourceDistribution(current, &previous, DefaultParams())
	require.Len(t, stats, 4)

	assert.Equal(t, "Airbnb", stats[0].Source)
	assert.Equal(t, 2, stats[0].Current.Count)
	assert.Equal(t, 50.0, stats[0].Current.Percent)
	assert.Equal(t, 150.0, stats[0].Current.Revenue)
	assert.Equal(t, 1, stats[0].Comparison.Count)
	assert.Equal(t, 70.0, stats[0].Delta.Revenue)

	bySource := make(map[string]SourceStat)
	for _, s := range stats {
		bySource[s.Source] = s
	}
	assert.Equal(t, 1, bySource["ABC"].Current.Count)
	assert.Equal(t, 0, bySource["ABC"].Comparison.Count)
	assert.Equal(t, 0, bySource["Expedia"].Current.Count)
	assert.Equal(t, 1, bySource["Expedia"].Comparison.Count)
	assert.Equal(t, -1, bySource["Expedia"].Delta.Count)

	off := SourceDistribution(current, nil, DefaultParams())
	assert.Len(t, off, 3)
	assert.Nil(t, off[0].Comparison)
}

func TestTimeSeries_Sparse(t *testing.T) {
	bookings := []booking.Booking{
		{BookingDate: "2024-03-05", Revenue: 10, Commission: 1},
		{BookingDate: "2024-01-02", Revenue: 20},
		{BookingDate: "2024-03-05", Revenue: 30},
		{BookingDate: ""},
	}

	daily := DailySeries(bookings, booking.FilterByBooking)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-01-02", daily[0].Period)
	assert.Equal(t, "2024-03-05", daily[1].Period)
	assert.Equal(t, 2, daily[1].Bookings)
	assert.Equal(t, 40.0, daily[1].Revenue)
	assert.Equal(t, 1.0, daily[1].Commission)

	monthly := MonthlySeries(bookings, booking.FilterByBooking)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-03", monthly[1].Period)

	assert.Empty(t, DailySeries(nil, booking.FilterByBooking))
}

func TestMonthOfYear_ZeroFilled(t *testing.T) {
	bookings := []booking.Booking{
		{ArrivalDate: "2023-03-01", DepartureDate: "2023-03-04", Revenue: 10},
		{ArrivalDate: "2024-03-10", Revenue: 5, IsCancelled: true},
	}

	months := MonthOfYear(bookings, booking.FilterByArrival)
	require.Len(t, months, 12)
	assert.Equal(t, "Januar", months[0].Name)
	assert.Equal(t, 0, months[0].Bookings)
	assert.Equal(t, 2, months[2].Bookings, "years are ignored")
	assert.Equal(t, 3, months[2].Nights)
	assert.Equal(t, 1, months[2].Cancellations)

	assert.Len(t, MonthOfYear(nil, booking.FilterByArrival), 12)

	compared := CompareMonthOfYear(bookings, &[]booking.Booking{}, booking.FilterByArrival)
	require.Len(t, compared, 12)
	assert.Equal(t, 2, compared[2].Delta.Bookings)
	assert.Nil(t, CompareMonthOfYear(bookings, nil, booking.FilterByArrival)[2].Delta)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("Monthly")
	require.NoError(t, err)
	assert.Equal(t, Monthly, g)

	_, err = ParseGranularity("hourly")
	assert.Error(t, err)
}

// =============================================================================
// DISTRIBUTIONS
// =============================================================================

func TestHourOfDay(t *testing.T) {
	buckets := HourOfDay([]booking.Booking{
		{BookingTime: "9:41:00"},
		{BookingTime: "09:05"},
		{BookingTime: "23:59:59"},
		{BookingTime: "25:00:00"},
		{BookingTime: ""},
	})

	require.Len(t, buckets, 24)
	assert.Equal(t, "09:00", buckets[9].Label)
	assert.Equal(t, 2, buckets[9].Bookings)
	assert.Equal(t, 1, buckets[23].Bookings)
}

func TestPostalRegions(t *testing.T) {
	current := []booking.Booking{{CustomerZip: "20095"}, {CustomerZip: "22111"}, {CustomerZip: "A-1010"}, {}}
	previous := []booking.Booking{{CustomerZip: "80331"}}

	regions := PostalRegions(current, &previous)
	require.Len(t, regions, 10)
	assert.Equal(t, 2, regions[2].Current)
	assert.Equal(t, "Hamburg, Rostock", regions[2].Description)
	assert.Equal(t, 1, *regions[8].Comparison)

	assert.Nil(t, PostalRegions(current, nil)[2].Comparison)
}

func TestBookingLeadMatrix(t *testing.T) {
	rows := BookingLeadMatrix([]booking.Booking{
		{BookingDate: "2024-01-15", ArrivalDate: "2024-07-01"},
		{BookingDate: "2023-01-03", ArrivalDate: "2023-07-20"},
		{BookingDate: "2024-02-01", ArrivalDate: ""},
	})

	require.Len(t, rows, 12)
	assert.Equal(t, 2, rows[0].ArrivalMonths[6])
	assert.Equal(t, [12]int{}, rows[1].ArrivalMonths)
}

func TestAverageRevenuePerNightBySource(t *testing.T) {
	current := []booking.Booking{
		{BookingSource: "Airbnb", ArrivalDate: "2024-06-01", DepartureDate: "2024-06-05", Revenue: 400},
		{BookingSource: "Airbnb", ArrivalDate: "2024-06-10", DepartureDate: "2024-06-11", Revenue: 200},
		{BookingSource: "", ArrivalDate: "2024-07-01", DepartureDate: "2024-07-01", Revenue: 90},
	}
	previous := []booking.Booking{
		{BookingSource: "Vrbo", ArrivalDate: "2023-06-01", DepartureDate: "2023-06-03", Revenue: 100},
	}

	rates := AverageRevenuePerNightBySource(current, &previous, DefaultParams())
	require.Len(t, rates, 2, "zero-night stays are left out")
	assert.Equal(t, "Airbnb", rates[0].Source)
	assert.Equal(t, 120.0, rates[0].Current[5])
	assert.Equal(t, 0.0, rates[0].Current[6])
	assert.Equal(t, "Vrbo", rates[1].Source)
	assert.Equal(t, 50.0, rates[1].Comparison[5])
}
