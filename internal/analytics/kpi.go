// =============================================================================
// Booking Analytics - KPI Bundle
// =============================================================================
//
// Headline figures of one subset and their deltas against a comparison subset.
//
// RULES:
//   - Cancelled bookings count towards the totals and the cancellation rate.
//   - The service fee applies once per booking above the threshold.
//   - Deltas are current minus comparison.
//
// =============================================================================

package analytics

import (
	"sort"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// =============================================================================
// KPI BUNDLE
// =============================================================================

// KPIs is the headline figure bundle of one subset.
type KPIs struct {
	TotalRevenue float64 `json:"totalRevenue" yaml:"total_revenue" xml:"TotalRevenue"`

	// TotalCommission is the sum of the commission column.
	TotalCommission float64 `json:"totalCommission" yaml:"total_commission" xml:"TotalCommission"`

	// ServiceFeeTotal is the sum of the flat service fees.
	ServiceFeeTotal float64 `json:"serviceFeeTotal" yaml:"service_fee_total" xml:"ServiceFeeTotal"`

	// TotalCommissionWithFee is TotalCommission + ServiceFeeTotal.
	TotalCommissionWithFee float64 `json:"totalCommissionWithFee" yaml:"total_commission_with_fee" xml:"TotalCommissionWithFee"`

	// ServiceFeeBookings counts bookings above the service fee threshold.
	ServiceFeeBookings int `json:"serviceFeeBookings" yaml:"service_fee_bookings" xml:"ServiceFeeBookings"`

	TotalBookings int `json:"totalBookings" yaml:"total_bookings" xml:"TotalBookings"`

	// TotalNights and AverageNights use departure - arrival, floored at 0.
	// Records without both dates are left out of both.
	TotalNights   int     `json:"totalNights" yaml:"total_nights" xml:"TotalNights"`
	AverageNights float64 `json:"averageNights" yaml:"average_nights" xml:"AverageNights"`

	AverageRevenuePerNight float64 `json:"averageRevenuePerNight" yaml:"average_revenue_per_night" xml:"AverageRevenuePerNight"`
	AverageRevenue         float64 `json:"averageRevenue" yaml:"average_revenue" xml:"AverageRevenue"`

	BookingTypes  BookingTypes  `json:"bookingTypes" yaml:"booking_types" xml:"BookingTypes"`
	PhoneBookings PhoneBookings `json:"phoneBookings" yaml:"phone_bookings" xml:"PhoneBookings"`

	TotalGuests              int     `json:"totalGuests" yaml:"total_guests" xml:"TotalGuests"`
	AverageCommissionPercent float64 `json:"averageCommissionPercent" yaml:"average_commission_percent" xml:"AverageCommissionPercent"`

	Cancellations    int     `json:"cancellations" yaml:"cancellations" xml:"Cancellations"`
	CancellationRate float64 `json:"cancellationRate" yaml:"cancellation_rate" xml:"CancellationRate"`
}

// Share is a count with its percentage of a total.
type Share struct {
	Count   int     `json:"count" yaml:"count" xml:"Count"`
	Percent float64 `json:"percent" yaml:"percent" xml:"Percent"`
}

// BookingTypes breaks bookings down by party. WithChildren and WithPets are
// counted independently: a booking with both increments both, so the three
// percentages may add up to more than 100.
type BookingTypes struct {
	AdultsOnly   Share `json:"adultsOnly" yaml:"adults_only" xml:"AdultsOnly"`
	WithChildren Share `json:"withChildren" yaml:"with_children" xml:"WithChildren"`
	WithPets     Share `json:"withPets" yaml:"with_pets" xml:"WithPets"`
}

// PhoneBookings counts bookings taken by phone.
type PhoneBookings struct {
	Count int `json:"count" yaml:"count" xml:"Count"`

	// Percent is the share of all bookings.
	Percent float64 `json:"percent" yaml:"percent" xml:"Percent"`

	// ByPerson is sorted by count, descending. Each Percent is the share of
	// phone bookings, not of all bookings.
	ByPerson []PersonCount `json:"byPerson" yaml:"by_person" xml:"ByPerson>Person"`
}

// PersonCount is the phone booking count of one staff member.
type PersonCount struct {
	Person  string  `json:"person" yaml:"person" xml:"Name"`
	Count   int     `json:"count" yaml:"count" xml:"Count"`
	Percent float64 `json:"percent" yaml:"percent" xml:"Percent"`
}

// ComputeKPIs computes the KPI bundle of one subset.
func ComputeKPIs(bookings []booking.Booking, params Params) KPIs {
	var (
		revenue, commission, fees money
		kpis                      KPIs
		datedStays                int
		commissionPercentSum      float64
		withChildren, withPets    int
		adultsOnly                int
		byPerson                  = make(map[string]int)
	)

	kpis.TotalBookings = len(bookings)

	for _, b := range bookings {
		revenue.add(b.Revenue)
		commission.add(b.Commission)

		if fee := params.serviceFee(b.Revenue); fee > 0 {
			fees.add(fee)
			kpis.ServiceFeeBookings++
		}

		if b.HasStayDates() {
			datedStays++
			kpis.TotalNights += b.StayNights()
		}

		hasChildren := b.Children > 0
		hasPets := b.Pets > 0
		if hasPets {
			withPets++
		}
		if hasChildren {
			withChildren++
		}
		if !hasChildren && !hasPets {
			adultsOnly++
		}

		if b.PhoneBooking != "" {
			kpis.PhoneBookings.Count++
			byPerson[b.PhoneBooking]++
		}

		kpis.TotalGuests += b.Guests()
		commissionPercentSum += b.CommissionPercent

		if b.IsCancelled {
			kpis.Cancellations++
		}
	}

	total := float64(kpis.TotalBookings)

	kpis.TotalRevenue = revenue.value()
	kpis.TotalCommission = commission.value()
	kpis.ServiceFeeTotal = fees.value()
	kpis.TotalCommissionWithFee = commission.sum.Add(fees.sum).InexactFloat64()

	kpis.AverageNights = ratio(float64(kpis.TotalNights), float64(datedStays))
	kpis.AverageRevenuePerNight = ratio(kpis.TotalRevenue, float64(kpis.TotalNights))
	kpis.AverageRevenue = ratio(kpis.TotalRevenue, total)

	kpis.BookingTypes = BookingTypes{
		AdultsOnly:   Share{Count: adultsOnly, Percent: percent(float64(adultsOnly), total)},
		WithChildren: Share{Count: withChildren, Percent: percent(float64(withChildren), total)},
		WithPets:     Share{Count: withPets, Percent: percent(float64(withPets), total)},
	}

	kpis.PhoneBookings.Percent = percent(float64(kpis.PhoneBookings.Count), total)
	kpis.PhoneBookings.ByPerson = phoneBreakdown(byPerson, kpis.PhoneBookings.Count)

	kpis.AverageCommissionPercent = ratio(commissionPercentSum, total)
	kpis.CancellationRate = percent(float64(kpis.Cancellations), total)

	return kpis
}

// phoneBreakdown sorts staff by count, then name.
func phoneBreakdown(byPerson map[string]int, phoneTotal int) []PersonCount {
	breakdown := make([]PersonCount, 0, len(byPerson))
	for person, count := range byPerson {
		breakdown = append(breakdown, PersonCount{
			Person:  person,
			Count:   count,
			Percent: percent(float64(count), float64(phoneTotal)),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Person < breakdown[j].Person
	})
	return breakdown
}

// =============================================================================
// COMPARISON
// =============================================================================

// KPIDelta is current - comparison for every numeric KPI.
type KPIDelta struct {
	TotalRevenue             float64 `json:"totalRevenue" yaml:"total_revenue" xml:"TotalRevenue"`
	TotalCommissionWithFee   float64 `json:"totalCommissionWithFee" yaml:"total_commission_with_fee" xml:"TotalCommissionWithFee"`
	ServiceFeeBookings       int     `json:"serviceFeeBookings" yaml:"service_fee_bookings" xml:"ServiceFeeBookings"`
	TotalBookings            int     `json:"totalBookings" yaml:"total_bookings" xml:"TotalBookings"`
	TotalNights              int     `json:"totalNights" yaml:"total_nights" xml:"TotalNights"`
	AverageNights            float64 `json:"averageNights" yaml:"average_nights" xml:"AverageNights"`
	AverageRevenuePerNight   float64 `json:"averageRevenuePerNight" yaml:"average_revenue_per_night" xml:"AverageRevenuePerNight"`
	AverageRevenue           float64 `json:"averageRevenue" yaml:"average_revenue" xml:"AverageRevenue"`
	PhoneBookings            int     `json:"phoneBookings" yaml:"phone_bookings" xml:"PhoneBookings"`
	TotalGuests              int     `json:"totalGuests" yaml:"total_guests" xml:"TotalGuests"`
	AverageCommissionPercent float64 `json:"averageCommissionPercent" yaml:"average_commission_percent" xml:"AverageCommissionPercent"`
	Cancellations            int     `json:"cancellations" yaml:"cancellations" xml:"Cancellations"`
	CancellationRate         float64 `json:"cancellationRate" yaml:"cancellation_rate" xml:"CancellationRate"`

	// RevenueChangePercent is the relative revenue change, 0 when the
	// comparison revenue is 0.
	RevenueChangePercent float64 `json:"revenueChangePercent" yaml:"revenue_change_percent" xml:"RevenueChangePercent"`
}

// KPIReport pairs the current KPIs with the optional comparison.
type KPIReport struct {
	Current KPIs `json:"current" yaml:"current" xml:"Current"`

	// Comparison and Delta are nil when comparison mode is off.
	Comparison *KPIs     `json:"comparison,omitempty" yaml:"comparison,omitempty" xml:"Comparison,omitempty"`
	Delta      *KPIDelta `json:"delta,omitempty" yaml:"delta,omitempty" xml:"Delta,omitempty"`
}

// Delta computes current - comparison.
func Delta(current, comparison KPIs) KPIDelta {
	return KPIDelta{
		TotalRevenue:             current.TotalRevenue - comparison.TotalRevenue,
		TotalCommissionWithFee:   current.TotalCommissionWithFee - comparison.TotalCommissionWithFee,
		ServiceFeeBookings:       current.ServiceFeeBookings - comparison.ServiceFeeBookings,
		TotalBookings:            current.TotalBookings - comparison.TotalBookings,
		TotalNights:              current.TotalNights - comparison.TotalNights,
		AverageNights:            current.AverageNights - comparison.AverageNights,
		AverageRevenuePerNight:   current.AverageRevenuePerNight - comparison.AverageRevenuePerNight,
		AverageRevenue:           current.AverageRevenue - comparison.AverageRevenue,
		PhoneBookings:            current.PhoneBookings.Count - comparison.PhoneBookings.Count,
		TotalGuests:              current.TotalGuests - comparison.TotalGuests,
		AverageCommissionPercent: current.AverageCommissionPercent - comparison.AverageCommissionPercent,
		Cancellations:            current.Cancellations - comparison.Cancellations,
		CancellationRate:         current.CancellationRate - comparison.CancellationRate,
		RevenueChangePercent:     PercentChange(current.TotalRevenue, comparison.TotalRevenue),
	}
}

// CompareKPIs computes the KPI report. A nil comparison means comparison mode
// is off; a non-nil empty slice is a comparison period without bookings.
func CompareKPIs(current []booking.Booking, comparison *[]booking.Booking, params Params) KPIReport {
	report := KPIReport{Current: ComputeKPIs(current, params)}
	if comparison == nil {
		return report
	}

	comparisonKPIs := ComputeKPIs(*comparison, params)
	delta := Delta(report.Current, comparisonKPIs)
	report.Comparison = &comparisonKPIs
	report.Delta = &delta
	return report
}
