// =============================================================================
// Booking Analytics - Aggregation Engine
// =============================================================================
//
// This package computes every aggregate the reports show, from one subset of
// canonical bookings and, in comparison mode, a second subset:
//
//   kpi.go           : KPI bundle and KPI deltas
//   rollup.go        : accommodation rollup with nested apartment rollups
//   sources.go       : booking source distribution
//   series.go        : daily, monthly and month-of-year time series
//   distribution.go  : hour of day, postal regions, booking lead, revenue per
//                      night by source
//
// RULES:
//   - Every function is pure. Inputs are never modified.
//   - Every function is total over any collection, including an empty one.
//   - A zero denominator yields 0, never NaN or Inf.
//   - A record with an unusable date is left out of date-dependent figures
//     and still counted everywhere else.
//
// =============================================================================

package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/booking-analytics/internal/config"
)

// Params holds the business parameters of the aggregations.
type Params struct {
	// ServiceFee is added to commission for every booking whose revenue
	// exceeds ServiceFeeThreshold.
	ServiceFee          float64
	ServiceFeeThreshold float64

	// TopEntities caps the accommodation rollup when no search or source
	// filter is active. Zero disables the cap.
	TopEntities int

	// UnspecifiedLabel names blank booking sources.
	UnspecifiedLabel string
}

// DefaultParams returns the parameters of the standard configuration.
func DefaultParams() Params {
	return ParamsFrom(config.Default().Business)
}

// ParamsFrom reads the parameters from the business configuration.
func ParamsFrom(business config.BusinessSettings) Params {
	return Params{
		ServiceFee:          business.ServiceFee,
		ServiceFeeThreshold: business.ServiceFeeThreshold,
		TopEntities:         business.TopEntities,
		UnspecifiedLabel:    business.UnspecifiedLabel,
	}
}

// serviceFee is the fee charged for one booking.
func (p Params) serviceFee(revenue float64) float64 {
	if revenue > p.ServiceFeeThreshold {
		return p.ServiceFee
	}
	return 0
}

// =============================================================================
// ARITHMETIC HELPERS
// =============================================================================

// money accumulates currency amounts without float drift.
type money struct {
	sum decimal.Decimal
}

func (m *money) add(amount float64) {
	m.sum = m.sum.Add(decimal.NewFromFloat(amount))
}

func (m money) value() float64 {
	return m.sum.InexactFloat64()
}

// ratio divides and returns 0 for a zero denominator.
func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// percent is ratio * 100.
func percent(part, whole float64) float64 {
	return ratio(part, whole) * 100
}

// PercentChange is (current - previous) / previous * 100, 0 when previous is 0.
func PercentChange(current, previous float64) float64 {
	return percent(current-previous, previous)
}
