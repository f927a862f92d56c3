// =============================================================================
// Booking Analytics - Source Distribution
// =============================================================================

package analytics

import (
	"sort"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// SourceFigures are the totals of one booking source in one period.
type SourceFigures struct {
	Count int `json:"count" yaml:"count" xml:"Count"`

	// Percent is the share of the period's bookings.
	Percent    float64 `json:"percent" yaml:"percent" xml:"Percent"`
	Revenue    float64 `json:"revenue" yaml:"revenue" xml:"Revenue"`
	Commission float64 `json:"commission" yaml:"commission" xml:"Commission"`
}

// SourceStat is one booking source with its optional comparison.
type SourceStat struct {
	Source  string        `json:"source" yaml:"source" xml:"Name"`
	Current SourceFigures `json:"current" yaml:"current" xml:"Current"`

	// Comparison and Delta are nil when comparison mode is off. A source
	// seen in only one period has zero figures in the other.
	Comparison *SourceFigures `json:"comparison,omitempty" yaml:"comparison,omitempty" xml:"Comparison,omitempty"`
	Delta      *SourceFigures `json:"delta,omitempty" yaml:"delta,omitempty" xml:"Delta,omitempty"`
}

// SourceDistribution groups bookings by source. Blank sources share the
// unspecified bucket. The result is sorted by current count, then by
// comparison count, then by name.
func SourceDistribution(current []booking.Booking, comparison *[]booking.Booking, params Params) []SourceStat {
	currentFigures := sourceFigures(current, params.UnspecifiedLabel)

	var previousFigures map[string]SourceFigures
	if comparison != nil {
		previousFigures = sourceFigures(*comparison, params.UnspecifiedLabel)
	}

	stats := make([]SourceStat, 0, len(currentFigures)+len(previousFigures))
	seen := make(map[string]bool, len(currentFigures))

	for source, figures := range currentFigures {
		seen[source] = true
		stats = append(stats, SourceStat{Source: source, Current: figures})
	}
	for source := range previousFigures {
		if !seen[source] {
			stats = append(stats, SourceStat{Source: source})
		}
	}

	if comparison != nil {
		for i := range stats {
			previous := previousFigures[stats[i].Source]
			delta := SourceFigures{
				Count:      stats[i].Current.Count - previous.Count,
				Percent:    stats[i].Current.Percent - previous.Percent,
				Revenue:    stats[i].Current.Revenue - previous.Revenue,
				Commission: stats[i].Current.Commission - previous.Commission,
			}
			stats[i].Comparison = &previous
			stats[i].Delta = &delta
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Current.Count != stats[j].Current.Count {
			return stats[i].Current.Count > stats[j].Current.Count
		}
		ci, cj := 0, 0
		if stats[i].Comparison != nil {
			ci, cj = stats[i].Comparison.Count, stats[j].Comparison.Count
		}
		if ci != cj {
			return ci > cj
		}
		return stats[i].Source < stats[j].Source
	})

	return stats
}

func sourceFigures(bookings []booking.Booking, unspecifiedLabel string) map[string]SourceFigures {
	type accumulator struct {
		count               int
		revenue, commission money
	}

	accumulators := make(map[string]*accumulator)
	for _, b := range bookings {
		key := b.SourceKey(unspecifiedLabel)
		acc, ok := accumulators[key]
		if !ok {
			acc = &accumulator{}
			accumulators[key] = acc
		}
		acc.count++
		acc.revenue.add(b.Revenue)
		acc.commission.add(b.Commission)
	}

	total := float64(len(bookings))
	figures := make(map[string]SourceFigures, len(accumulators))
	for source, acc := range accumulators {
		figures[source] = SourceFigures{
			Count:      acc.count,
			Percent:    percent(float64(acc.count), total),
			Revenue:    acc.revenue.value(),
			Commission: acc.commission.value(),
		}
	}
	return figures
}
