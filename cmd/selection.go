package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/converter"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
)

// selectionFlags are the filter flags shared by report and export.
type selectionFlags struct {
	filterType   string
	start        string
	end          string
	year         int
	compareStart string
	compareEnd   string
	compareYear  int
	search       string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.filterType, "filter-type", "arrival", "Date field that drives the window: arrival or booking")
	flags.StringVar(&f.start, "start", "", "First day of the window (YYYY-MM-DD or DD.MM.YYYY)")
	flags.StringVar(&f.end, "end", "", "Last day of the window, inclusive")
	flags.IntVar(&f.year, "year", 0, "Calendar year of the window")
	flags.StringVar(&f.compareStart, "compare-start", "", "First day of the comparison window")
	flags.StringVar(&f.compareEnd, "compare-end", "", "Last day of the comparison window, inclusive")
	flags.IntVar(&f.compareYear, "compare-year", 0, "Calendar year of the comparison window")
	flags.StringVar(&f.search, "search", "", "Only accommodations whose name contains this text (case-insensitive)")
}

// selection turns the flags into a converter selection. Without --year or
// --start/--end the selection covers the full data range.
func (f *selectionFlags) selection() (converter.Selection, error) {
	filterType, ok := booking.ParseFilterType(f.filterType)
	if !ok {
		return converter.Selection{}, fmt.Errorf("unknown filter type %q (use arrival or booking)", f.filterType)
	}

	hasInterval := f.start != "" || f.end != ""
	hasCompareInterval := f.compareStart != "" || f.compareEnd != ""

	switch {
	case f.year != 0 && hasInterval:
		return converter.Selection{}, fmt.Errorf("--year cannot be combined with --start/--end")
	case f.compareYear != 0 && hasCompareInterval:
		return converter.Selection{}, fmt.Errorf("--compare-year cannot be combined with --compare-start/--compare-end")
	case f.compareYear != 0 && f.year == 0:
		return converter.Selection{}, fmt.Errorf("--compare-year needs --year")
	case hasCompareInterval && !hasInterval:
		return converter.Selection{}, fmt.Errorf("--compare-start/--compare-end need --start/--end")
	}

	var request filter.Request
	switch {
	case f.year != 0 && f.compareYear != 0:
		request = filter.YearOverYear(filterType, f.year, f.compareYear, f.search)
	case f.year != 0:
		request = filter.Request{Primary: filter.YearCriteria(filterType, f.year, f.search)}
	case hasInterval:
		start, end, err := parseInterval(f.start, f.end)
		if err != nil {
			return converter.Selection{}, err
		}
		request = filter.Request{Primary: filter.IntervalCriteria(filterType, start, end, f.search)}
		if hasCompareInterval {
			compareStart, compareEnd, err := parseInterval(f.compareStart, f.compareEnd)
			if err != nil {
				return converter.Selection{}, fmt.Errorf("comparison: %w", err)
			}
			comparison := filter.IntervalCriteria(filterType, compareStart, compareEnd, f.search)
			request.Comparison = &comparison
		}
	default:
		return converter.Selection{FilterType: filterType, Search: f.search}, nil
	}

	if err := request.Validate(); err != nil {
		return converter.Selection{}, err
	}
	return converter.Selection{Request: &request, FilterType: filterType, Search: f.search}, nil
}

func parseInterval(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("an interval needs both start and end")
	}
	from, err := parseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// parseDay accepts ISO dates and the dotted German form of the export.
func parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.DateOnly, "02.01.2006", "2.1.2006"} {
		if day, err := time.Parse(layout, value); err == nil {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
