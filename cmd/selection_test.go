package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/config"
	"github.com/ginjaninja78/booking-analytics/internal/filter"
)

func TestSelection_Default(t *testing.T) {
	flags := selectionFlags{filterType: "booking", search: "möwe"}

	selection, err := flags.selection()
	require.NoError(t, err)
	assert.Nil(t, selection.Request)
	assert.Equal(t, booking.FilterByBooking, selection.FilterType)
	assert.Equal(t, "möwe", selection.Search)
}

func TestSelection_YearOverYear(t *testing.T) {
	flags := selectionFlags{filterType: "arrival", year: 2024, compareYear: 2023}

	selection, err := flags.selection()
	require.NoError(t, err)
	require.NotNil(t, selection.Request)
	assert.Equal(t, filter.Year, selection.Request.Primary.Mode)
	assert.Equal(t, 2024, selection.Request.Primary.Year)
	require.NotNil(t, selection.Request.Comparison)
	assert.Equal(t, 2023, selection.Request.Comparison.Year)
}

func TestSelection_Intervals(t *testing.T) {
	flags := selectionFlags{
		filterType:   "arrival",
		start:        "2024-06-01",
		end:          "30.06.2024",
		compareStart: "1.6.2023",
		compareEnd:   "2023-06-30",
		search:       "haus",
	}

	selection, err := flags.selection()
	require.NoError(t, err)
	request := selection.Request
	require.NotNil(t, request)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), request.Primary.Start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), request.Primary.End)
	require.NotNil(t, request.Comparison)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), request.Comparison.Start)
	assert.Equal(t, "haus", request.Comparison.Search)
}

func TestSelection_Errors(t *testing.T) {
	cases := map[string]selectionFlags{
		"unknown filter type":       {filterType: "stay"},
		"year with interval":        {filterType: "arrival", year: 2024, start: "2024-01-01", end: "2024-01-31"},
		"compare year without year": {filterType: "arrival", compareYear: 2023},
		"compare range alone":       {filterType: "arrival", compareStart: "2023-01-01", compareEnd: "2023-01-31"},
		"half interval":             {filterType: "arrival", start: "2024-01-01"},
		"malformed date":            {filterType: "arrival", start: "June", end: "2024-01-31"},
		"reversed interval":         {filterType: "arrival", start: "2024-02-01", end: "2024-01-01"},
	}

	for name, flags := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := flags.selection()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := newLogger(config.LoggingSettings{Level: "warning", Format: "json"}, false, &buffer)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "warn", entry["level"])

	buffer.Reset()
	logger, err = newLogger(config.LoggingSettings{Level: "error", Format: "json"}, true, &buffer)
	require.NoError(t, err)
	logger.Debug().Msg("debug")
	assert.Contains(t, buffer.String(), `"level":"debug"`)

	_, err = newLogger(config.LoggingSettings{Level: "loud"}, false, &buffer)
	assert.Error(t, err)
}
