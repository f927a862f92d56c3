package mapper

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

func newTestMapper() *Mapper {
	return New(DefaultOptions(), zerolog.Nop())
}

func fullRow() map[string]string {
	return map[string]string{
		"Buchungsnummer":      "B-1001",
		"Buchungsdatum":       "15.01.2024",
		"Uhrzeit der Buchung": "9:41:00",
		"Anreisedatum":        "01.06.2024",
		"Abreisedatum":        "04.06.2024",
		"Objekt":              " Haus Seeblick ",
		"Wohnung":             "Apartment 2",
		"Gesamtpreis":         "1.234,56 €",
		"Provision":           "123,46 €",
		"Nächte":              "7",
		"PLZ Kunde":           "20095",
		"Ort Kunde":           "Hamburg",
		"Erwachsene":          "2",
		"Alter der Kinder":    "5,7,9",
		"Haustiere":           "1",
		"Buchung über":        "Booking.com",
		"Gutscheincode":       " T Ma ",
	}
}

func TestMap_FullRow(t *testing.T) {
	result := newTestMapper().Map(fullRow())
	require.True(t, result.OK())

	b := result.Booking
	assert.Equal(t, "B-1001", b.BookingCode)
	assert.Equal(t, "2024-01-15", b.BookingDate)
	assert.Equal(t, "2024-06-01", b.ArrivalDate)
	assert.Equal(t, "2024-06-04", b.DepartureDate)
	assert.Equal(t, "9:41:00", b.BookingTime)
	assert.Equal(t, "Haus Seeblick", b.Accommodation)
	assert.InDelta(t, 1234.56, b.Revenue, 1e-9)
	assert.InDelta(t, 123.46, b.Commission, 1e-9)
	assert.Equal(t, 10.0, b.CommissionPercent)
	assert.Equal(t, 3, b.Nights, "dates win over the stored nights value")
	assert.Equal(t, 2, b.Adults)
	assert.Equal(t, 3, b.Children)
	assert.Equal(t, 1, b.Pets)
	assert.Equal(t, "Booking.com", b.BookingSource)
	assert.Equal(t, "Marquardt", b.PhoneBooking)
	assert.False(t, b.IsCancelled)
}

func TestMap_AdmissionRule(t *testing.T) {
	m := newTestMapper()

	result := m.Map(map[string]string{"Objekt": "Haus Seeblick", "Gesamtpreis": "100"})
	assert.Equal(t, Skipped, result.Status)
	assert.Equal(t, ReasonNoIdentity, result.Reason)

	result = m.Map(map[string]string{"Buchungsnummer": "B-1"})
	assert.True(t, result.OK(), "a booking code alone is enough")

	result = m.Map(map[string]string{"Anreisedatum": "01.06.2024"})
	assert.True(t, result.OK(), "an arrival date alone is enough")

	result = m.Map(map[string]string{"Buchungsnummer": "  ", "Anreisedatum": ""})
	assert.Equal(t, Skipped, result.Status)

	result = m.Map(nil)
	assert.Equal(t, Skipped, result.Status)
}

func TestMap_IsCancelled(t *testing.T) {
	tests := []struct {
		revenue string
		want    bool
	}{
		{"-250,00 €", true},
		{"0,00 €", false},
		{"", false},
		{"12,00", false},
	}

	m := newTestMapper()
	for _, tt := range tests {
		result := m.Map(map[string]string{"Buchungsnummer": "B", "Gesamtpreis": tt.revenue})
		require.True(t, result.OK())
		assert.Equal(t, tt.want, result.Booking.IsCancelled, "revenue %q", tt.revenue)
	}
}

func TestMap_Children(t *testing.T) {
	tests := []struct {
		ages string
		want int
	}{
		{"5,7,9", 3},
		{"4", 1},
		{"", 0},
		{"   ", 0},
		{"3,", 2},
	}

	m := newTestMapper()
	for _, tt := range tests {
		result := m.Map(map[string]string{"Buchungsnummer": "B", "Alter der Kinder": tt.ages})
		require.True(t, result.OK())
		assert.Equal(t, tt.want, result.Booking.Children, "ages %q", tt.ages)
	}
}

func TestMap_CommissionPercent(t *testing.T) {
	m := newTestMapper()

	explicit := m.Map(map[string]string{"Buchungsnummer": "B", "Provision in %": "12,345 %", "Gesamtpreis": "100", "Provision": "50"})
	assert.Equal(t, 12.35, explicit.Booking.CommissionPercent)

	derived := m.Map(map[string]string{"Buchungsnummer": "B", "Gesamtpreis": "300,00", "Provision": "100,00"})
	assert.Equal(t, 33.33, derived.Booking.CommissionPercent)

	cancelled := m.Map(map[string]string{"Buchungsnummer": "B", "Gesamtpreis": "-300,00", "Provision": "100,00"})
	assert.Equal(t, 0.0, cancelled.Booking.CommissionPercent)
}

func TestMap_PhoneBooking(t *testing.T) {
	m := newTestMapper()

	for code, want := range map[string]string{"T Ma": "Marquardt", "T Ro": "Rohde", "T MA": "", "SUMMER24": "", "": ""} {
		result := m.Map(map[string]string{"Buchungsnummer": "B", "Gutscheincode": code})
		assert.Equal(t, want, result.Booking.PhoneBooking, "code %q", code)
	}
}

func TestMap_Defaults(t *testing.T) {
	result := newTestMapper().Map(map[string]string{
		"Buchungsnummer": "B",
		"Erwachsene":     "-2",
		"Haustiere":      "viele",
		"Nächte":         "4",
		"Anreisedatum":   "kaputt",
	})
	require.True(t, result.OK())

	b := result.Booking
	assert.Equal(t, "ABC", b.ApartmentType)
	assert.Equal(t, 0, b.Adults)
	assert.Equal(t, 0, b.Pets)
	assert.Equal(t, "", b.ArrivalDate)
	assert.Equal(t, 4, b.Nights, "stored nights used when dates are unusable")
}

func TestMap_Aliases(t *testing.T) {
	result := newTestMapper().Map(map[string]string{
		"Buchungsnummer":             "B",
		"Datum":                      "02.01.2024",
		"Uhrzeit":                    "10:00:00",
		"Zimmer/Wohnung/Appartement": "Studio",
		"Prozent":                    "15",
		"PLZ":                        "10115",
		"Ort":                        "Berlin",
		"Anzahl Erwachsene":          "3",
		"Kinderalter":                "2,4",
		"Anzahl Haustiere gross":     "2",
		"Extern":                     "Airbnb",
	})
	require.True(t, result.OK())

	b := result.Booking
	assert.Equal(t, "2024-01-02", b.BookingDate)
	assert.Equal(t, "10:00:00", b.BookingTime)
	assert.Equal(t, "Studio", b.ApartmentType)
	assert.Equal(t, 15.0, b.CommissionPercent)
	assert.Equal(t, "10115", b.CustomerZip)
	assert.Equal(t, "Berlin", b.CustomerCity)
	assert.Equal(t, 3, b.Adults)
	assert.Equal(t, 2, b.Children)
	assert.Equal(t, 2, b.Pets)
	assert.Equal(t, "Airbnb", b.BookingSource)
}

func TestCanonicalRow_CanonicalWins(t *testing.T) {
	row := CanonicalRow(map[string]string{
		"Buchungsdatum": "01.01.2024",
		"Datum":         "31.12.2023",
		"Kinderalter":   "1",
		"Alter Kinder":  "1,2",
	})

	assert.Equal(t, "01.01.2024", row["Buchungsdatum"])
	assert.Equal(t, "1,2", row["Alter der Kinder"], "first alias in sort order wins")
	assert.NotContains(t, row, "Datum")
}

func TestCanonicalHeader(t *testing.T) {
	assert.Equal(t, "Buchung über", CanonicalHeader("Extern"))
	assert.Equal(t, "Objekt", CanonicalHeader(" Objekt "))
	assert.Equal(t, "Name", CanonicalHeader("Name"))
}

func TestMapAll_PreservesOrder(t *testing.T) {
	rows := []map[string]string{
		{"Buchungsnummer": "A"},
		{"Objekt": "nothing to identify"},
		{"Buchungsnummer": "B"},
		{},
		{"Buchungsnummer": "C"},
	}

	bookings, results := newTestMapper().MapAll(rows, nil)

	require.Len(t, bookings, 3)
	assert.Equal(t, "A", bookings[0].BookingCode)
	assert.Equal(t, "B", bookings[1].BookingCode)
	assert.Equal(t, "C", bookings[2].BookingCode)

	require.Len(t, results, 5)
	assert.Equal(t, 2, results[1].RowNumber)
	assert.Equal(t, Skipped, results[1].Status)
	assert.Equal(t, ReasonEmptyRow, results[3].Reason)
}

func TestMapAll_SourceLines(t *testing.T) {
	rows := []map[string]string{
		{"Buchungsnummer": "A"},
		{"Objekt": "nothing to identify"},
	}

	_, results := newTestMapper().MapAll(rows, []int{2, 7})

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].RowNumber)
	assert.Equal(t, 7, results[1].RowNumber)
}

func TestMap_RecoversFromPanic(t *testing.T) {
	m := newTestMapper()
	m.buildRecord = func(row map[string]string) booking.Booking {
		if row[HeaderBookingCode] == "boom" {
			panic("unexpected cell")
		}
		return m.build(row)
	}

	bookings, results := m.MapAll([]map[string]string{
		{"Buchungsnummer": "A"},
		{"Buchungsnummer": "boom"},
		{"Buchungsnummer": "C"},
	}, nil)

	require.Len(t, bookings, 2)
	assert.Equal(t, "C", bookings[1].BookingCode)
	assert.Equal(t, Skipped, results[1].Status)
	assert.Contains(t, results[1].Reason, "unexpected cell")
}

func TestKnownHeaders(t *testing.T) {
	headers := KnownHeaders()
	require.Len(t, headers, 18)

	for _, header := range headers {
		assert.Equal(t, header, CanonicalHeader(header), "canonical headers resolve to themselves")
	}
	for alias, canonical := range headerAliases {
		assert.Contains(t, headers, canonical, "alias %q", alias)
	}
}

func TestMap_OversizedAmountsAreCoerced(t *testing.T) {
	huge := strings.Repeat("9", 400) + ",00 €"

	tests := map[string]string{
		"revenue":            "Gesamtpreis",
		"commission":         "Provision",
		"commission percent": "Provision in %",
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			row := fullRow()
			row[header] = huge

			result := newTestMapper().Map(row)
			require.True(t, result.OK(), result.Reason)

			b := result.Booking
			for _, value := range []float64{b.Revenue, b.Commission, b.CommissionPercent} {
				assert.False(t, math.IsInf(value, 0))
				assert.False(t, math.IsNaN(value))
			}
		})
	}
}
