package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStayNights(t *testing.T) {
	tests := []struct {
		name    string
		booking Booking
		want    int
	}{
		{
			name:    "ignores conflicting stored nights",
			booking: Booking{ArrivalDate: "2024-06-01", DepartureDate: "2024-06-04", Nights: 7},
			want:    3,
		},
		{
			name:    "departure before arrival floors at zero",
			booking: Booking{ArrivalDate: "2024-06-04", DepartureDate: "2024-06-01"},
			want:    0,
		},
		{
			name:    "missing departure",
			booking: Booking{ArrivalDate: "2024-06-04", Nights: 2},
			want:    0,
		},
		{
			name:    "across dst change",
			booking: Booking{ArrivalDate: "2024-03-30", DepartureDate: "2024-04-02"},
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.StayNights())
		})
	}
}

func TestDateFor(t *testing.T) {
	b := Booking{ArrivalDate: "2024-07-10", BookingDate: "2024-01-02"}

	arrival, ok := b.DateFor(FilterByArrival)
	assert.True(t, ok)
	assert.Equal(t, time.July, arrival.Month())

	booked, ok := b.DateFor(FilterByBooking)
	assert.True(t, ok)
	assert.Equal(t, time.January, booked.Month())

	_, ok = Booking{}.DateFor(FilterByBooking)
	assert.False(t, ok)
}

func TestSourceKey(t *testing.T) {
	assert.Equal(t, "ABC", Booking{BookingSource: "   "}.SourceKey("ABC"))
	assert.Equal(t, "ABC", Booking{}.SourceKey("ABC"))
	assert.Equal(t, "Airbnb", Booking{BookingSource: " Airbnb "}.SourceKey("ABC"))
}

func TestParseFilterType(t *testing.T) {
	ft, ok := ParseFilterType("Arrival")
	assert.True(t, ok)
	assert.Equal(t, FilterByArrival, ft)

	ft, ok = ParseFilterType("booking")
	assert.True(t, ok)
	assert.Equal(t, FilterByBooking, ft)

	_, ok = ParseFilterType("departure")
	assert.False(t, ok)
}

func TestValues(t *testing.T) {
	b := Booking{
		BookingCode:   "B-1",
		ArrivalDate:   "2024-06-01",
		Revenue:       1234.5,
		Commission:    -0.1,
		Adults:        2,
		IsCancelled:   true,
		BookingSource: "Airbnb",
	}

	values := b.Values()
	names := ColumnNames()
	assert.Len(t, values, len(names))

	byName := make(map[string]string, len(names))
	for i, name := range names {
		byName[name] = values[i]
	}
	assert.Equal(t, "B-1", byName["booking_code"])
	assert.Equal(t, "2024-06-01", byName["arrival_date"])
	assert.Equal(t, "1234.50", byName["revenue"])
	assert.Equal(t, "-0.10", byName["commission"])
	assert.Equal(t, "0.00", byName["commission_percent"])
	assert.Equal(t, "2", byName["adults"])
	assert.Equal(t, "true", byName["is_cancelled"])
	assert.Equal(t, "", byName["departure_date"])
}
