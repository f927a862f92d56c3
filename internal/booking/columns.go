package booking

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EXPORT COLUMNS
// =============================================================================

// Column is one field of a flat record export.
type Column struct {
	// Name is the column header and the XML element name.
	Name string

	// Value renders the field. Amounts have two decimals.
	Value func(Booking) string
}

// Columns lists the exported fields in output order.
var Columns = []Column{
	{"booking_code", func(b Booking) string { return b.BookingCode }},
	{"booking_date", func(b Booking) string { return b.BookingDate }},
	{"booking_time", func(b Booking) string { return b.BookingTime }},
	{"arrival_date", func(b Booking) string { return b.ArrivalDate }},
	{"departure_date", func(b Booking) string { return b.DepartureDate }},
	{"nights", func(b Booking) string { return strconv.Itoa(b.Nights) }},
	{"accommodation", func(b Booking) string { return b.Accommodation }},
	{"apartment_type", func(b Booking) string { return b.ApartmentType }},
	{"revenue", func(b Booking) string { return amount(b.Revenue) }},
	{"commission", func(b Booking) string { return amount(b.Commission) }},
	{"commission_percent", func(b Booking) string { return amount(b.CommissionPercent) }},
	{"customer_zip", func(b Booking) string { return b.CustomerZip }},
	{"customer_city", func(b Booking) string { return b.CustomerCity }},
	{"adults", func(b Booking) string { return strconv.Itoa(b.Adults) }},
	{"children", func(b Booking) string { return strconv.Itoa(b.Children) }},
	{"pets", func(b Booking) string { return strconv.Itoa(b.Pets) }},
	{"booking_source", func(b Booking) string { return b.BookingSource }},
	{"is_cancelled", func(b Booking) string { return strconv.FormatBool(b.IsCancelled) }},
	{"phone_booking", func(b Booking) string { return b.PhoneBooking }},
}

// ColumnNames returns the export header row.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Values renders the record in Columns order.
func (b Booking) Values() []string {
	values := make([]string, len(Columns))
	for i, c := range Columns {
		values[i] = c.Value(b)
	}
	return values
}

func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
