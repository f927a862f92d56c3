// =============================================================================
// Booking Analytics - Row Mapper
// =============================================================================
//
// This module maps one header-keyed export row onto one canonical booking
// record. It is the boundary between the messy export and everything
// downstream: nothing after this point looks at raw cell text.
//
// MAPPING STEPS (per row):
//   1. Resolve header aliases (see headers.go)
//   2. Apply the admission rule: a row with neither a booking code nor an
//      arrival date is not a booking and is skipped
//   3. Normalize every field (dates, currency, integers, percentages)
//   4. Compute derived fields:
//        - isCancelled       : revenue < 0
//        - phoneBooking      : exact voucher code match
//        - children          : commas in the children's ages field + 1
//        - commissionPercent : input value, or commission / revenue * 100
//        - nights            : departure - arrival, raw value as fallback
//
// FAULT ISOLATION:
//   A row is mapped inside its own recover boundary. Whatever goes wrong in
//   one row turns into a Skipped result for that row; the batch continues.
//
// =============================================================================

package mapper

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
	"github.com/ginjaninja78/booking-analytics/internal/normalize"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Status tells a mapped row from a skipped one.
type Status int

const (
	// Mapped means Result.Booking holds a canonical record.
	Mapped Status = iota

	// Skipped means the row was discarded; Result.Reason says why.
	Skipped
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Mapped:
		return "mapped"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Skip reasons.
const (
	ReasonNoIdentity = "neither booking code nor arrival date present"
	ReasonEmptyRow   = "row is empty"
)

// Result is the outcome of mapping one row.
type Result struct {
	// Booking is valid only when Status is Mapped.
	Booking booking.Booking

	// Status is Mapped or Skipped.
	Status Status

	// Reason explains a skip. Empty for mapped rows.
	Reason string

	// RowNumber is the source line of the row when the caller knows it,
	// otherwise its 1-based position among the mapped rows.
	RowNumber int
}

// OK reports whether the row produced a record.
func (r Result) OK() bool {
	return r.Status == Mapped
}

// =============================================================================
// MAPPER
// =============================================================================

// Options holds the business parameters the mapper needs.
type Options struct {
	// UnspecifiedLabel replaces a blank apartment type.
	UnspecifiedLabel string

	// PhoneCodes maps exact voucher codes to staff names.
	PhoneCodes map[string]string
}

// DefaultOptions returns the parameters of the standard export.
func DefaultOptions() Options {
	return Options{
		UnspecifiedLabel: "ABC",
		PhoneCodes: map[string]string{
			"T Ma": "Marquardt",
			"T Ro": "Rohde",
		},
	}
}

// Mapper converts raw rows into canonical bookings.
type Mapper struct {
	options Options
	logger  zerolog.Logger

	// buildRecord normalizes an admitted row; replaceable in tests.
	buildRecord func(row map[string]string) booking.Booking
}

// New creates a Mapper. A zero-value logger is fine; pass zerolog.Nop() to
// silence it explicitly.
func New(options Options, logger zerolog.Logger) *Mapper {
	if options.UnspecifiedLabel == "" {
		options.UnspecifiedLabel = DefaultOptions().UnspecifiedLabel
	}
	if options.PhoneCodes == nil {
		options.PhoneCodes = DefaultOptions().PhoneCodes
	}
	m := &Mapper{
		options: options,
		logger:  logger,
	}
	m.buildRecord = m.build
	return m
}

// =============================================================================
// MAPPING FUNCTIONS
// =============================================================================

// Map maps one row. Header aliases in the row keys are resolved first, so
// callers may pass rows with raw export headers.
//
// PARAMETERS:
//   - row: Header-keyed raw cell values.
//
// RETURNS:
//   - A Result that is either Mapped (with a Booking) or Skipped (with a
//     Reason). Map never panics.
func (m *Mapper) Map(row map[string]string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn().Interface("panic", r).Msg("row mapping failed, row skipped")
			result = Result{Status: Skipped, Reason: fmt.Sprintf("mapping failed: %v", r)}
		}
	}()

	if row == nil || isRowEmpty(row) {
		return Result{Status: Skipped, Reason: ReasonEmptyRow}
	}

	row = CanonicalRow(row)

	bookingCode := cell(row, HeaderBookingCode)
	arrivalRaw := cell(row, HeaderArrivalDate)
	if bookingCode == "" && arrivalRaw == "" {
		return Result{Status: Skipped, Reason: ReasonNoIdentity}
	}

	return Result{Booking: m.buildRecord(row), Status: Mapped}
}

// MapAll maps every row and keeps the successes in input order.
//
// PARAMETERS:
//   - rows: Header-keyed rows.
//   - lines: The source line of each row. Nil numbers the rows from 1.
//
// RETURNS:
//   - The mapped bookings, in row order.
//   - One Result per input row, with RowNumber set.
func (m *Mapper) MapAll(rows []map[string]string, lines []int) ([]booking.Booking, []Result) {
	bookings := make([]booking.Booking, 0, len(rows))
	results := make([]Result, len(rows))

	for i, row := range rows {
		result := m.Map(row)
		result.RowNumber = i + 1
		if i < len(lines) {
			result.RowNumber = lines[i]
		}
		results[i] = result

		if !result.OK() {
			m.logger.Debug().Int("row", result.RowNumber).Str("reason", result.Reason).Msg("row skipped")
			continue
		}
		bookings = append(bookings, result.Booking)
	}

	return bookings, results
}

// build normalizes the fields of an admitted row.
func (m *Mapper) build(row map[string]string) booking.Booking {
	revenue := normalize.Currency(cell(row, HeaderRevenue))
	commission := normalize.Currency(cell(row, HeaderCommission))

	b := booking.Booking{
		BookingCode:   cell(row, HeaderBookingCode),
		ArrivalDate:   normalize.Date(cell(row, HeaderArrivalDate)),
		DepartureDate: normalize.Date(cell(row, HeaderDepartureDate)),
		BookingDate:   normalize.Date(cell(row, HeaderBookingDate)),
		BookingTime:   cell(row, HeaderBookingTime),
		Accommodation: cell(row, HeaderAccommodation),
		ApartmentType: cell(row, HeaderApartmentType),
		Revenue:       revenue,
		Commission:    commission,
		CustomerZip:   cell(row, HeaderCustomerZip),
		CustomerCity:  cell(row, HeaderCustomerCity),
		Adults:        nonNegative(normalize.Integer(cell(row, HeaderAdults))),
		Children:      countChildren(cell(row, HeaderChildrenAges)),
		Pets:          nonNegative(normalize.Integer(cell(row, HeaderPets))),
		BookingSource: cell(row, HeaderBookingSource),
		IsCancelled:   revenue < 0,
		PhoneBooking:  m.phoneBooking(cell(row, HeaderVoucherCode)),
	}

	if b.ApartmentType == "" {
		b.ApartmentType = m.options.UnspecifiedLabel
	}

	b.CommissionPercent = commissionPercent(cell(row, HeaderCommissionPercent), revenue, commission)

	// Dates win over the stored value; the stored value covers rows whose
	// dates are unusable.
	if b.HasStayDates() {
		b.Nights = b.StayNights()
	} else {
		b.Nights = nonNegative(normalize.Integer(cell(row, HeaderNights)))
	}

	return b
}

// =============================================================================
// DERIVED FIELDS
// =============================================================================

// phoneBooking maps a voucher code to a staff name. Only exact matches count.
func (m *Mapper) phoneBooking(voucherCode string) string {
	if voucherCode == "" {
		return ""
	}
	return m.options.PhoneCodes[voucherCode]
}

// countChildren derives the number of children from the ages field.
//
// EXAMPLE:
//
//	"5,7,9" -> 3
//	"4"     -> 1
//	""      -> 0
func countChildren(ages string) int {
	if ages == "" {
		return 0
	}
	return strings.Count(ages, ",") + 1
}

// commissionPercent takes the explicit percent cell when present. Otherwise it
// is derived from commission and revenue when both are positive.
func commissionPercent(raw string, revenue, commission float64) float64 {
	if raw != "" {
		return normalize.Round2(normalize.Percent(raw))
	}
	if commission > 0 && revenue > 0 {
		return normalize.Round2(commission / revenue * 100)
	}
	return 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cell returns the trimmed value of a column, "" when absent.
func cell(row map[string]string, header string) string {
	return strings.TrimSpace(row[header])
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// isRowEmpty checks if all values in a row are empty.
func isRowEmpty(row map[string]string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
