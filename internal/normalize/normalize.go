// =============================================================================
// Booking Analytics - Field Normalizers
// =============================================================================
//
// This package converts the German-locale cell values of a booking export
// into canonical scalars. Every function here is total: malformed input never
// produces an error, it produces the documented default instead.
//
// NORMALIZERS:
//   Date     : "01.06.2024"  -> "2024-06-01"   (malformed -> "")
//   Currency : "1.234,56 €"  -> 1234.56        (malformed -> 0)
//   Integer  : "3"           -> 3              (malformed -> 0)
//   Percent  : "12,5 %"      -> 12.5           (malformed -> 0)
//
// Each normalizer is idempotent: feeding its canonical output back in yields
// the same value.
//
// =============================================================================

package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODateLayout is the canonical date layout of every booking date field.
const ISODateLayout = "2006-01-02"

var (
	// numericChars matches everything that can't be part of a number.
	numericChars = regexp.MustCompile(`[^0-9,.\-]`)

	// numericPrefix mirrors a lenient float parse: the longest leading
	// signed decimal number.
	numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)

	// integerPrefix is the longest leading signed integer.
	integerPrefix = regexp.MustCompile(`^[+-]?\d+`)
)

// =============================================================================
// DATES
// =============================================================================

// Date converts a day-first German date (DD.MM.YYYY) into YYYY-MM-DD.
//
// RETURNS:
//   - The ISO date string, or "" when the input is missing or malformed.
//
// Single-digit days and months ("1.6.2024") are accepted and padded. An input
// that is already a valid ISO date is returned unchanged. Impossible calendar
// dates such as "31.02.2024" are rejected.
func Date(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if _, ok := ParseDate(value); ok {
		return value
	}

	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return ""
	}

	day, errDay := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errMonth := strconv.Atoi(strings.TrimSpace(parts[1]))
	yearText := strings.TrimSpace(parts[2])
	year, errYear := strconv.Atoi(yearText)
	if errDay != nil || errMonth != nil || errYear != nil || len(yearText) != 4 {
		return ""
	}

	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, ok := ParseDate(iso); !ok {
		return ""
	}
	return iso
}

// ParseDate parses a canonical YYYY-MM-DD date.
// The empty string is invalid, never the zero date.
func ParseDate(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ISODateLayout, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// =============================================================================
// NUMBERS
// =============================================================================

// Currency parses a money amount such as "1.234,56 €" or "-89,00".
//
// CLEANING RULES:
//   1. Remove every character outside [0-9,.-]
//   2. If a comma is present, dots are thousands separators and the comma is
//      the decimal separator
//   3. Without a comma, more than one dot means thousands separators
//   4. Parse the longest leading number
//
// The sign is preserved; negative revenue marks a cancellation downstream.
// Amounts too large for a float64 are malformed and yield 0.
func Currency(value string) float64 {
	cleaned := numericChars.ReplaceAllString(value, "")
	if cleaned == "" {
		return 0
	}

	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	prefix := numericPrefix.FindString(cleaned)
	if prefix == "" || prefix == "-" {
		return 0
	}

	amount, err := decimal.NewFromString(prefix)
	if err != nil {
		return 0
	}
	return finite(amount.InexactFloat64())
}

// Percent parses a percentage cell ("12,5 %"). Same rules as Currency.
func Percent(value string) float64 {
	return Currency(value)
}

// Integer parses a base-10 integer, returning 0 on failure or absence.
func Integer(value string) int {
	prefix := integerPrefix.FindString(strings.TrimSpace(value))
	if prefix == "" {
		return 0
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return n
}

// Round2 rounds to two decimal places, half away from zero. Infinities and
// NaN round to 0.
func Round2(value float64) float64 {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// finite maps infinities and NaN to 0.
func finite(value float64) float64 {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0
	}
	return value
}
