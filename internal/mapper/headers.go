// =============================================================================
// Booking Analytics - Header Aliasing
// =============================================================================
//
// Booking exports from different source systems spell the same column in
// different ways. This file holds the static alias table that maps every
// known alternate spelling onto the canonical German header of the export.
//
// The table is applied once per header, at parse time, before any row is
// mapped. To accept a new spelling, add a line to headerAliases; the mapping
// logic in mapper.go does not change.
//
// =============================================================================

package mapper

import (
	"sort"
	"strings"
)

// Canonical header names of the booking export.
const (
	HeaderBookingCode       = "Buchungsnummer"
	HeaderBookingDate       = "Buchungsdatum"
	HeaderBookingTime       = "Uhrzeit der Buchung"
	HeaderArrivalDate       = "Anreisedatum"
	HeaderDepartureDate     = "Abreisedatum"
	HeaderAccommodation     = "Objekt"
	HeaderApartmentType     = "Wohnung"
	HeaderRevenue           = "Gesamtpreis"
	HeaderCommission        = "Provision"
	HeaderCommissionPercent = "Provision in %"
	HeaderNights            = "Nächte"
	HeaderCustomerZip       = "PLZ Kunde"
	HeaderCustomerCity      = "Ort Kunde"
	HeaderAdults            = "Erwachsene"
	HeaderChildrenAges      = "Alter der Kinder"
	HeaderPets              = "Haustiere"
	HeaderBookingSource     = "Buchung über"
	HeaderVoucherCode       = "Gutscheincode"
)

// headerAliases maps alternate header spellings to canonical names.
var headerAliases = map[string]string{
	"Datum":                      HeaderBookingDate,
	"Uhrzeit":                    HeaderBookingTime,
	"Zimmer/Wohnung/Appartement": HeaderApartmentType,
	"Prozent":                    HeaderCommissionPercent,
	"PLZ":                        HeaderCustomerZip,
	"Ort":                        HeaderCustomerCity,
	"Anzahl Erwachsene":          HeaderAdults,
	"Kinderalter":                HeaderChildrenAges,
	"Alter Kinder":               HeaderChildrenAges,
	"Anzahl Haustiere gross":     HeaderPets,
	"Extern":                     HeaderBookingSource,
}

// CanonicalHeader resolves a header to its canonical name. Unknown headers
// are returned trimmed but otherwise unchanged.
func CanonicalHeader(header string) string {
	header = strings.TrimSpace(header)
	if canonical, ok := headerAliases[header]; ok {
		return canonical
	}
	return header
}

// CanonicalRow rewrites the keys of an already-parsed row through
// CanonicalHeader. A canonical key wins over an alias that maps onto it; of
// two aliases for the same column, the one that sorts first wins.
func CanonicalRow(row map[string]string) map[string]string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(row))
	for _, key := range keys {
		if CanonicalHeader(key) == key {
			out[key] = row[key]
		}
	}
	for _, key := range keys {
		canonical := CanonicalHeader(key)
		if _, exists := out[canonical]; !exists {
			out[canonical] = row[key]
		}
	}
	return out
}

// KnownHeaders lists the canonical headers in export order.
func KnownHeaders() []string {
	return []string{
		HeaderBookingCode,
		HeaderBookingDate,
		HeaderBookingTime,
		HeaderArrivalDate,
		HeaderDepartureDate,
		HeaderAccommodation,
		HeaderApartmentType,
		HeaderRevenue,
		HeaderCommission,
		HeaderCommissionPercent,
		HeaderNights,
		HeaderCustomerZip,
		HeaderCustomerCity,
		HeaderAdults,
		HeaderChildrenAges,
		HeaderPets,
		HeaderBookingSource,
		HeaderVoucherCode,
	}
}
