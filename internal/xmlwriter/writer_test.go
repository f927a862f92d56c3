package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

func TestGenerateBookings(t *testing.T) {
	bookings := []booking.Booking{
		{BookingCode: "B-1", Accommodation: "Haus <Möwe> & Co", Revenue: 120},
		{BookingCode: "B-2", ArrivalDate: "2024-06-01"},
	}
	options := DefaultGenerateOptions()
	options.RootAttributes["source"] = "export.csv"

	out := string(GenerateBookings(bookings, options))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<bookings count="2" source="export.csv">`)
	assert.Contains(t, out, `  <booking n="1">`)
	assert.Contains(t, out, `  <booking n="2">`)
	assert.Contains(t, out, `    <accommodation>Haus &lt;Möwe&gt; &amp; Co</accommodation>`)
	assert.Contains(t, out, `    <revenue>120.00</revenue>`)
	assert.Contains(t, out, `    <booking_source/>`)

	var parsed struct {
		Count   int `xml:"count,attr"`
		Records []struct {
			N           int    `xml:"n,attr"`
			BookingCode string `xml:"booking_code"`
			ArrivalDate string `xml:"arrival_date"`
		} `xml:"booking"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, 2, parsed.Count)
	require.Len(t, parsed.Records, 2)
	assert.Equal(t, 2, parsed.Records[1].N)
	assert.Equal(t, "2024-06-01", parsed.Records[1].ArrivalDate)
}

func TestGenerateBookings_Empty(t *testing.T) {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false

	assert.Equal(t, "<bookings count=\"0\"/>\n", string(GenerateBookings(nil, options)))
}

func TestGenerate(t *testing.T) {
	type point struct {
		Period string `xml:"Period"`
	}
	type doc struct {
		XMLName xml.Name `xml:"report"`
		Points  []point  `xml:"Series>Point"`
	}

	out, err := Generate(doc{Points: []point{{"2024-01"}, {"2024-02"}}}, DefaultGenerateOptions())
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<report>
  <Series>
    <Point>
      <Period>2024-01</Period>
    </Point>
    <Point>
      <Period>2024-02</Period>
    </Point>
  </Series>
</report>
`
	assert.Equal(t, expected, string(out))
}

func TestGenerate_Unsupported(t *testing.T) {
	_, err := Generate(map[string]int{"a": 1}, DefaultGenerateOptions())
	assert.Error(t, err)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a&amp;b&lt;c&gt;&quot;&apos;", escapeXML(`a&b<c>"'`))
}
