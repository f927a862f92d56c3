// =============================================================================
// Booking Analytics - XML Writer Module
// =============================================================================
//
// This module renders XML output. It has two entry points:
//
//   Generate          : any value with xml struct tags (the analytics report)
//   GenerateBookings  : the flat list of canonical booking records
//
// BOOKING EXPORT STRUCTURE:
//
//   <bookings count="2">               <!-- Root element -->
//     <booking n="1">                  <!-- One element per record -->
//       <booking_code>B-1</booking_code>
//       <arrival_date>2024-06-01</arrival_date>
//       <departure_date/>              <!-- Empty fields self-close -->
//     </booking>
//     <booking n="2">
//       ...
//     </booking>
//   </bookings>
//
// Field elements follow booking.Columns, so the XML and CSV exports always
// carry the same fields in the same order.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/ginjaninja78/booking-analytics/internal/booking"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are additional attributes for the root element of the
	// booking export. They are written in key order.
	// Example: {"source": "export.csv"}
	RootAttributes map[string]string

	// RootElement names the root of the booking export.
	// Default: "bookings"
	RootElement string

	// RecordElement names each record of the booking export.
	// Default: "booking"
	RecordElement string

	// IndexAttribute is the attribute holding the 1-based record index.
	// Default: "n"
	IndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootAttributes:        make(map[string]string),
		RootElement:           "bookings",
		RecordElement:         "booking",
		IndexAttribute:        "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate marshals a tagged value as an indented XML document.
//
// PARAMETERS:
//   - doc: The value to marshal. Its xml struct tags define the structure.
//   - options: The generation options. Only the declaration and indent
//     settings apply.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if marshalling fails.
func Generate(doc any, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer
	writeDeclaration(&buffer, options)

	encoder := xml.NewEncoder(&buffer)
	encoder.Indent("", options.Indent)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	buffer.WriteString("\n")

	return buffer.Bytes(), nil
}

// GenerateBookings creates the booking export document.
//
// PARAMETERS:
//   - bookings: The records to export, in output order.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as a byte slice.
//
// GENERATION PROCESS:
//  1. Create the root element with a count attribute
//  2. For each record, create the record element with its index attribute
//  3. Add one child element per export column
//  4. Write the tree with indentation
func GenerateBookings(bookings []booking.Booking, options GenerateOptions) []byte {
	var buffer bytes.Buffer
	writeDeclaration(&buffer, options)

	root := XMLElement{
		XMLName: xml.Name{Local: options.RootElement},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "count"}, Value: fmt.Sprintf("%d", len(bookings))},
		},
	}

	keys := make([]string, 0, len(options.RootAttributes))
	for key := range options.RootAttributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		root.Attributes = append(root.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	for i, b := range bookings {
		root.Children = append(root.Children, buildRecordElement(b, i+1, options))
	}

	writeElement(&buffer, root, options.Indent, 0)
	return buffer.Bytes()
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildRecordElement constructs one record element.
//
// STRUCTURE:
//
//	<booking n="1">
//	  <booking_code>B-1</booking_code>
//	  <revenue>120.00</revenue>
//	</booking>
func buildRecordElement(b booking.Booking, index int, options GenerateOptions) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: options.RecordElement},
		Attributes: []xml.Attr{
			{
				Name:  xml.Name{Local: options.IndexAttribute},
				Value: fmt.Sprintf("%d", index),
			},
		},
	}

	for _, column := range booking.Columns {
		element.Children = append(element.Children, createSimpleElement(column.Name, column.Value(b)))
	}

	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func writeDeclaration(buffer *bytes.Buffer, options GenerateOptions) {
	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
