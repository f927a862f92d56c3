// =============================================================================
// Booking Analytics - Text Decoding
// =============================================================================
//
// Turns the raw export bytes into text before they are split into rows.
//
// =============================================================================

package csvparser

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedEncoding is returned for an encoding name Decode does not know.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// DecodeError reports that the raw bytes could not be turned into text.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s input: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode converts the raw export bytes to text.
//
// SUPPORTED ENCODINGS:
//   - "UTF-16LE" (default export format, BOM optional and stripped)
//   - "UTF-8"    (BOM optional and stripped)
//   - "Windows-1252"
//
// RETURNS:
//   - The decoded text.
//   - A *DecodeError if the encoding is unknown or the bytes are not valid
//     for it. A UTF-16 buffer with an odd byte count is invalid.
func Decode(data []byte, encodingName string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(encodingName))

	var decoder *encoding.Decoder
	switch name {
	case "", "UTF-16LE", "UTF16LE", "UTF-16":
		name = "UTF-16LE"
		if len(data)%2 != 0 {
			return "", &DecodeError{Encoding: name, Err: fmt.Errorf("odd byte count %d", len(data))}
		}
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "UTF-8", "UTF8":
		decoder = unicode.UTF8BOM.NewDecoder()
	case "WINDOWS-1252", "CP1252", "LATIN1", "ISO-8859-1":
		decoder = charmap.Windows1252.NewDecoder()
	default:
		return "", &DecodeError{Encoding: encodingName, Err: ErrUnsupportedEncoding}
	}

	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", &DecodeError{Encoding: name, Err: err}
	}

	return strings.TrimPrefix(string(decoded), "\ufeff"), nil
}
