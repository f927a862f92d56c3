// =============================================================================
// Booking Analytics - Ingestion Errors
// =============================================================================
//
// The batch-level failures of the pipeline. Callers match them with errors.Is
// against the sentinels and show Message to the user.
//
// =============================================================================

package ingest

import "fmt"

// Kind classifies a batch-level ingestion failure.
type Kind int

const (
	// KindDecode means the bytes could not be decoded or split.
	KindDecode Kind = iota + 1

	// KindEmptyFile means the file holds no data rows.
	KindEmptyFile

	// KindNoValidRows means rows were present but none survived mapping.
	KindNoValidRows
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindEmptyFile:
		return "empty_file"
	case KindNoValidRows:
		return "no_valid_rows"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// User-facing messages, in the language of the export.
const (
	MessageDecode      = "Fehler beim Lesen der Datei"
	MessageEmptyFile   = "Keine Daten in der CSV-Datei gefunden"
	MessageNoValidRows = "Keine gültigen Daten gefunden"
)

// Sentinels for errors.Is.
var (
	ErrDecode      = &Error{Kind: KindDecode, Message: MessageDecode}
	ErrEmptyFile   = &Error{Kind: KindEmptyFile, Message: MessageEmptyFile}
	ErrNoValidRows = &Error{Kind: KindNoValidRows, Message: MessageNoValidRows}
)

// Error is a batch-level ingestion failure. No partial result accompanies it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrDecode) works
// whatever the wrapped cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

func newError(kind Kind, cause error) *Error {
	message := MessageDecode
	switch kind {
	case KindEmptyFile:
		message = MessageEmptyFile
	case KindNoValidRows:
		message = MessageNoValidRows
	}
	return &Error{Kind: kind, Message: message, Err: cause}
}
