package xenon

import (
	"errors"
	"fmt"
)

var (
	ErrAttributeRedefined           = errors.New("attribute redefined")
	ErrCDATAEndInContent            = errors.New("']]>' not allowed in CDATA content")
	ErrCDATANotFinished             = errors.New("invalid CDATA section (premature end)")
	ErrCommentNotFinished           = errors.New("comment not finished")
	ErrDocTypeNotSupported          = errors.New("document type declarations are not supported")
	ErrDocumentEnd                  = errors.New("extra content at document end")
	ErrDocumentStartAlreadyEmitted  = errors.New("document start is already emitted")
	ErrEmptyDocument                = errors.New("start tag expected, '<' not found")
	ErrEntityNotFound               = errors.New("entity not found")
	ErrEqualSignRequired            = errors.New("'=' was required here")
	ErrGtRequired                   = errors.New("'>' was required here")
	ErrHyphenAtCommentEnd           = errors.New("comment may not end with '-'")
	ErrHyphenInComment              = errors.New("'--' not allowed in comment")
	ErrInvalidChar                  = errors.New("invalid char")
	ErrInvalidEncodingName          = errors.New("invalid encoding name")
	ErrInvalidProcessingInstruction = errors.New("invalid processing instruction")
	ErrInvalidVersionNum            = errors.New("invalid version")
	ErrInvalidWhitespace            = errors.New("whitespace event may only contain whitespace characters")
	ErrInvalidXMLDecl               = errors.New("invalid XML declaration")
	ErrLtInAttribute                = errors.New("'<' not allowed in attribute value")
	ErrLtSlashRequired              = errors.New("'</' is required")
	ErrMisplacedCDATAEnd            = errors.New("misplaced CDATA end ']]>'")
	ErrNameRequired                 = errors.New("name is required")
	ErrPIEndInData                  = errors.New("'?>' not allowed in processing instruction data")
	ErrPrematureEOF                 = errors.New("end of document reached")
	ErrReservedPITarget             = errors.New("processing instruction target may not be 'xml'")
	ErrSemicolonRequired            = errors.New("';' is required")
	ErrSpaceRequired                = errors.New("space required")
	ErrUndeclaredPrefix             = errors.New("undeclared namespace prefix")
	ErrValueRequired                = errors.New("value required")
)

// ErrUnexpectedEvent is returned when an event arrives in a document
// state that does not allow it. The event is not written, and the
// emitter state is exactly what it was before the call.
type ErrUnexpectedEvent struct {
	Event EventType
	State string
}

func (e ErrUnexpectedEvent) Error() string {
	return fmt.Sprintf("unexpected %s event %s", e.Event, e.State)
}

// ErrInvalidName is returned when an element, attribute, or processing
// instruction name does not satisfy the XML name rules.
type ErrInvalidName struct {
	Name string
}

func (e ErrInvalidName) Error() string {
	return "invalid xml name '" + e.Name + "'"
}

// ErrEndElementMismatch is returned when the name passed to an
// end element event does not match the element that is currently open.
type ErrEndElementMismatch struct {
	Expected Name
	Got      Name
}

func (e ErrEndElementMismatch) Error() string {
	return "closing tag does not match ('" + e.Expected.String() + "' != '" + e.Got.String() + "')"
}

// ErrParseError decorates a scanner error with the position the scanner
// had reached when it occurred.
type ErrParseError struct {
	Column     int
	Err        error
	Location   int
	Line       string
	LineNumber int
}

func (e ErrParseError) Error() string {
	return fmt.Sprintf(
		"%s at line %d, column %d\n -> '%s' <-- around here",
		e.Err,
		e.LineNumber,
		e.Column,
		e.Line,
	)
}

func (e ErrParseError) Unwrap() error {
	return e.Err
}
