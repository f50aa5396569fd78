package xenon

// EventType identifies the kind of an Event.
type EventType int

const (
	StartDocumentEvent EventType = iota + 1
	ProcessingInstructionEvent
	StartElementEvent
	EmptyElementEvent
	EndElementEvent
	CharactersEvent
	CDATAEvent
	CommentEvent
	WhitespaceEvent
)

func (t EventType) String() string {
	switch t {
	case StartDocumentEvent:
		return "start document"
	case ProcessingInstructionEvent:
		return "processing instruction"
	case StartElementEvent:
		return "start element"
	case EmptyElementEvent:
		return "empty element"
	case EndElementEvent:
		return "end element"
	case CharactersEvent:
		return "characters"
	case CDATAEvent:
		return "cdata"
	case CommentEvent:
		return "comment"
	case WhitespaceEvent:
		return "whitespace"
	}
	return "unknown"
}

// Event is one step of a document stream, as produced by a Scanner and
// consumed by a Writer.
type Event interface {
	Type() EventType
}

// StartDocument carries the document declaration. Standalone follows
// the usual convention: only StandaloneExplicitYes and
// StandaloneExplicitNo put a standalone attribute on the wire, so pass
// StandaloneImplicitNo (not the zero value) to omit it.
type StartDocument struct {
	Version    Version
	Encoding   string
	Standalone DocumentStandaloneType
}

func (StartDocument) Type() EventType {
	return StartDocumentEvent
}

type ProcessingInstruction struct {
	Target string
	Data   string
}

func (ProcessingInstruction) Type() EventType {
	return ProcessingInstructionEvent
}

// StartElement opens an element. Namespaces holds the prefix bindings
// the event introduces; bindings the enclosing scope already provides
// are not declared again on output.
type StartElement struct {
	Name       Name
	Attributes []Attr
	Namespaces map[string]string
}

func (StartElement) Type() EventType {
	return StartElementEvent
}

// EmptyElement is an element without content, rendered as either <x/>
// or <x></x> depending on configuration.
type EmptyElement struct {
	Name       Name
	Attributes []Attr
	Namespaces map[string]string
}

func (EmptyElement) Type() EventType {
	return EmptyElementEvent
}

// EndElement closes the innermost open element. A zero Name defers to
// the element names stack.
type EndElement struct {
	Name Name
}

func (EndElement) Type() EventType {
	return EndElementEvent
}

type Characters string

func (Characters) Type() EventType {
	return CharactersEvent
}

type CDATA string

func (CDATA) Type() EventType {
	return CDATAEvent
}

type Comment string

func (Comment) Type() EventType {
	return CommentEvent
}

// Whitespace is character data the producer knows to be entirely
// blank. It is written verbatim, without escaping.
type Whitespace string

func (Whitespace) Type() EventType {
	return WhitespaceEvent
}
