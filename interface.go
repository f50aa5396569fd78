package xenon

// Namespace URIs that every document has in scope, bound to the xml and
// xmlns prefixes. They can be used but never redeclared.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// DefaultEncoding is the encoding label used in the document declaration
// when the caller does not specify one.
const DefaultEncoding = "utf-8"

// Version is the XML version advertised in the document declaration.
type Version string

const (
	Version10 Version = "1.0"
	Version11 Version = "1.1"
)

type DocumentStandaloneType int

const (
	StandaloneInvalidValue DocumentStandaloneType = -99
	StandaloneExplicitYes  DocumentStandaloneType = 1
	StandaloneExplicitNo   DocumentStandaloneType = 0
	StandaloneNoXMLDecl    DocumentStandaloneType = -1
	StandaloneImplicitNo   DocumentStandaloneType = -2
)

// docState tracks how far along the document is, which in turn decides
// which events are currently allowed.
type docState int

const (
	stateBeforeDocument docState = iota
	stateInProlog
	stateInElement
	stateAfterDocument
)

func (s docState) String() string {
	switch s {
	case stateBeforeDocument:
		return "before document start"
	case stateInProlog:
		return "in prolog"
	case stateInElement:
		return "in element content"
	case stateAfterDocument:
		return "after document end"
	}
	return "unknown"
}
