package xenon

import "github.com/lestrrat-go/option"

type Option = option.Interface

type identAutopadComments struct{}
type identCDATAAsCharacters struct{}
type identDocumentDeclaration struct{}
type identElementNamesStack struct{}
type identEncoding struct{}
type identIndent struct{}
type identIndentString struct{}
type identLineSeparator struct{}
type identNormalizeEmptyElements struct{}
type identStripWhitespace struct{}

// EmitterOption configures an Emitter. Every EmitterOption is also a
// WriterOption, since a Writer owns the emitter that does its work.
type EmitterOption interface {
	Option
	emitterOption()
	writerOption()
}

type emitterOption struct{ Option }

func (*emitterOption) emitterOption() {}
func (*emitterOption) writerOption()  {}

type WriterOption interface {
	Option
	writerOption()
}

type writerOption struct{ Option }

func (*writerOption) writerOption() {}

type ScannerOption interface {
	Option
	scannerOption()
}

type scannerOption struct{ Option }

func (*scannerOption) scannerOption() {}

// WithAutopadComments specifies whether comment bodies are padded with
// single spaces when they do not already start and end with whitespace
func WithAutopadComments(v bool) EmitterOption {
	return &emitterOption{option.New(identAutopadComments{}, v)}
}

// WithCDATAAsCharacters specifies whether CDATA events are rewritten as
// escaped character data instead of CDATA sections
func WithCDATAAsCharacters(v bool) EmitterOption {
	return &emitterOption{option.New(identCDATAAsCharacters{}, v)}
}

// WithDocumentDeclaration specifies whether a default document
// declaration is emitted before the first markup when the caller did
// not emit one
func WithDocumentDeclaration(v bool) EmitterOption {
	return &emitterOption{option.New(identDocumentDeclaration{}, v)}
}

// WithElementNamesStack specifies whether open element names are
// remembered so end events may omit the name
func WithElementNamesStack(v bool) EmitterOption {
	return &emitterOption{option.New(identElementNamesStack{}, v)}
}

// WithEncoding specifies the character encoding the output is
// transcoded to
func WithEncoding(v string) WriterOption {
	return &writerOption{option.New(identEncoding{}, v)}
}

// WithIndent specifies whether the output is pretty-printed
func WithIndent(v bool) EmitterOption {
	return &emitterOption{option.New(identIndent{}, v)}
}

// WithIndentString specifies the string written once per nesting level
// when indenting
func WithIndentString(v string) EmitterOption {
	return &emitterOption{option.New(identIndentString{}, v)}
}

// WithLineSeparator specifies the line separator used when indenting
func WithLineSeparator(v string) EmitterOption {
	return &emitterOption{option.New(identLineSeparator{}, v)}
}

// WithNormalizeEmptyElements specifies whether empty element events are
// written as <x/> instead of <x></x>
func WithNormalizeEmptyElements(v bool) EmitterOption {
	return &emitterOption{option.New(identNormalizeEmptyElements{}, v)}
}

// WithStripWhitespace specifies whether the scanner drops whitespace
// events that occur between markup
func WithStripWhitespace(v bool) ScannerOption {
	return &scannerOption{option.New(identStripWhitespace{}, v)}
}
