package xenon

import (
	"io"

	"github.com/lestrrat-go/xenon/encoding"
	"github.com/lestrrat-go/xenon/internal/debug"
	"github.com/pkg/errors"
)

// Writer drives an Emitter against a sink fixed at construction. Apart
// from holding the sink it adds output transcoding: with WithEncoding
// the XML text is converted from UTF-8 to the requested charset, runes
// the charset cannot represent become numeric character references, and
// the declaration advertises the same label.
type Writer struct {
	out     io.Writer
	emitter *Emitter
	encname string
}

func NewWriter(w io.Writer, options ...WriterOption) (*Writer, error) {
	var encname string
	var eopts []EmitterOption
	for _, option := range options {
		if eo, ok := option.(EmitterOption); ok {
			eopts = append(eopts, eo)
			continue
		}
		switch option.Ident() {
		case identEncoding{}:
			encname = option.Value().(string)
		}
	}

	emitter := NewEmitter(eopts...)

	out := w
	if encname != "" {
		ew, err := encoding.NewWriter(w, encname)
		if err != nil {
			return nil, errors.Wrap(err, `failed to create encoded writer`)
		}
		out = ew
		emitter.declEncoding = encname
	}

	return &Writer{
		out:     out,
		emitter: emitter,
		encname: encname,
	}, nil
}

// StartDocument writes the document declaration. An empty encoding
// falls back to the writer's output encoding, then to utf-8.
func (w *Writer) StartDocument(version Version, encoding string, standalone DocumentStandaloneType) error {
	if encoding == "" {
		encoding = w.encname
	}
	return w.emitter.EmitStartDocument(w.out, version, encoding, standalone)
}

func (w *Writer) ProcessingInstruction(target, data string) error {
	return w.emitter.EmitProcessingInstruction(w.out, target, data)
}

func (w *Writer) StartElement(el StartElement) error {
	return w.emitter.EmitStartElement(w.out, el)
}

func (w *Writer) EmptyElement(el EmptyElement) error {
	return w.emitter.EmitEmptyElement(w.out, el)
}

func (w *Writer) EndElement(name ...Name) error {
	return w.emitter.EmitEndElement(w.out, name...)
}

func (w *Writer) Characters(s string) error {
	return w.emitter.EmitCharacters(w.out, s)
}

func (w *Writer) CDATA(s string) error {
	return w.emitter.EmitCDATA(w.out, s)
}

func (w *Writer) Comment(s string) error {
	return w.emitter.EmitComment(w.out, s)
}

func (w *Writer) Whitespace(s string) error {
	return w.emitter.EmitWhitespace(w.out, s)
}

// WriteEvent dispatches ev to the corresponding typed method.
func (w *Writer) WriteEvent(ev Event) error {
	if debug.Enabled {
		debug.Printf("writer.WriteEvent: %s", ev.Type())
	}
	switch ev := ev.(type) {
	case StartDocument:
		return w.StartDocument(ev.Version, ev.Encoding, ev.Standalone)
	case ProcessingInstruction:
		return w.ProcessingInstruction(ev.Target, ev.Data)
	case StartElement:
		return w.StartElement(ev)
	case EmptyElement:
		return w.EmptyElement(ev)
	case EndElement:
		if ev.Name == (Name{}) {
			return w.EndElement()
		}
		return w.EndElement(ev.Name)
	case Characters:
		return w.Characters(string(ev))
	case CDATA:
		return w.CDATA(string(ev))
	case Comment:
		return w.Comment(string(ev))
	case Whitespace:
		return w.Whitespace(string(ev))
	}
	return errors.Errorf(`invalid event %T`, ev)
}

// Close writes end tags for every element still open and flushes the
// output encoder, if any. The sink itself stays open. Closing a writer
// whose element names stack is disabled fails while elements are open,
// since there is nothing to synthesize the names from.
func (w *Writer) Close() error {
	if debug.Enabled && w.emitter.Depth() > 0 {
		debug.Printf("writer.Close: synthesizing %d end elements", w.emitter.Depth())
	}
	for w.emitter.Depth() > 0 {
		if err := w.emitter.EmitEndElement(w.out); err != nil {
			return err
		}
	}
	if c, ok := w.out.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errors.Wrap(err, `failed to flush encoded writer`)
		}
	}
	return nil
}

// Depth reports the number of currently open elements.
func (w *Writer) Depth() int {
	return w.emitter.Depth()
}

// NamespaceStack exposes the bindings currently in scope.
func (w *Writer) NamespaceStack() *NamespaceStack {
	return w.emitter.NamespaceStack()
}
