package xenon

import (
	"io"
	"strings"

	pdebug "github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xenon/internal/stack"
	"github.com/pkg/errors"
)

// Emitter is the event-to-text state machine. It owns its namespace,
// element-name and indentation stacks, but never the sink: each emit
// method borrows the io.Writer for the duration of that call only.
//
// Every event is validated before the first byte goes out, so an event
// that fails with anything other than an I/O error was a complete no-op
// and the emitter may be used as if the call never happened. When the
// sink itself fails the internal state has already advanced, and the
// emitter should be discarded along with the partial output.
//
// An Emitter is not safe for concurrent use.
type Emitter struct {
	config Config
	nst    *NamespaceStack
	names  stack.Stack[Name]
	indent indenter
	open   int
	state  docState
	// declEncoding is the label the auto-emitted declaration
	// advertises; a transcoding Writer overrides it.
	declEncoding string
	started      bool
}

func NewEmitter(options ...EmitterOption) *Emitter {
	cfg := DefaultConfig()
	for _, option := range options {
		switch option.Ident() {
		case identAutopadComments{}:
			cfg.AutopadComments = option.Value().(bool)
		case identCDATAAsCharacters{}:
			cfg.CDATAToCharacters = option.Value().(bool)
		case identDocumentDeclaration{}:
			cfg.WriteDocumentDeclaration = option.Value().(bool)
		case identElementNamesStack{}:
			cfg.KeepElementNamesStack = option.Value().(bool)
		case identIndent{}:
			cfg.PerformIndent = option.Value().(bool)
		case identIndentString{}:
			cfg.IndentString = option.Value().(string)
		case identLineSeparator{}:
			cfg.LineSeparator = option.Value().(string)
		case identNormalizeEmptyElements{}:
			cfg.NormalizeEmptyElements = option.Value().(bool)
		}
	}

	return &Emitter{
		config:       cfg,
		nst:          NewNamespaceStack(),
		indent:       newIndenter(cfg.PerformIndent, cfg.LineSeparator, cfg.IndentString),
		declEncoding: DefaultEncoding,
	}
}

// NamespaceStack exposes the bindings currently in scope.
func (e *Emitter) NamespaceStack() *NamespaceStack {
	return e.nst
}

// Depth reports the number of currently open elements.
func (e *Emitter) Depth() int {
	return e.open
}

// checkDocumentStarted emits the default document declaration when
// markup arrives before an explicit start document event. Either way
// the document counts as started afterwards.
func (e *Emitter) checkDocumentStarted(p *printer) {
	if e.started {
		return
	}
	e.started = true
	if e.state == stateBeforeDocument {
		e.state = stateInProlog
	}
	if e.config.WriteDocumentDeclaration {
		p.writeString(`<?xml version="1.0" encoding="`)
		p.writeString(e.declEncoding)
		p.writeString(`"?>`)
		e.indent.afterMarkup()
	}
}

// EmitStartDocument writes the document declaration. It is only valid
// while nothing has been emitted yet; a second call, explicit or after
// auto-emission, fails with ErrDocumentStartAlreadyEmitted and writes
// zero bytes. Empty version and encoding select "1.0" and "utf-8";
// standalone goes on the wire only for the two explicit values.
func (e *Emitter) EmitStartDocument(w io.Writer, version Version, encoding string, standalone DocumentStandaloneType) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if e.started {
		return ErrDocumentStartAlreadyEmitted
	}

	if version == "" {
		version = Version10
	}
	switch version {
	case Version10, Version11:
	default:
		return ErrInvalidVersionNum
	}

	if encoding == "" {
		encoding = DefaultEncoding
	}
	if err := checkEncodingName(encoding); err != nil {
		return err
	}

	p := &printer{w: w}
	p.writeString(`<?xml version="`)
	p.writeString(string(version))
	p.writeString(`" encoding="`)
	p.writeString(encoding)
	p.writeString(`"`)
	switch standalone {
	case StandaloneExplicitYes:
		p.writeString(` standalone="yes"`)
	case StandaloneExplicitNo:
		p.writeString(` standalone="no"`)
	}
	p.writeString(`?>`)

	e.started = true
	e.state = stateInProlog
	e.indent.afterMarkup()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit start document`)
	}
	return nil
}

// EmitProcessingInstruction writes <?target data?>. Legal in every
// document state; before the document starts it triggers the automatic
// declaration first.
func (e *Emitter) EmitProcessingInstruction(w io.Writer, target, data string) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if err := checkPITarget(target); err != nil {
		return err
	}
	if err := checkChars(data); err != nil {
		return err
	}
	if strings.Contains(data, "?>") {
		return ErrPIEndInData
	}

	p := &printer{w: w}
	e.checkDocumentStarted(p)
	e.indent.beforeMarkup(p)
	p.writeString("<?")
	p.writeString(target)
	if data != "" {
		p.writeString(" ")
		p.writeString(data)
	}
	p.writeString("?>")
	e.indent.afterMarkup()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit processing instruction`)
	}
	return nil
}

// EmitStartElement opens an element and leaves it open.
func (e *Emitter) EmitStartElement(w io.Writer, el StartElement) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}
	return e.emitElement(w, el.Name, el.Attributes, el.Namespaces, false)
}

// EmitEmptyElement writes an element with no content, as <x/> or
// <x></x> depending on the NormalizeEmptyElements setting.
func (e *Emitter) EmitEmptyElement(w io.Writer, el EmptyElement) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}
	return e.emitElement(w, el.Name, el.Attributes, el.Namespaces, true)
}

func (e *Emitter) emitElement(w io.Writer, name Name, attrs []Attr, namespaces map[string]string, empty bool) error {
	evt := StartElementEvent
	if empty {
		evt = EmptyElementEvent
	}
	if e.state == stateAfterDocument {
		return ErrUnexpectedEvent{Event: evt, State: e.state.String()}
	}

	if err := checkName(name); err != nil {
		return err
	}
	for _, attr := range attrs {
		if err := checkName(attr.Name); err != nil {
			return err
		}
		if err := checkChars(attr.Value); err != nil {
			return err
		}
	}
	for prefix, uri := range namespaces {
		if prefix != "" {
			if err := checkNameComponent(prefix, prefix); err != nil {
				return err
			}
		}
		if err := checkChars(uri); err != nil {
			return err
		}
	}

	p := &printer{w: w}
	e.checkDocumentStarted(p)
	e.indent.beforeMarkup(p)

	// Collect the bindings this element needs: the event's own, then
	// the ones the element and attribute names rely on, which win any
	// conflict over the event's. Only then are they minimized against
	// the enclosing scope, so a conflict cannot resurrect a declaration
	// the scope already provides.
	bindings := make(map[string]string, len(namespaces)+1)
	for prefix, uri := range namespaces {
		bindings[prefix] = uri
	}
	bindName := func(n Name, attr bool) {
		if n.URI == "" {
			return
		}
		// an unprefixed attribute lives in no namespace regardless
		// of the default
		if attr && n.Prefix == "" {
			return
		}
		bindings[n.Prefix] = n.URI
	}
	bindName(name, false)
	for _, attr := range attrs {
		bindName(attr.Name, true)
	}

	e.nst.Push()
	for prefix, uri := range bindings {
		e.putIfNew(prefix, uri)
	}

	qn := name.String()
	p.writeString("<")
	p.writeString(qn)
	for _, decl := range e.nst.TopDeclarations() {
		if decl.Prefix == "" {
			p.writeString(` xmlns="`)
		} else {
			p.writeString(" xmlns:")
			p.writeString(decl.Prefix)
			p.writeString(`="`)
		}
		escapeAttr(p, decl.URI)
		p.writeString(`"`)
	}
	for _, attr := range sortAttributes(attrs) {
		p.writeString(" ")
		p.writeString(attr.Name.String())
		p.writeString(`="`)
		escapeAttr(p, attr.Value)
		p.writeString(`"`)
	}

	if empty {
		if e.config.NormalizeEmptyElements {
			p.writeString("/>")
		} else {
			p.writeString("></")
			p.writeString(qn)
			p.writeString(">")
		}
		e.nst.Pop()
		e.indent.afterMarkup()
		if e.state != stateInElement {
			// the document element itself came and went
			e.state = stateAfterDocument
		}
	} else {
		p.writeString(">")
		e.indent.afterMarkup()
		e.indent.push()
		if e.config.KeepElementNamesStack {
			e.names.Push(name)
		}
		e.open++
		e.state = stateInElement
	}

	if err := p.err; err != nil {
		if empty {
			return errors.Wrap(err, `failed to emit empty element`)
		}
		return errors.Wrap(err, `failed to emit start element`)
	}
	return nil
}

// putIfNew declares prefix→uri on the current element unless the
// enclosing scope already binds the prefix to that URI, which is what
// keeps declarations minimal. The reserved prefixes are never declared.
func (e *Emitter) putIfNew(prefix, uri string) {
	if prefix == "xml" || prefix == "xmlns" {
		return
	}
	if cur, ok := e.nst.ResolveEnclosing(prefix); ok && cur == uri {
		return
	}
	e.nst.Put(prefix, uri)
}

// EmitEndElement closes the innermost open element. The name may be
// omitted while the element names stack is enabled; when one is given
// it must match the open element.
func (e *Emitter) EmitEndElement(w io.Writer, name ...Name) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if e.state != stateInElement {
		return ErrUnexpectedEvent{Event: EndElementEvent, State: e.state.String()}
	}

	var el Name
	if e.config.KeepElementNamesStack {
		top, ok := e.names.Top()
		if !ok {
			return ErrUnexpectedEvent{Event: EndElementEvent, State: e.state.String()}
		}
		if len(name) > 0 && !name[0].matches(top) {
			return ErrEndElementMismatch{Expected: top, Got: name[0]}
		}
		el = top
	} else {
		if len(name) == 0 {
			return ErrUnexpectedEvent{Event: EndElementEvent, State: e.state.String()}
		}
		if err := checkName(name[0]); err != nil {
			return err
		}
		el = name[0]
	}

	p := &printer{w: w}
	e.indent.beforeEndElement(p)
	p.writeString("</")
	p.writeString(el.String())
	p.writeString(">")

	e.indent.pop()
	e.indent.afterMarkup()
	e.nst.Pop()
	if e.config.KeepElementNamesStack {
		e.names.Pop()
	}
	e.open--
	if e.open == 0 {
		e.state = stateAfterDocument
	}

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit end element`)
	}
	return nil
}

// EmitCharacters writes escaped character data. Only valid inside an
// element. The empty string writes nothing and leaves the indentation
// state alone.
func (e *Emitter) EmitCharacters(w io.Writer, s string) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if e.state != stateInElement {
		return ErrUnexpectedEvent{Event: CharactersEvent, State: e.state.String()}
	}
	if err := checkChars(s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	p := &printer{w: w}
	escapeText(p, s)
	e.indent.afterText()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit characters`)
	}
	return nil
}

// EmitCDATA writes a CDATA section. The content goes out raw, so ]]>
// inside it has no escape and is rejected instead. A CDATA section is
// placed like markup but counts as text for whatever follows it.
func (e *Emitter) EmitCDATA(w io.Writer, s string) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if e.state != stateInElement {
		return ErrUnexpectedEvent{Event: CDATAEvent, State: e.state.String()}
	}
	if e.config.CDATAToCharacters {
		return e.EmitCharacters(w, s)
	}
	if err := checkChars(s); err != nil {
		return err
	}
	if strings.Contains(s, "]]>") {
		return ErrCDATAEndInContent
	}

	p := &printer{w: w}
	e.indent.beforeMarkup(p)
	p.writeString("<![CDATA[")
	p.writeString(s)
	p.writeString("]]>")
	e.indent.afterText()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit cdata`)
	}
	return nil
}

// EmitComment writes <!--s-->. The body is padded with single spaces
// unless it already begins and ends with whitespace or padding is
// disabled. Comments are legal in every document state.
func (e *Emitter) EmitComment(w io.Writer, s string) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if err := checkChars(s); err != nil {
		return err
	}
	if strings.Contains(s, "--") {
		return ErrHyphenInComment
	}

	var lead, trail string
	if e.config.AutopadComments {
		if s == "" || !isBlankCh(rune(s[0])) {
			lead = " "
		}
		if s == "" || !isBlankCh(rune(s[len(s)-1])) {
			trail = " "
		}
	}
	if trail == "" && strings.HasSuffix(s, "-") {
		return ErrHyphenAtCommentEnd
	}

	p := &printer{w: w}
	e.checkDocumentStarted(p)
	e.indent.beforeMarkup(p)
	p.writeString("<!--")
	p.writeString(lead)
	p.writeString(s)
	p.writeString(trail)
	p.writeString("-->")
	e.indent.afterMarkup()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit comment`)
	}
	return nil
}

// EmitWhitespace writes s verbatim. Only blank characters are allowed,
// and only inside an element.
func (e *Emitter) EmitWhitespace(w io.Writer, s string) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if e.state != stateInElement {
		return ErrUnexpectedEvent{Event: WhitespaceEvent, State: e.state.String()}
	}
	if err := checkWhitespace(s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}

	p := &printer{w: w}
	p.writeString(s)
	e.indent.afterText()

	if err := p.err; err != nil {
		return errors.Wrap(err, `failed to emit whitespace`)
	}
	return nil
}
