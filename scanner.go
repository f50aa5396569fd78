package xenon

import (
	"bytes"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	pdebug "github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/strcursor"
	"github.com/lestrrat-go/xenon/internal/orderedmap"
	"github.com/lestrrat-go/xenon/internal/pool"
	"github.com/lestrrat-go/xenon/internal/stack"
	"github.com/pkg/errors"
)

// scanState tracks where in the document the scanner is. It mirrors the
// emitter's document states, with an extra terminal state once the
// input is exhausted.
type scanState int

const (
	scanEOF scanState = iota - 1
	scanStart
	scanProlog
	scanContent
	scanEpilog
)

// Scanner is a pull tokenizer over a UTF-8 document held in memory. It
// produces the same Event values a Writer consumes, which makes
// scan-then-write the canonical way to reformat a document. The scanner
// checks exactly as much well-formedness as it needs to tokenize
// reliably; it is not a validating parser.
type Scanner struct {
	cursor  strcursor.Cursor
	nst     *NamespaceStack
	names   stack.Stack[Name]
	state   scanState
	offset  int
	stripWS bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewScanner returns a Scanner over data. The input must be UTF-8; a
// leading byte order mark is skipped.
func NewScanner(data []byte, options ...ScannerOption) *Scanner {
	var s Scanner
	for _, option := range options {
		switch option.Ident() {
		case identStripWhitespace{}:
			s.stripWS = option.Value().(bool)
		}
	}

	s.cursor = strcursor.NewRuneCursor(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	s.nst = NewNamespaceStack()
	s.state = scanStart
	return &s
}

// NamespaceStack exposes the bindings in scope at the scanner's current
// position.
func (s *Scanner) NamespaceStack() *NamespaceStack {
	return s.nst
}

// Depth reports the number of elements open at the scanner's current
// position.
func (s *Scanner) Depth() int {
	return s.names.Len()
}

// Next returns the next event. After the epilog of a complete document
// has been consumed, and on every call thereafter, Next returns io.EOF.
// Any other error is an ErrParseError carrying the position the scanner
// had reached.
func (s *Scanner) Next() (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	for {
		switch s.state {
		case scanEOF:
			return nil, io.EOF

		case scanStart:
			s.state = scanProlog
			if s.curHasPrefix("<?xml") && isBlankCh(s.curPeek(6)) {
				return s.scanXMLDecl()
			}

		case scanProlog:
			s.skipBlanks()
			switch {
			case s.curDone():
				return nil, s.error(ErrEmptyDocument)
			case s.curHasPrefix("<!--"):
				return s.scanComment()
			case s.curHasPrefix("<!DOCTYPE"):
				return nil, s.error(ErrDocTypeNotSupported)
			case s.curHasPrefix("<?"):
				return s.scanPI()
			case s.curPeek(1) == '<':
				return s.scanStartElement()
			default:
				return nil, s.error(ErrEmptyDocument)
			}

		case scanContent:
			switch {
			case s.curDone():
				return nil, s.error(ErrPrematureEOF)
			case s.curHasPrefix("</"):
				return s.scanEndElement()
			case s.curHasPrefix("<!--"):
				return s.scanComment()
			case s.curHasPrefix("<![CDATA["):
				return s.scanCDATA()
			case s.curHasPrefix("<?"):
				return s.scanPI()
			case s.curPeek(1) == '<':
				return s.scanStartElement()
			default:
				ev, err := s.scanCharData()
				if err != nil {
					return nil, err
				}
				if ev == nil {
					// stripped whitespace
					continue
				}
				return ev, nil
			}

		case scanEpilog:
			s.skipBlanks()
			switch {
			case s.curDone():
				s.state = scanEOF
				return nil, io.EOF
			case s.curHasPrefix("<!--"):
				return s.scanComment()
			case s.curHasPrefix("<?"):
				return s.scanPI()
			default:
				return nil, s.error(ErrDocumentEnd)
			}
		}
	}
}

// error decorates err with the scanner's position. An error that is
// already decorated is returned as is.
func (s *Scanner) error(err error) error {
	if _, ok := err.(ErrParseError); ok {
		return err
	}

	return ErrParseError{
		Column:     s.cursor.Column(),
		Err:        err,
		Line:       s.cursor.Line(),
		LineNumber: s.cursor.LineNumber(),
		Location:   s.offset,
	}
}

// The cur* helpers adapt the cursor to how the scan methods want to
// talk to it: one-based rune peeks, count-based consumption that
// returns the consumed text, and a byte offset for error reporting,
// which the cursor itself does not track.

func (s *Scanner) curAdvance(n int) {
	for i := 0; i < n; i++ {
		r := s.cursor.Cur()
		if r == utf8.RuneError {
			return
		}
		s.offset += utf8.RuneLen(r)
	}
}

func (s *Scanner) curConsume(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		r := s.cursor.Cur()
		if r == utf8.RuneError {
			break
		}
		s.offset += utf8.RuneLen(r)
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *Scanner) curConsumePrefix(prefix string) bool {
	if !s.cursor.ConsumeString(prefix) {
		return false
	}
	s.offset += len(prefix)
	return true
}

func (s *Scanner) curDone() bool {
	return s.cursor.Done()
}

func (s *Scanner) curHasChars(n int) bool {
	return s.cursor.PeekN(n) != utf8.RuneError
}

func (s *Scanner) curHasPrefix(prefix string) bool {
	return s.cursor.HasPrefixString(prefix)
}

func (s *Scanner) curPeek(n int) rune {
	return s.cursor.PeekN(n)
}

func (s *Scanner) skipBlanks() {
	i := 1
	for ; s.curHasChars(i); i++ {
		if !isBlankCh(s.curPeek(i)) {
			break
		}
	}
	if i > 1 {
		s.curAdvance(i - 1)
	}
}

// normalizeLineEndings rewrites \r\n pairs and bare \r to \n, as XML
// requires of every parsed literal.
func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// scanName consumes a Name. Unlike scanNCName it permits colons, so
// the caller decides whether they were legal.
func (s *Scanner) scanName() (string, error) {
	if !isNameStartChar(s.curPeek(1)) {
		return "", s.error(ErrNameRequired)
	}

	i := 2
	for ; s.curHasChars(i); i++ {
		if !isNameChar(s.curPeek(i)) {
			break
		}
	}
	return s.curConsume(i - 1), nil
}

func (s *Scanner) scanNCName() (string, error) {
	if !isNCNameStartChar(s.curPeek(1)) {
		return "", s.error(ErrNameRequired)
	}

	i := 2
	for ; s.curHasChars(i); i++ {
		if !isNCNameChar(s.curPeek(i)) {
			break
		}
	}
	return s.curConsume(i - 1), nil
}

func (s *Scanner) scanQName() (local, prefix string, err error) {
	v, err := s.scanNCName()
	if err != nil {
		return "", "", err
	}

	if s.curPeek(1) != ':' {
		return v, "", nil
	}

	s.curAdvance(1)
	l, err := s.scanNCName()
	if err != nil {
		return "", "", err
	}
	return l, v, nil
}

// scanDeclAttribute consumes one name="value" pair of the document
// declaration. A pair with a different name is left untouched and
// reported as absent.
func (s *Scanner) scanDeclAttribute(name string) (string, bool, error) {
	s.skipBlanks()
	if !s.curConsumePrefix(name) {
		return "", false, nil
	}

	s.skipBlanks()
	if s.curPeek(1) != '=' {
		return "", false, s.error(ErrEqualSignRequired)
	}
	s.curAdvance(1)
	s.skipBlanks()

	q := s.curPeek(1)
	if q != '"' && q != '\'' {
		return "", false, s.error(ErrValueRequired)
	}
	s.curAdvance(1)

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) == q {
			break
		}
	}
	if !s.curHasChars(i) {
		return "", false, s.error(ErrPrematureEOF)
	}
	v := s.curConsume(i - 1)
	s.curAdvance(1)
	return v, true, nil
}

func (s *Scanner) scanXMLDecl() (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	s.curAdvance(5)

	v, ok, err := s.scanDeclAttribute("version")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.error(ErrInvalidXMLDecl)
	}
	version := Version(v)
	if version != Version10 && version != Version11 {
		return nil, s.error(ErrInvalidVersionNum)
	}

	encname, ok, err := s.scanDeclAttribute("encoding")
	if err != nil {
		return nil, err
	}
	if ok {
		if err := checkEncodingName(encname); err != nil {
			return nil, s.error(err)
		}
	}

	standalone := StandaloneImplicitNo
	sa, ok, err := s.scanDeclAttribute("standalone")
	if err != nil {
		return nil, err
	}
	if ok {
		switch sa {
		case "yes":
			standalone = StandaloneExplicitYes
		case "no":
			standalone = StandaloneExplicitNo
		default:
			return nil, s.error(ErrInvalidXMLDecl)
		}
	}

	s.skipBlanks()
	if !s.curConsumePrefix("?>") {
		return nil, s.error(ErrInvalidXMLDecl)
	}

	return StartDocument{
		Version:    version,
		Encoding:   encname,
		Standalone: standalone,
	}, nil
}

func (s *Scanner) scanPI() (Event, error) {
	s.curAdvance(2)

	target, err := s.scanName()
	if err != nil {
		return nil, err
	}
	if err := checkPITarget(target); err != nil {
		return nil, s.error(err)
	}

	if s.curConsumePrefix("?>") {
		return ProcessingInstruction{Target: target}, nil
	}

	if !isBlankCh(s.curPeek(1)) {
		return nil, s.error(ErrSpaceRequired)
	}
	s.skipBlanks()

	i := 1
	for ; s.curHasChars(i); i++ {
		c := s.curPeek(i)
		if c == '?' && s.curPeek(i+1) == '>' {
			break
		}
		if !isChar(c) {
			return nil, s.error(ErrInvalidChar)
		}
	}
	data := s.curConsume(i - 1)

	if !s.curConsumePrefix("?>") {
		return nil, s.error(ErrInvalidProcessingInstruction)
	}

	return ProcessingInstruction{
		Target: target,
		Data:   normalizeLineEndings(data),
	}, nil
}

func (s *Scanner) scanComment() (Event, error) {
	s.curAdvance(4)

	i := 1
	for {
		if !s.curHasChars(i) {
			return nil, s.error(ErrCommentNotFinished)
		}
		c := s.curPeek(i)
		if !isChar(c) {
			return nil, s.error(ErrInvalidChar)
		}
		if c == '-' && s.curPeek(i+1) == '-' {
			if s.curPeek(i+2) != '>' {
				return nil, s.error(ErrHyphenInComment)
			}
			break
		}
		i++
	}

	body := s.curConsume(i - 1)
	s.curAdvance(3)
	return Comment(normalizeLineEndings(body)), nil
}

func (s *Scanner) scanCDATA() (Event, error) {
	s.curAdvance(9)

	i := 1
	for {
		if !s.curHasChars(i) {
			return nil, s.error(ErrCDATANotFinished)
		}
		c := s.curPeek(i)
		if !isChar(c) {
			return nil, s.error(ErrInvalidChar)
		}
		if c == ']' && s.curPeek(i+1) == ']' && s.curPeek(i+2) == '>' {
			break
		}
		i++
	}

	body := s.curConsume(i - 1)
	s.curAdvance(3)
	return CDATA(normalizeLineEndings(body)), nil
}

// resolvePredefinedEntity returns the replacement text of the five
// entities every document may reference without declaring them.
func resolvePredefinedEntity(name string) (string, bool) {
	switch name {
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "amp":
		return "&", true
	case "apos":
		return "'", true
	case "quot":
		return `"`, true
	default:
		return "", false
	}
}

// scanReference decodes one entity or character reference, appending
// the replacement text to buf. The cursor must be on the '&'.
func (s *Scanner) scanReference(buf []byte) ([]byte, error) {
	var accumulate func(int32, rune) (int32, error)
	switch {
	case s.curHasPrefix("&#x"):
		s.curAdvance(3)
		accumulate = accumulateHexCharRef
	case s.curHasPrefix("&#"):
		s.curAdvance(2)
		accumulate = accumulateDecimalCharRef
	default:
		s.curAdvance(1)
		name, err := s.scanName()
		if err != nil {
			return nil, err
		}
		if !s.curConsumePrefix(";") {
			return nil, s.error(ErrSemicolonRequired)
		}
		content, ok := resolvePredefinedEntity(name)
		if !ok {
			return nil, s.error(errors.Wrap(ErrEntityNotFound, name))
		}
		return append(buf, content...), nil
	}

	var val int32
	for s.curHasChars(1) && s.curPeek(1) != ';' {
		v, err := accumulate(val, s.curPeek(1))
		if err != nil {
			return nil, s.error(err)
		}
		// reject before the next digit can wrap the accumulator
		if v > unicode.MaxRune {
			return nil, s.error(ErrInvalidChar)
		}
		val = v
		s.curAdvance(1)
	}
	if !s.curConsumePrefix(";") {
		return nil, s.error(ErrSemicolonRequired)
	}
	if !isChar(rune(val)) {
		return nil, s.error(ErrInvalidChar)
	}

	return utf8.AppendRune(buf, rune(val)), nil
}

// scanCharData consumes character data up to the next markup, decoding
// references along the way. It returns a Whitespace event when the run
// is entirely blank, or nil when such a run is being stripped.
func (s *Scanner) scanCharData() (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	var sawRef bool
	for {
		i := 1
		for ; s.curHasChars(i); i++ {
			c := s.curPeek(i)
			if c == '<' || c == '&' {
				break
			}
			if !isChar(c) {
				return nil, s.error(ErrInvalidChar)
			}
			if c == ']' && s.curPeek(i+1) == ']' && s.curPeek(i+2) == '>' {
				return nil, s.error(ErrMisplacedCDATAEnd)
			}
		}
		buf = append(buf, s.curConsume(i-1)...)

		if s.curPeek(1) != '&' {
			break
		}
		b, err := s.scanReference(buf)
		if err != nil {
			return nil, err
		}
		buf = b
		sawRef = true
	}

	text := normalizeLineEndings(string(buf))

	// A run the author spelled with references is never demoted to
	// whitespace, even if it decodes to blanks only.
	if !sawRef && checkWhitespace(text) == nil {
		if s.stripWS {
			return nil, nil
		}
		return Whitespace(text), nil
	}
	return Characters(text), nil
}

type scanAttr struct {
	prefix string
	local  string
	value  string
}

// scanAttributeValue consumes a quoted attribute value, decoding
// references. A literal '<' inside the value is malformed.
func (s *Scanner) scanAttributeValue() (string, error) {
	q := s.curPeek(1)
	if q != '"' && q != '\'' {
		return "", s.error(ErrValueRequired)
	}
	s.curAdvance(1)

	buf := pool.ByteSlice().Get()
	defer func() { pool.ByteSlice().Put(buf) }()

	for {
		i := 1
		for ; s.curHasChars(i); i++ {
			c := s.curPeek(i)
			if c == q || c == '&' {
				break
			}
			if c == '<' {
				return "", s.error(ErrLtInAttribute)
			}
			if !isChar(c) {
				return "", s.error(ErrInvalidChar)
			}
		}
		buf = append(buf, s.curConsume(i-1)...)

		if !s.curHasChars(1) {
			return "", s.error(ErrPrematureEOF)
		}
		if s.curPeek(1) == q {
			s.curAdvance(1)
			break
		}
		b, err := s.scanReference(buf)
		if err != nil {
			return "", err
		}
		buf = b
	}

	return normalizeLineEndings(string(buf)), nil
}

func (s *Scanner) scanAttribute() (scanAttr, error) {
	local, prefix, err := s.scanQName()
	if err != nil {
		return scanAttr{}, err
	}

	s.skipBlanks()
	if s.curPeek(1) != '=' {
		return scanAttr{}, s.error(ErrEqualSignRequired)
	}
	s.curAdvance(1)
	s.skipBlanks()

	value, err := s.scanAttributeValue()
	if err != nil {
		return scanAttr{}, err
	}

	return scanAttr{prefix: prefix, local: local, value: value}, nil
}

func (s *Scanner) scanStartElement() (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	s.curAdvance(1)
	local, prefix, err := s.scanQName()
	if err != nil {
		return nil, err
	}
	if pdebug.Enabled {
		pdebug.Printf("start tag %s", local)
	}

	attrs := orderedmap.New[string, scanAttr]()
	var empty bool
	for {
		s.skipBlanks()
		if !s.curHasChars(1) {
			return nil, s.error(ErrGtRequired)
		}
		if s.curPeek(1) == '>' {
			s.curAdvance(1)
			break
		}
		if s.curPeek(1) == '/' && s.curPeek(2) == '>' {
			s.curAdvance(2)
			empty = true
			break
		}

		attr, err := s.scanAttribute()
		if err != nil {
			return nil, err
		}
		rawname := attr.local
		if attr.prefix != "" {
			rawname = attr.prefix + ":" + attr.local
		}
		if err := attrs.Set(rawname, attr); err != nil {
			return nil, s.error(ErrAttributeRedefined)
		}

		// attributes must be separated by whitespace
		if c := s.curPeek(1); c != '>' && c != '/' && !isBlankCh(c) {
			return nil, s.error(ErrSpaceRequired)
		}
	}

	// Declarations first, so that the element and attribute names
	// resolve against the bindings this very tag introduces.
	s.nst.Push()
	var nsdecls map[string]string
	declare := func(prefix, uri string) {
		if nsdecls == nil {
			nsdecls = make(map[string]string)
		}
		nsdecls[prefix] = uri
		s.nst.Put(prefix, uri)
	}
	for _, attr := range attrs.Range() {
		switch {
		case attr.prefix == "xmlns":
			declare(attr.local, attr.value)
		case attr.prefix == "" && attr.local == "xmlns":
			declare("", attr.value)
		}
	}

	attrsOut := make([]Attr, 0, attrs.Len())
	for _, attr := range attrs.Range() {
		if attr.prefix == "xmlns" || (attr.prefix == "" && attr.local == "xmlns") {
			continue
		}
		var uri string
		if attr.prefix != "" {
			u, ok := s.nst.Resolve(attr.prefix)
			if !ok {
				return nil, s.error(errors.Wrap(ErrUndeclaredPrefix, attr.prefix))
			}
			uri = u
		}
		attrsOut = append(attrsOut, Attr{
			Name:  Name{Prefix: attr.prefix, Local: attr.local, URI: uri},
			Value: attr.value,
		})
	}
	if len(attrsOut) == 0 {
		attrsOut = nil
	}

	name := Name{Prefix: prefix, Local: local}
	if prefix != "" {
		u, ok := s.nst.Resolve(prefix)
		if !ok {
			return nil, s.error(errors.Wrap(ErrUndeclaredPrefix, prefix))
		}
		name.URI = u
	} else if u, ok := s.nst.Resolve(""); ok {
		name.URI = u
	}

	if empty {
		s.nst.Pop()
		if s.state != scanContent {
			// the document element itself came and went
			s.state = scanEpilog
		}
		return EmptyElement{Name: name, Attributes: attrsOut, Namespaces: nsdecls}, nil
	}

	s.names.Push(name)
	s.state = scanContent
	return StartElement{Name: name, Attributes: attrsOut, Namespaces: nsdecls}, nil
}

func (s *Scanner) scanEndElement() (Event, error) {
	s.curAdvance(2)

	local, prefix, err := s.scanQName()
	if err != nil {
		return nil, err
	}
	s.skipBlanks()
	if s.curPeek(1) != '>' {
		return nil, s.error(ErrGtRequired)
	}
	s.curAdvance(1)

	top, _ := s.names.Top()
	got := Name{Prefix: prefix, Local: local}
	if !got.matches(top) {
		return nil, s.error(ErrEndElementMismatch{Expected: top, Got: got})
	}

	s.names.Pop()
	s.nst.Pop()
	if s.names.Len() == 0 {
		s.state = scanEpilog
	}
	return EndElement{Name: top}, nil
}
