package xenon_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lestrrat-go/xenon"
	"github.com/stretchr/testify/assert"
)

// emitInRoot runs emit against a fresh emitter inside a root element
// and returns everything written after the root start tag.
func emitInRoot(t *testing.T, options []xenon.EmitterOption, emit func(e *xenon.Emitter, buf *bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	e := xenon.NewEmitter(options...)
	if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("root")}), "start element succeeds") {
		t.FailNow()
	}
	prefix := buf.String()
	if !assert.NoError(t, emit(e, &buf), "emit succeeds") {
		t.FailNow()
	}
	return strings.TrimPrefix(buf.String(), prefix)
}

func TestEmitterComments(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		options  []xenon.EmitterOption
		expected string
	}{
		{
			name:     "autopad adds spaces",
			body:     "x",
			expected: "<!-- x -->",
		},
		{
			name:     "autopad leaves existing whitespace alone",
			body:     " x ",
			expected: "<!-- x -->",
		},
		{
			name:     "autopad pads an empty body on both sides",
			body:     "",
			expected: "<!--  -->",
		},
		{
			name:     "autopad off",
			body:     "x",
			options:  []xenon.EmitterOption{xenon.WithAutopadComments(false)},
			expected: "<!--x-->",
		},
		{
			name:     "trailing hyphen is safe with autopad",
			body:     "x-",
			expected: "<!-- x- -->",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := emitInRoot(t, tc.options, func(e *xenon.Emitter, buf *bytes.Buffer) error {
				return e.EmitComment(buf, tc.body)
			})
			if !assert.Equal(t, tc.expected, got, "output matches") {
				return
			}
		})
	}

	t.Run("double hyphen is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter()
		if !assert.ErrorIs(t, e.EmitComment(&buf, "a--b"), xenon.ErrHyphenInComment, "'--' in a comment is rejected") {
			return
		}
		if !assert.Zero(t, buf.Len(), "nothing was written") {
			return
		}
	})

	t.Run("trailing hyphen is rejected without autopad", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithAutopadComments(false))
		if !assert.ErrorIs(t, e.EmitComment(&buf, "x-"), xenon.ErrHyphenAtCommentEnd, "trailing '-' is rejected") {
			return
		}
	})
}

func TestEmitterProcessingInstructions(t *testing.T) {
	t.Run("target only", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitProcessingInstruction(buf, "xml-stylesheet", "")
		})
		if !assert.Equal(t, "<?xml-stylesheet?>", got, "output matches") {
			return
		}
	})

	t.Run("target and data", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitProcessingInstruction(buf, "xml-stylesheet", `href="a.xsl" type="text/xsl"`)
		})
		if !assert.Equal(t, `<?xml-stylesheet href="a.xsl" type="text/xsl"?>`, got, "output matches") {
			return
		}
	})

	t.Run("reserved target", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter()
		if !assert.ErrorIs(t, e.EmitProcessingInstruction(&buf, "XML", "x"), xenon.ErrReservedPITarget, "'xml' target is rejected in any case") {
			return
		}
	})

	t.Run("pi end in data", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter()
		if !assert.ErrorIs(t, e.EmitProcessingInstruction(&buf, "t", "a?>b"), xenon.ErrPIEndInData, "'?>' in data is rejected") {
			return
		}
		if !assert.Zero(t, buf.Len(), "nothing was written") {
			return
		}
	})

	t.Run("pi in the prolog auto starts the document", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter()
		if !assert.NoError(t, e.EmitProcessingInstruction(&buf, "pi", "data"), "pi succeeds") {
			return
		}
		if !assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?><?pi data?>`, buf.String(), "declaration comes first") {
			return
		}
	})
}

func TestEmitterNamespaces(t *testing.T) {
	t.Run("binding is not redeclared on children", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.QualifiedName("p", "a", "u")}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.QualifiedName("p", "b", "u")}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.Equal(t, `<p:a xmlns:p="u"><p:b></p:b></p:a>`, buf.String(), "child borrows the parent's declaration") {
			return
		}
	})

	t.Run("sibling redeclares after scope closes", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("root")}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.QualifiedName("p", "a", "u")}), "empty element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.QualifiedName("p", "b", "u")}), "empty element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.Equal(t, `<root><p:a xmlns:p="u"/><p:b xmlns:p="u"/></root>`, buf.String(), "each sibling carries its own declaration") {
			return
		}
	})

	t.Run("default namespace and undeclaration", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.QualifiedName("", "a", "u")}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{
			Name:       xenon.LocalName("b"),
			Namespaces: map[string]string{"": ""},
		}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.Equal(t, `<a xmlns="u"><b xmlns=""></b></a>`, buf.String(), "explicit empty binding undeclares the default") {
			return
		}
	})

	t.Run("name binding beats a conflicting event binding and stays minimal", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.QualifiedName("p", "a", "u")}), "start element succeeds") {
			return
		}
		// the event binds p elsewhere, but the element name needs p at
		// the URI the parent already provides
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{
			Name:       xenon.QualifiedName("p", "b", "u"),
			Namespaces: map[string]string{"p": "u2"},
		}), "start element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.NoError(t, e.EmitEndElement(&buf), "end element succeeds") {
			return
		}
		if !assert.Equal(t, `<p:a xmlns:p="u"><p:b></p:b></p:a>`, buf.String(), "no redundant declaration appears") {
			return
		}
	})

	t.Run("explicit binding without a use is still declared", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{
			Name:       xenon.LocalName("a"),
			Namespaces: map[string]string{"ds": "urn:ds", "x": "urn:x"},
		}), "empty element succeeds") {
			return
		}
		if !assert.Equal(t, `<a xmlns:ds="urn:ds" xmlns:x="urn:x"/>`, buf.String(), "declarations are sorted by prefix") {
			return
		}
	})

	t.Run("unqualified names bypass the machinery", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{
			Name: xenon.LocalName("a"),
			Attributes: []xenon.Attr{
				{Name: xenon.LocalName("k"), Value: "v"},
			},
		}), "empty element succeeds") {
			return
		}
		if !assert.Equal(t, `<a k="v"/>`, buf.String(), "no declarations appear") {
			return
		}
	})

	t.Run("attribute ordering", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{
			Name: xenon.LocalName("x"),
			Attributes: []xenon.Attr{
				{Name: xenon.QualifiedName("p", "b", "u"), Value: "3"},
				{Name: xenon.LocalName("z"), Value: "2"},
				{Name: xenon.LocalName("a"), Value: "1"},
			},
		}), "empty element succeeds") {
			return
		}
		if !assert.Equal(t, `<x xmlns:p="u" a="1" z="2" p:b="3"/>`, buf.String(), "attributes sort by namespace URI then local name") {
			return
		}
	})
}

func TestEmitterEmptyElements(t *testing.T) {
	t.Run("normalized", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitEmptyElement(buf, xenon.EmptyElement{Name: xenon.LocalName("x")})
		})
		if !assert.Equal(t, "<x/>", got, "output matches") {
			return
		}
	})

	t.Run("expanded", func(t *testing.T) {
		got := emitInRoot(t, []xenon.EmitterOption{xenon.WithNormalizeEmptyElements(false)}, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitEmptyElement(buf, xenon.EmptyElement{Name: xenon.LocalName("x")})
		})
		if !assert.Equal(t, "<x></x>", got, "output matches") {
			return
		}
	})

	t.Run("explicit pair never collapses", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			if err := e.EmitStartElement(buf, xenon.StartElement{Name: xenon.LocalName("x")}); err != nil {
				return err
			}
			return e.EmitEndElement(buf)
		})
		if !assert.Equal(t, "<x></x>", got, "output matches") {
			return
		}
	})

	t.Run("empty element as document element", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("x")}), "empty element succeeds") {
			return
		}

		var unexpected xenon.ErrUnexpectedEvent
		if !assert.ErrorAs(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("y")}), &unexpected, "the document is closed afterwards") {
			return
		}
	})
}

func TestEmitterEscaping(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitCharacters(buf, `a<b&c>d"e'f`)
		})
		if !assert.Equal(t, `a&lt;b&amp;c&gt;d"e'f`, got, "text escapes & < > only") {
			return
		}
	})

	t.Run("attribute", func(t *testing.T) {
		got := emitInRoot(t, nil, func(e *xenon.Emitter, buf *bytes.Buffer) error {
			return e.EmitEmptyElement(buf, xenon.EmptyElement{
				Name: xenon.LocalName("x"),
				Attributes: []xenon.Attr{
					{Name: xenon.LocalName("k"), Value: "a\"b<c&d\te\nf\rg"},
				},
			})
		})
		if !assert.Equal(t, `<x k="a&quot;b&lt;c&amp;d&#x9;e&#xA;f&#xD;g"/>`, got, "attribute escapes quotes and blanks as references") {
			return
		}
	})

	t.Run("invalid character in text", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter()
		if !assert.NoError(t, e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")}), "start element succeeds") {
			return
		}
		if !assert.ErrorIs(t, e.EmitCharacters(&buf, "a\x00b"), xenon.ErrInvalidChar, "NUL is rejected") {
			return
		}
		if !assert.ErrorIs(t, e.EmitCharacters(&buf, "a\xffb"), xenon.ErrInvalidChar, "broken UTF-8 is rejected") {
			return
		}
		if !assert.NoError(t, e.EmitCharacters(&buf, "a�b"), "a genuine replacement character is fine") {
			return
		}
	})
}

func TestEmitterIndentEdgeCases(t *testing.T) {
	options := []xenon.EmitterOption{xenon.WithIndent(true), xenon.WithDocumentDeclaration(false)}

	t.Run("cdata is placed like markup but reads like text", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(options...)
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		if !assert.NoError(t, e.EmitCDATA(&buf, "x"), "cdata succeeds") {
			return
		}
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a>\n  <![CDATA[x]]></a>", buf.String(), "output matches") {
			return
		}
	})

	t.Run("markup after text stays glued", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(options...)
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		_ = e.EmitCharacters(&buf, "x")
		_ = e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("b")})
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a>x<b/></a>", buf.String(), "no line break interrupts mixed content") {
			return
		}
	})

	t.Run("end tag hugs mixed content even after child markup", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(options...)
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		_ = e.EmitCharacters(&buf, "x")
		_ = e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("b")})
		_ = e.EmitCharacters(&buf, "y")
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a>x<b/>y</a>", buf.String(), "mixed content never gains separators") {
			return
		}
	})

	t.Run("text after child markup glues the end tag", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(options...)
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		_ = e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("b")})
		_ = e.EmitCharacters(&buf, "y")
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a>\n  <b/>y</a>", buf.String(), "output matches") {
			return
		}
	})

	t.Run("custom separator and indent string", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(
			xenon.WithIndent(true),
			xenon.WithDocumentDeclaration(false),
			xenon.WithLineSeparator("\r\n"),
			xenon.WithIndentString("\t"),
		)
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		_ = e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("b")})
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a>\r\n\t<b/>\r\n</a>", buf.String(), "output matches") {
			return
		}
	})

	t.Run("compact mode tracks frames without writing them", func(t *testing.T) {
		var buf bytes.Buffer
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		_ = e.EmitStartElement(&buf, xenon.StartElement{Name: xenon.LocalName("a")})
		_ = e.EmitEmptyElement(&buf, xenon.EmptyElement{Name: xenon.LocalName("b")})
		_ = e.EmitEndElement(&buf)
		if !assert.Equal(t, "<a><b/></a>", buf.String(), "no separators appear in compact mode") {
			return
		}
	})
}
