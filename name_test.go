package xenon_test

import (
	"io"
	"testing"

	"github.com/lestrrat-go/xenon"
	"github.com/stretchr/testify/assert"
)

func TestParseName(t *testing.T) {
	data := map[string]xenon.Name{
		"foo":     {Local: "foo"},
		"p:foo":   {Prefix: "p", Local: "foo"},
		"p:f:oo":  {Prefix: "p", Local: "f:oo"},
		":foo":    {Prefix: "", Local: "foo"},
		"xml:id":  {Prefix: "xml", Local: "id"},
		"":        {},
		"xmlns:p": {Prefix: "xmlns", Local: "p"},
	}

	for src, expected := range data {
		if !assert.Equal(t, expected, xenon.ParseName(src), "ParseName(%q)", src) {
			return
		}
	}
}

func TestNameString(t *testing.T) {
	if !assert.Equal(t, "foo", xenon.LocalName("foo").String(), "local name renders bare") {
		return
	}
	if !assert.Equal(t, "p:foo", xenon.QualifiedName("p", "foo", "u").String(), "qualified name renders with its prefix") {
		return
	}
}

func TestNameValidation(t *testing.T) {
	e := xenon.NewEmitter()

	bad := []xenon.Name{
		{},
		xenon.LocalName("1up"),
		xenon.LocalName("a b"),
		xenon.LocalName("a:b"),
		{Prefix: "p q", Local: "x"},
	}
	for _, name := range bad {
		err := e.EmitEmptyElement(io.Discard, xenon.EmptyElement{Name: name})
		var invalid xenon.ErrInvalidName
		if !assert.ErrorAs(t, err, &invalid, "name %q is rejected", name.String()) {
			return
		}
	}

	good := []xenon.Name{
		xenon.LocalName("a"),
		xenon.LocalName("_a-b.c"),
		xenon.LocalName("日本語"),
		xenon.QualifiedName("p", "x", "u"),
	}
	for _, name := range good {
		e := xenon.NewEmitter(xenon.WithDocumentDeclaration(false))
		if !assert.NoError(t, e.EmitEmptyElement(io.Discard, xenon.EmptyElement{Name: name}), "name %q is accepted", name.String()) {
			return
		}
	}
}
