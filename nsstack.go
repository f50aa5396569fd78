package xenon

import (
	"sort"

	"github.com/lestrrat-go/xenon/internal/stack"
)

// NamespaceBinding associates a prefix with a namespace URI. An empty
// prefix stands for the default namespace; an empty URI undeclares it.
type NamespaceBinding struct {
	Prefix string
	URI    string
}

// NamespaceStack tracks the namespace bindings in scope while a
// document is written or read. Each open element contributes one frame;
// the bottom frame holds the built-in bindings and is never popped, so
// the depth is always the number of open elements plus one.
type NamespaceStack struct {
	frames stack.Stack[[]NamespaceBinding]
}

func NewNamespaceStack() *NamespaceStack {
	var s NamespaceStack
	s.frames.Push([]NamespaceBinding{
		{Prefix: "", URI: ""},
		{Prefix: "xml", URI: XMLNamespace},
		{Prefix: "xmlns", URI: XMLNSNamespace},
	})
	return &s
}

// Push opens a new binding frame.
func (s *NamespaceStack) Push() {
	s.frames.Push(nil)
}

// Pop discards the top frame. The built-in frame stays put.
func (s *NamespaceStack) Pop() {
	if s.frames.Len() > 1 {
		s.frames.Pop()
	}
}

// Put records a binding in the top frame. Rebinding a prefix within the
// same frame is allowed; the later binding wins.
func (s *NamespaceStack) Put(prefix, uri string) {
	frame, _ := s.frames.Top()
	frame = append(frame, NamespaceBinding{Prefix: prefix, URI: uri})
	s.frames.SetTop(frame)
}

// Resolve reports the URI bound to prefix, searching from the innermost
// frame outwards.
func (s *NamespaceStack) Resolve(prefix string) (string, bool) {
	return s.resolve(prefix, 0)
}

// ResolveEnclosing is Resolve with the innermost frame skipped: the
// scope a binding on the current element would be judged against.
func (s *NamespaceStack) ResolveEnclosing(prefix string) (string, bool) {
	return s.resolve(prefix, 1)
}

func (s *NamespaceStack) resolve(prefix string, skip int) (string, bool) {
	for fi := s.frames.Len() - 1 - skip; fi >= 0; fi-- {
		frame := s.frames[fi]
		for bi := len(frame) - 1; bi >= 0; bi-- {
			if frame[bi].Prefix == prefix {
				return frame[bi].URI, true
			}
		}
	}
	return "", false
}

// TopDeclarations returns the effective bindings of the top frame: one
// entry per prefix (the last Put wins), the reserved xml and xmlns
// prefixes dropped, sorted by prefix so the default namespace comes
// first.
func (s *NamespaceStack) TopDeclarations() []NamespaceBinding {
	frame, ok := s.frames.Top()
	if !ok || len(frame) == 0 {
		return nil
	}

	effective := make(map[string]string, len(frame))
	for _, b := range frame {
		effective[b.Prefix] = b.URI
	}
	delete(effective, "xml")
	delete(effective, "xmlns")

	decls := make([]NamespaceBinding, 0, len(effective))
	for prefix, uri := range effective {
		decls = append(decls, NamespaceBinding{Prefix: prefix, URI: uri})
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Prefix < decls[j].Prefix
	})
	return decls
}

// Depth reports the number of frames, the built-in frame included.
func (s *NamespaceStack) Depth() int {
	return s.frames.Len()
}
