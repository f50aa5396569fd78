package xenon

import (
	"github.com/lestrrat-go/xenon/internal/stack"
)

// wroteState records what one nesting level has seen so far.
type wroteState int

const (
	wroteNothing wroteState = iota
	wroteMarkup
	wroteText
)

// indenter decides what separation belongs before the next piece of
// markup. One frame per open element plus a bottom frame for the
// document level. The frames are tracked even when indentation is
// disabled; only the writes are suppressed.
type indenter struct {
	sep     string
	indent  string
	enabled bool
	frames  stack.Stack[wroteState]
}

func newIndenter(enabled bool, sep, indent string) indenter {
	in := indenter{sep: sep, indent: indent, enabled: enabled}
	in.frames.Push(wroteNothing)
	return in
}

// level is the number of open elements.
func (in *indenter) level() int {
	return in.frames.Len() - 1
}

func (in *indenter) push() {
	in.frames.Push(wroteNothing)
}

func (in *indenter) pop() {
	if in.frames.Len() > 1 {
		in.frames.Pop()
	}
}

func (in *indenter) top() wroteState {
	st, _ := in.frames.Top()
	return st
}

// afterMarkup records that the current level contains markup. A frame
// that has seen text keeps saying so: once an element holds mixed
// content, its end tag must stay glued to it.
func (in *indenter) afterMarkup() {
	if in.top() != wroteText {
		in.frames.SetTop(wroteMarkup)
	}
}

func (in *indenter) afterText() {
	in.frames.SetTop(wroteText)
}

// beforeMarkup writes the separation that belongs before a tag, PI,
// comment or CDATA section at the current level. Markup following text
// stays glued to it, and nothing precedes the first markup of the
// document.
func (in *indenter) beforeMarkup(p *printer) {
	switch st := in.top(); {
	case st == wroteText:
		return
	case st == wroteNothing && in.level() == 0:
		return
	}
	in.writeBreak(p, in.level())
}

// beforeEndElement writes the separation before an end tag. Only an
// element that contained markup gets its end tag on a line of its own.
func (in *indenter) beforeEndElement(p *printer) {
	if in.top() != wroteMarkup {
		return
	}
	in.writeBreak(p, in.level()-1)
}

func (in *indenter) writeBreak(p *printer, level int) {
	if !in.enabled {
		return
	}
	p.writeString(in.sep)
	for i := 0; i < level; i++ {
		p.writeString(in.indent)
	}
}
