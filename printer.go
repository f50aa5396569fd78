package xenon

import (
	"io"
)

// printer accumulates the first write error and swallows the rest, so
// that the emitter can issue a sequence of writes without checking each
// one. The emitter inspects p.err once, after it is done mutating its
// own state.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) writeString(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}
