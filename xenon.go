// Package xenon provides a streaming XML document writer and the pull
// scanner that feeds it. Events go in, properly escaped and namespaced
// markup comes out; the scanner turns existing documents back into the
// same events, which is all a reformatter needs.
package xenon

import (
	"context"
	"io"
	"log/slog"

	pdebug "github.com/lestrrat-go/pdebug/v3"
	"github.com/pkg/errors"
)

// ReleaseVersion is the library version, as reported by the command
// line tools.
const ReleaseVersion = "0.1.0"

func accumulateDecimalCharRef(val int32, c rune) (int32, error) {
	if c >= '0' && c <= '9' {
		val = val*10 + (c - '0')
	} else {
		return 0, errors.New("invalid decimal CharRef")
	}
	return val, nil
}

func accumulateHexCharRef(val int32, c rune) (int32, error) {
	if c >= '0' && c <= '9' {
		val = val*16 + (c - '0')
	} else if c >= 'a' && c <= 'f' {
		val = val*16 + (c - 'a') + 10
	} else if c >= 'A' && c <= 'F' {
		val = val*16 + (c - 'A') + 10
	} else {
		return 0, errors.New("invalid hex CharRef")
	}
	return val, nil
}

// Copy drains src into dst one event at a time, stopping at the end of
// the document. The trace logger carried by ctx, if any, receives one
// record per event. Copy does not close dst; callers that transcode
// must call dst.Close themselves.
func Copy(ctx context.Context, dst *Writer, src *Scanner) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	tlog := getTraceLogFromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := src.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, `failed to read event`)
		}

		tlog.Debug("copy event", slog.String("type", ev.Type().String()))
		if err := dst.WriteEvent(ev); err != nil {
			return errors.Wrap(err, `failed to write event`)
		}
	}
}

// Reformat scans the document in src and writes it back out to dst,
// shaped by the given options. Scanner options apply to the reading
// side, everything else to the writing side. Disabling the document
// declaration drops the input's declaration instead of copying it.
func Reformat(ctx context.Context, dst io.Writer, src []byte, options ...Option) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	var sopts []ScannerOption
	var wopts []WriterOption
	writeDecl := true
	for _, option := range options {
		switch o := option.(type) {
		case ScannerOption:
			sopts = append(sopts, o)
		case WriterOption:
			if o.Ident() == (identDocumentDeclaration{}) {
				writeDecl = o.Value().(bool)
			}
			wopts = append(wopts, o)
		default:
			return errors.Errorf(`invalid option %T`, option)
		}
	}

	s := NewScanner(src, sopts...)
	w, err := NewWriter(dst, wopts...)
	if err != nil {
		return errors.Wrap(err, `failed to create writer`)
	}

	tlog := getTraceLogFromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := s.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrap(err, `failed to read event`)
		}

		// The declaration can only ever be the first event.
		if _, ok := ev.(StartDocument); ok && !writeDecl {
			continue
		}

		tlog.Debug("copy event", slog.String("type", ev.Type().String()))
		if err := w.WriteEvent(ev); err != nil {
			return errors.Wrap(err, `failed to write event`)
		}
	}

	return w.Close()
}
