// Package encoding maps the charset labels that appear in XML document
// declarations onto the golang.org/x/text encodings, and builds sink
// wrappers that transcode emitted UTF-8 on its way out. It also keeps
// the x/text package names (several clash with the stdlib) out of the
// rest of xenon.
package encoding

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	enc "golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnsupportedEncoding = errors.New(`unsupported encoding`)

// Load resolves a charset label, case-insensitively, to an encoding.
// Unknown labels yield nil.
func Load(name string) enc.Encoding {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return unicode.UTF8
	case "euc-jp":
		return japanese.EUCJP
	case "shift_jis", "shift-jis", "shiftjis", "cp932":
		return japanese.ShiftJIS
	case "jis", "iso-2022-jp":
		return japanese.ISO2022JP
	case "big5":
		return traditionalchinese.Big5
	case "euc-kr":
		return korean.EUCKR
	case "hz-gb2312":
		return simplifiedchinese.HZGB2312
	case "cp437":
		return charmap.CodePage437
	case "cp866":
		return charmap.CodePage866
	case "iso-8859-10":
		return charmap.ISO8859_10
	case "iso-8859-13":
		return charmap.ISO8859_13
	case "iso-8859-14":
		return charmap.ISO8859_14
	case "iso-8859-15":
		return charmap.ISO8859_15
	case "iso-8859-16":
		return charmap.ISO8859_16
	case "iso-8859-2":
		return charmap.ISO8859_2
	case "iso-8859-3":
		return charmap.ISO8859_3
	case "iso-8859-4":
		return charmap.ISO8859_4
	case "iso-8859-5":
		return charmap.ISO8859_5
	case "iso-8859-6":
		return charmap.ISO8859_6
	case "iso-8859-7":
		return charmap.ISO8859_7
	case "iso-8859-8":
		return charmap.ISO8859_8
	case "koi8r", "koi8-r":
		return charmap.KOI8R
	case "koi8u", "koi8-u":
		return charmap.KOI8U
	case "macintosh":
		return charmap.Macintosh
	case "macintoshcyrillic":
		return charmap.MacintoshCyrillic
	case "windows1250", "windows-1250":
		return charmap.Windows1250
	case "windows1251", "windows-1251":
		return charmap.Windows1251
	case "iso-8859-1", "latin1", "latin-1", "windows1252", "windows-1252":
		return charmap.Windows1252
	case "windows1253", "windows-1253":
		return charmap.Windows1253
	case "windows1254", "windows-1254":
		return charmap.Windows1254
	case "windows1255", "windows-1255":
		return charmap.Windows1255
	case "windows1256", "windows-1256":
		return charmap.Windows1256
	case "windows1257", "windows-1257":
		return charmap.Windows1257
	case "windows1258", "windows-1258":
		return charmap.Windows1258
	case "windows874", "windows-874":
		return charmap.Windows874
	case "xuserdefined":
		return charmap.XUserDefined
	}
	return nil
}

// NewWriter wraps w so that UTF-8 text written to the result reaches w
// in the named charset. Runes the charset cannot represent are written
// as numeric character references, which keeps them legal inside XML
// text and attribute values. The returned writer must be closed to
// flush a partially transcoded rune; closing it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	e := Load(name)
	if e == nil {
		return nil, errors.Wrap(ErrUnsupportedEncoding, name)
	}
	if e == unicode.UTF8 {
		return nopCloser{Writer: w}, nil
	}
	return transform.NewWriter(w, enc.HTMLEscapeUnsupported(e.NewEncoder()).Transformer), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
