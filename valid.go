package xenon

import (
	"unicode/utf8"
)

// Character classification for the productions we need to enforce:
// Char, S, NameStartChar and NameChar from the XML 1.0 (5th edition)
// recommendation, plus the NCName variants that exclude the colon.

func isChar(r rune) bool {
	c := uint32(r)
	if c < 0x100 {
		return (0x9 <= c && c <= 0xa) || c == 0xd || 0x20 <= c
	}
	return (0x100 <= c && c <= 0xd7ff) || (0xe000 <= c && c <= 0xfffd) || (0x10000 <= c && c <= 0x10ffff)
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func isNameStartChar(r rune) bool {
	return r == ':' || r == '_' ||
		(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= 0xc0 && r <= 0xd6) || (r >= 0xd8 && r <= 0xf6) ||
		(r >= 0xf8 && r <= 0x2ff) || (r >= 0x370 && r <= 0x37d) ||
		(r >= 0x37f && r <= 0x1fff) || (r >= 0x200c && r <= 0x200d) ||
		(r >= 0x2070 && r <= 0x218f) || (r >= 0x2c00 && r <= 0x2fef) ||
		(r >= 0x3001 && r <= 0xd7ff) || (r >= 0xf900 && r <= 0xfdcf) ||
		(r >= 0xfdf0 && r <= 0xfffd) || (r >= 0x10000 && r <= 0xeffff)
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		r == '-' || r == '.' || r == 0xb7 ||
		(r >= '0' && r <= '9') ||
		(r >= 0x300 && r <= 0x36f) || (r >= 0x203f && r <= 0x2040)
}

func isNCNameStartChar(r rune) bool {
	return r != ':' && isNameStartChar(r)
}

func isNCNameChar(r rune) bool {
	return r != ':' && isNameChar(r)
}

// checkChars verifies that s decodes to characters matched by the Char
// production. Malformed UTF-8 decodes to utf8.RuneError with a width of
// one byte, which tells it apart from a genuine U+FFFD in the input.
func checkChars(s string) error {
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && w == 1 {
			return ErrInvalidChar
		}
		if !isChar(r) {
			return ErrInvalidChar
		}
		i += w
	}
	return nil
}

func checkWhitespace(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != 0x20 && c != 0x9 && c != 0xa && c != 0xd {
			return ErrInvalidWhitespace
		}
	}
	return nil
}

// checkEncodingName enforces the EncName production: an ASCII letter
// followed by letters, digits, '.', '_' or '-'.
func checkEncodingName(s string) error {
	if s == "" {
		return ErrInvalidEncodingName
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			continue
		}
		if i > 0 && ((c >= '0' && c <= '9') || c == '.' || c == '_' || c == '-') {
			continue
		}
		return ErrInvalidEncodingName
	}
	return nil
}
