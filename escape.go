package xenon

// Replacement tables for the two escaping contexts. A non-empty entry
// means the byte must be replaced with that entity or character
// reference; everything else, multi-byte UTF-8 sequences included,
// passes through untouched. Character references use uppercase hex.
var textEscapes = [256]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

var attrEscapes = [256]string{
	'\t': "&#x9;",
	'\n': "&#xA;",
	'\r': "&#xD;",
	'"':  "&quot;",
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
}

func escapeString(p *printer, s string, table *[256]string) {
	var last int
	for i := 0; i < len(s); i++ {
		esc := table[s[i]]
		if esc == "" {
			continue
		}
		if last < i {
			p.writeString(s[last:i])
		}
		p.writeString(esc)
		last = i + 1
	}
	if last < len(s) {
		p.writeString(s[last:])
	}
}

// escapeText writes character data content with '&', '<' and '>'
// replaced by their predefined entities. '>' only strictly needs the
// treatment when it would complete ']]>', but escaping it everywhere is
// equally well-formed and keeps the scan to a single table lookup.
func escapeText(p *printer, s string) {
	escapeString(p, s, &textEscapes)
}

// escapeAttr writes an attribute value. On top of the text escapes it
// replaces '"' and the blank characters that attribute-value
// normalization would otherwise fold into spaces on re-parse.
func escapeAttr(p *printer, s string) {
	escapeString(p, s, &attrEscapes)
}
