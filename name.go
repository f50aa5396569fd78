package xenon

import (
	"sort"
	"strings"
)

// Name identifies an element or attribute. Local is the local part,
// Prefix the namespace prefix (may be empty), and URI the namespace the
// name lives in. An empty URI means the name is not namespace-qualified;
// such names are rendered as-is and never cause a declaration.
type Name struct {
	Prefix string
	Local  string
	URI    string
}

// LocalName returns a Name with only the local part set.
func LocalName(local string) Name {
	return Name{Local: local}
}

// QualifiedName returns a fully qualified Name.
func QualifiedName(prefix, local, uri string) Name {
	return Name{Prefix: prefix, Local: local, URI: uri}
}

// ParseName splits a "prefix:local" string into a Name. The namespace
// URI is left empty; use QualifiedName when the URI is known.
func ParseName(s string) Name {
	if i := strings.IndexByte(s, ':'); i > -1 {
		return Name{Prefix: s[:i], Local: s[i+1:]}
	}
	return Name{Local: s}
}

// String returns the qualified form, "prefix:local" or just "local"
// when there is no prefix.
func (n Name) String() string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Local
	}
	return n.Local
}

// matches reports whether two names refer to the same element for the
// purpose of end tag matching. The URI is only compared when both names
// carry one, so a caller that did not keep track of namespaces can still
// close elements by prefix and local part.
func (n Name) matches(other Name) bool {
	if n.Local != other.Local || n.Prefix != other.Prefix {
		return false
	}
	if n.URI != "" && other.URI != "" && n.URI != other.URI {
		return false
	}
	return true
}

// Attr is a single attribute: a name plus its unescaped value.
type Attr struct {
	Name  Name
	Value string
}

func checkNameComponent(name, component string) error {
	if component == "" {
		return ErrInvalidName{Name: name}
	}
	for i, r := range component {
		if i == 0 {
			if !isNCNameStartChar(r) {
				return ErrInvalidName{Name: name}
			}
			continue
		}
		if !isNCNameChar(r) {
			return ErrInvalidName{Name: name}
		}
	}
	return nil
}

// checkName validates an element or attribute name. The prefix and the
// local part must each be an NCName; the colon only ever appears as the
// separator between them.
func checkName(n Name) error {
	if err := checkNameComponent(n.String(), n.Local); err != nil {
		return err
	}
	if n.Prefix != "" {
		return checkNameComponent(n.String(), n.Prefix)
	}
	return nil
}

// checkPITarget validates a processing instruction target. Targets may
// not contain colons, and the name "xml" in any case combination is
// reserved for the document declaration.
func checkPITarget(target string) error {
	if err := checkNameComponent(target, target); err != nil {
		return err
	}
	if strings.EqualFold(target, "xml") {
		return ErrReservedPITarget
	}
	return nil
}

// sortAttributes returns the attributes in emission order: a stable sort
// by namespace URI, then local name. Attributes that compare equal keep
// the order the caller supplied.
func sortAttributes(attrs []Attr) []Attr {
	if len(attrs) < 2 {
		return attrs
	}
	sorted := make([]Attr, len(attrs))
	copy(sorted, attrs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name.URI != sorted[j].Name.URI {
			return sorted[i].Name.URI < sorted[j].Name.URI
		}
		return sorted[i].Name.Local < sorted[j].Name.Local
	})
	return sorted
}
