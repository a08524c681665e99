// Package path implements the dotted permission-path syntax: tokens joined
// by '.', where "?" matches exactly one part and "*" matches one or more
// parts at lookup time. Parsing and formatting are the cheap, common-case
// operations; paths are typically no more than a handful of parts long.
package path

import (
	"strings"

	"github.com/rustperms/rustperms/pkg/rperrors"
)

// Part is a single non-empty token of a Path. The tokens "?" and "*" are
// reserved wildcards interpreted specially by the trie (pkg/rustperms/trie).
type Part = string

// Wildcard tokens recognized by the trie at lookup time.
const (
	WildcardOne = "?"
	WildcardAny = "*"
)

// Path is an ordered sequence of Parts, parsed left-to-right from a dotted
// string such as "store.upload.id".
type Path []Part

// Parse splits a dotted string into a Path. It rejects the empty string and
// any part containing '.', '{' or '}' (reserved for path templates).
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, rperrors.ValidationError{Message: "permission path must not be empty"}
	}

	parts := strings.Split(s, ".")
	out := make(Path, 0, len(parts))

	for _, p := range parts {
		if p == "" {
			return nil, rperrors.ValidationError{Message: "permission path must not contain empty parts: " + s}
		}

		if strings.ContainsAny(p, "{}") {
			return nil, rperrors.ValidationError{Message: "permission path part must not contain '{' or '}': " + p}
		}

		out = append(out, p)
	}

	return out, nil
}

// MustParse is Parse but panics on error; reserved for static paths known at
// compile time (tests, constants).
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return p
}

// Format joins the Path back into its dotted string form.
func (p Path) Format() string {
	return strings.Join(p, ".")
}

// Equal reports whether two paths have the same parts in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// Clone returns a copy of p so callers can mutate the result without
// aliasing the receiver's backing array.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)

	return out
}
