// Package console renders the startup banner lines the launcher and env
// loader print before structured logging is up.
package console

import "strings"

// DefaultLineSize is the banner width used by Title.
const DefaultLineSize = 80

// Line returns a separator of size dashes.
func Line(size int) string {
	return strings.Repeat("-", size)
}

// DoubleLine returns a separator of size equals signs.
func DoubleLine(size int) string {
	return strings.Repeat("=", size)
}

// Title centers title inside a DefaultLineSize-wide double-line banner.
func Title(title string) string {
	padded := " " + title + " "

	fill := DefaultLineSize - len(padded)
	if fill < 0 {
		fill = 0
	}

	left := fill / 2

	var b strings.Builder
	b.WriteString(DoubleLine(left))
	b.WriteString(padded)
	b.WriteString(DoubleLine(fill - left))

	return b.String()
}
