package string

import (
	"strings"
)

// TrimStrings trims surrounding whitespace in place.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}

// CollapseSpaces trims s and reduces every inner whitespace run to one
// space, so "Ana   Maria\tGomez" becomes "Ana Maria Gomez".
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
