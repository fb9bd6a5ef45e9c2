// Package normalize produces the canonical search keys used for
// accent- and case-insensitive product matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters (NFD) and removes the
// combining marks left behind, so "é" becomes a plain "e". Covers the
// whole Unicode Mn category, not just Latin accents.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Key converts free text into its canonical search key: lowercase,
// accents stripped, anything but ASCII letters, digits and spaces
// removed, whitespace trimmed and collapsed to single spaces.
//
// The second return value is false when nothing meaningful remains
// (or the input was empty). Callers must branch on it instead of
// filtering on an empty key, which would silently match everything.
func Key(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	s = strings.ToLower(s)

	stripped, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	// Fields trims and collapses any run of spaces in one pass.
	key := strings.Join(strings.Fields(b.String()), " ")
	if key == "" {
		return "", false
	}
	return key, true
}
