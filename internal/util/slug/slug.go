// Package slug derives filesystem- and package.json-safe names from
// user-provided project titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks,
// so "Café" folds to "Cafe" before ASCII filtering.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts an arbitrary display name into a lowercase hyphenated slug
// suitable for a directory name and an npm package name. Characters outside
// [a-z0-9] become hyphens; runs of hyphens collapse; leading and trailing
// hyphens are trimmed. An input that folds to nothing returns "app".
func Make(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to raw input.
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // trims leading hyphens
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "app"
	}
	return s
}

// Valid reports whether name is already an acceptable slug.
func Valid(name string) bool {
	return name != "" && Make(name) == name
}
