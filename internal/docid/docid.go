// Package docid normalizes and compares provider document identifiers.
//
// Documents arrive hand-typed or imported from spreadsheets, so the same
// identifier shows up with dots, dashes, slashes and stray whitespace. All
// comparison happens on the normalized digit-only form.
package docid

import "strings"

// Normalize strips every character that is not a decimal digit. It never
// fails and returns "" for empty or digit-free input.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Equal reports whether two raw documents identify the same provider: their
// normalized forms must match and be non-empty.
func Equal(a, b string) bool {
	na := Normalize(a)
	if na == "" {
		return false
	}
	return na == Normalize(b)
}

// Key returns the identity key for a provider entry: the normalized primary
// document, falling back to the normalized secondary. Empty means the entry
// has no usable identifier.
func Key(primary, secondary string) string {
	if k := Normalize(primary); k != "" {
		return k
	}
	return Normalize(secondary)
}
