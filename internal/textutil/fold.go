// Package textutil normalises user supplied menu text.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns a case-insensitive comparison key for s. Turkish dotted and
// dotless i fold together so "ICE", "ice" and "İçecek"/"içecek" pairs match.
func Fold(s string) string {
	folded := cases.Lower(language.Turkish).String(strings.TrimSpace(s))
	return strings.ReplaceAll(folded, "ı", "i")
}

// EqualFold reports whether a and b are equal under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
