package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in NFC form with case folded, so that composed and
// decomposed Cyrillic letters (й, ё) compare equal regardless of case
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether substr occurs in s, ignoring case and
// Unicode normalization differences
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// Lower lower-cases s for use as a lookup key
func Lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// Capitalize upper-cases the first letter of s and leaves the rest as is
func Capitalize(s string) string {
	for i, r := range s {
		if i == 0 {
			return cases.Title(language.Und, cases.NoLower).String(string(r)) + s[len(string(r)):]
		}
	}
	return s
}
