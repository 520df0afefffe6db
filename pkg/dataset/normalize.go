// CLAUDE:SUMMARY Canonical search key: accent folding (x/text), transliteration of remaining non-ASCII (unidecode), ASCII lower-case.
package dataset

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw text to its canonical search key.
type Normalizer func(string) string

// Normalize folds diacritics, transliterates what is left outside ASCII and
// lower-cases the result (e.g. "Ótimo" -> "otimo", "Ødegård" -> "odegard").
// The empty string maps to itself. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	if isASCII(s) {
		return strings.ToLower(s)
	}

	// transform.Chain keeps state between calls, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	if !isASCII(folded) {
		folded = unidecode.Unidecode(folded)
	}
	return strings.ToLower(folded)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
