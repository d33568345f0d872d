// Package textnorm folds place names into comparison keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s, strips diacritics and removes apostrophes, so that
// "Olho d'Água" and "OLHO DAGUA" compare equal.
func Fold(s string) string {
	// Chained transformers keep state, so each call builds its own.
	unaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(unaccent, s)
	if err != nil {
		out = s
	}
	out = strings.ToUpper(strings.TrimSpace(out))
	return strings.NewReplacer("'", "", "’", "", "`", "").Replace(out)
}
