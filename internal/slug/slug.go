// Package slug derives URL-safe identifiers from human-readable titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Make lower-cases s, folds accented letters to their base form, drops every
// character that is not a word character or whitespace, and joins the
// remaining words with single hyphens.
//
// Distinct inputs may produce the same slug; callers do not deduplicate.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	out := strings.ToLower(folded)
	out = nonWord.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)
	return whitespace.ReplaceAllString(out, "-")
}
