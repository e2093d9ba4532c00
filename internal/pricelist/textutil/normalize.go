package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// German sharp s and umlauts are transliterated before combining marks are
// stripped, so "Käse" and "kaese" normalize to the same string.
var umlauts = strings.NewReplacer(
	"ß", "ss",
	"ä", "ae", "ö", "oe", "ü", "ue",
)

// "1_4" / "1-4" are pack-size fractions, keep them as "1/4" before the
// punctuation fold eats the separator.
var fracSep = regexp.MustCompile(`(\d)[_-](\d)`)

var punctToSpace = strings.NewReplacer(
	",", " ", ";", " ", ":", " ", ".", " ",
	"(", " ", ")", " ", "[", " ", "]", " ", "{", " ", "}", " ",
	"-", " ", "_", " ", "+", " ", "*", " ", "|", " ", "~", " ",
	"!", " ", "?", " ", "'", " ", `"`, " ",
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a string for fuzzy comparison: lowercase, umlaut
// transliteration, accent stripping, fraction normalization, punctuation
// folded to spaces, whitespace collapsed. Pure and total: empty in, empty out.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = umlauts.Replace(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = fracSep.ReplaceAllString(s, "$1/$2")
	s = punctToSpace.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
