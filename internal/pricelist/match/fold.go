package match

import (
	"strings"

	"pricelist-service/internal/pricelist/textutil"
)

// Domain synonym folding: customer sheets mix German, French and English
// terms for the same thing, fold them to one token before set comparison.
var tokenSynonyms = map[string]string{
	"laib":  "wheel",
	"rad":   "wheel",
	"meule": "wheel",

	"mois":   "months",
	"monat":  "months",
	"monate": "months",
	"mt":     "months",

	"gereift": "aged",
	"affine":  "aged", // accent already stripped by Normalize
	"aged":    "aged",

	"stueck": "piece",
	"stk":    "piece",
}

// Tokens that carry no identity: units, packaging words, certification marks.
var stopwords = map[string]struct{}{
	"kg": {}, "g": {}, "l": {}, "ml": {}, "x": {},
	"karton": {}, "kiste": {}, "packung": {}, "beutel": {}, "ve": {},
	"bio": {}, "aop": {}, "aoc": {}, "dop": {}, "igp": {}, "gu": {},
	"ca": {}, "approx": {},
}

// foldTokens normalizes s and maps every token through the synonym table.
// Stopwords are kept here; the anchor check wants the full token set.
func foldTokens(s string) []string {
	fields := strings.Fields(textutil.Normalize(s))
	out := make([]string, len(fields))
	for i, tok := range fields {
		if syn, ok := tokenSynonyms[tok]; ok {
			tok = syn
		}
		out[i] = tok
	}
	return out
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// contentSet drops stopwords from a folded token list.
func contentSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, stop := stopwords[t]; stop {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
