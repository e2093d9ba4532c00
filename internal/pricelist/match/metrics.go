package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// All metrics take already-normalized strings and return a score in 0..100.

// ratioScore is the sequence-alignment similarity of the two strings.
func ratioScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio() * 100
}

// diceScore is the Dice coefficient 2|A∩B| / (|A|+|B|) of two token sets.
func diceScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 200 * float64(intersectionSize(a, b)) / float64(len(a)+len(b))
}

// trigramSet builds the character-trigram set of s with spaces removed.
// Strings shorter than three runes contribute themselves as a single gram.
func trigramSet(s string) map[string]struct{} {
	s = strings.ReplaceAll(s, " ", "")
	set := make(map[string]struct{})
	if s == "" {
		return set
	}
	r := []rune(s)
	if len(r) < 3 {
		set[s] = struct{}{}
		return set
	}
	for i := 0; i+3 <= len(r); i++ {
		set[string(r[i:i+3])] = struct{}{}
	}
	return set
}

// jaccardScore is |A∩B| / |A∪B| of two trigram sets.
func jaccardScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := intersectionSize(a, b)
	union := len(a) + len(b) - inter
	return 100 * float64(inter) / float64(union)
}

// damerauLevenshtein is the edit distance with adjacent transpositions.
func damerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := 0; i <= al; i++ {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := dp[i-2][j-2] + 1; v < dp[i][j] {
					dp[i][j] = v
				}
			}
		}
	}
	return dp[al][bl]
}

// EditSimilarity scores two strings by normalized Damerau-Levenshtein
// distance. It is the default backing for the Scorer's optional edit metric.
func EditSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	return 100 * (1 - float64(d)/float64(m))
}
