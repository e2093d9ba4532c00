package sheet

import (
	"strings"
	"unicode"

	"pricelist-service/internal/pricelist/textutil"
)

// DefaultMaxScanRows bounds the header search window. Price lists bury the
// header under a few preamble rows at most.
const DefaultMaxScanRows = 10

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// DetectHeaderRow scores the first maxScan rows of a grid (empty rows already
// removed) and returns the index of the most header-like one. Header rows are
// text-dense with recognizable vocabulary tokens, data rows are numeric-dense:
// +1 per text cell, +2 extra per vocabulary hit, -0.5 per numeric cell.
// First row with the strictly greatest score wins; index 0 by default.
func DetectHeaderRow(grid [][]string, maxScan int) int {
	limit := len(grid)
	if maxScan > 0 && maxScan < limit {
		limit = maxScan
	}
	bestIdx := 0
	bestScore := float64(-1 << 30)
	for i := 0; i < limit; i++ {
		score := 0.0
		for _, cell := range grid[i] {
			v := strings.TrimSpace(cell)
			if v == "" {
				continue
			}
			if hasLetter(v) {
				score++
				if allHeaderSynonyms.has(normalizeKey(v)) {
					score += 2
				}
			} else if _, ok := textutil.ParseDecimalString(v); ok {
				score -= 0.5
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return bestIdx
}
