package sheet

import (
	"strings"

	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/pricelist/textutil"
)

// findColumn resolves a semantic role to a header by synonym lookup. With
// preferNumeric, the first candidate whose non-blank cells are mostly
// parseable numbers wins; the first textual match is the fallback either way.
func findColumn(t *Table, synonyms stringSet, preferNumeric bool) string {
	var candidates []string
	for _, h := range t.Headers {
		if synonyms.has(normalizeKey(h)) {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	if !preferNumeric {
		return candidates[0]
	}
	for _, h := range candidates {
		numeric, total := 0, 0
		for _, v := range t.Column(h) {
			if strings.TrimSpace(v) == "" {
				continue
			}
			total++
			if _, ok := textutil.ParseDecimalString(v); ok {
				numeric++
			}
		}
		if total > 0 && float64(numeric)/float64(total) > 0.5 {
			return h
		}
	}
	return candidates[0]
}

// guessBestNumericColumn is the price fallback when no synonym matched:
// score every column by parseable count plus a bonus for positive values and
// take the maximum. Ties resolve to the leftmost column.
func guessBestNumericColumn(t *Table) string {
	best := ""
	bestScore := -1.0
	for _, h := range t.Headers {
		numeric, positive := 0, 0
		for _, v := range t.Column(h) {
			if f, ok := textutil.ParseDecimalString(v); ok {
				numeric++
				if f > 0 {
					positive++
				}
			}
		}
		score := float64(numeric) + 0.5*float64(positive)
		if score > bestScore {
			bestScore = score
			best = h
		}
	}
	return best
}

// InferColumns assigns semantic roles to the table's headers. Only price is
// mandatory for the import; its absence surfaces later in MapRows.
func InferColumns(t *Table) model.ColumnRoles {
	roles := model.ColumnRoles{
		model.RoleSKU:       findColumn(t, skuSynonyms, false),
		model.RoleName:      findColumn(t, nameSynonyms, false),
		model.RoleUnit:      findColumn(t, unitSynonyms, false),
		model.RoleVAT:       findColumn(t, vatSynonyms, true),
		model.RoleDiscounts: findColumn(t, discountSynonyms, false),
		model.RoleNotes:     findColumn(t, notesSynonyms, false),
	}
	price := findColumn(t, priceSynonyms, true)
	if price == "" {
		price = guessBestNumericColumn(t)
	}
	roles[model.RolePrice] = price

	// ad hoc enrichers, same normalized-key membership
	for _, h := range t.Headers {
		key := normalizeKey(h)
		if categorySynonyms.has(key) {
			roles[model.RoleCategory] = h
		}
		if packSynonyms.has(key) {
			roles[model.RolePack] = h
		}
	}
	return roles
}
