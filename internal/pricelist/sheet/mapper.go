package sheet

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"pricelist-service/internal/pricelist/model"
	"pricelist-service/internal/pricelist/textutil"
)

// CanonicalUnit folds common German/English unit spellings to a fixed token.
// Unrecognized values pass through unchanged; blank defaults to "piece".
func CanonicalUnit(v string) string {
	u := strings.ToLower(strings.TrimSpace(v))
	switch u {
	case "":
		return "piece"
	case "kg", "kilogramm":
		return "kg"
	case "stk", "stück", "stueck", "piece":
		return "piece"
	case "l", "liter":
		return "l"
	}
	return strings.TrimSpace(v)
}

// pack notation: "6 x 2kg", "12x1l", "karton 10kg", "ve 10 kg"
var (
	packMultiplier = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d*[.,]?\d+)\s*(kg|g|l|ml|stk|st[üu]ck)?`)
	packPlain      = regexp.MustCompile(`(\d*[.,]?\d+)\s*(kg|g|l|ml)`)
)

func weightOrVolume(unit string) bool {
	switch unit {
	case "kg", "g", "l", "ml":
		return true
	}
	return false
}

// ParsePackInfo extracts pack size, unit and a conversion factor from free
// text. The multiplier form yields factor = count*size only for weight/volume
// units; counting units have no meaningful conversion.
func ParsePackInfo(v string) (size *float64, unit string, factor *float64) {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return nil, "", nil
	}
	if m := packMultiplier.FindStringSubmatch(s); m != nil {
		count, _ := textutil.ParseDecimalString(m[1])
		sz, ok := textutil.ParseDecimalString(m[2])
		unit = m[3]
		if unit == "" {
			unit = "piece"
		}
		if ok {
			size = &sz
			if weightOrVolume(unit) {
				f := count * sz
				factor = &f
			}
		}
		return size, unit, factor
	}
	if m := packPlain.FindStringSubmatch(s); m != nil {
		if sz, ok := textutil.ParseDecimalString(m[1]); ok {
			return &sz, m[2], &sz
		}
	}
	return nil, "", nil
}

func slug(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			if n++; n == 16 {
				break
			}
		}
	}
	return b.String()
}

// synthesizeSKU builds a deterministic identifier from the item name and the
// row's position in the raw grid, unique within one import batch.
func synthesizeSKU(name string, rowIndex int) string {
	return fmt.Sprintf("AUTO-%s-%d", slug(name), rowIndex+1)
}

func wrapDiscounts(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	// opaque payload, parsing staffel patterns is deliberately out of scope
	b, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return ""
	}
	return string(b)
}

// MapRows turns a detected table plus inferred roles into catalog items.
// Price is the only mandatory numeric field: rows without a parseable price
// are skipped, as are rows with neither name nor SKU. Every surviving item
// carries the full original header→value map of its row.
func MapRows(t *Table, roles model.ColumnRoles) ([]model.CatalogItem, error) {
	priceCol := roles.Column(model.RolePrice)
	if priceCol == "" {
		return nil, model.ErrMissingPriceColumn
	}

	skuCol := roles.Column(model.RoleSKU)
	nameCol := roles.Column(model.RoleName)
	unitCol := roles.Column(model.RoleUnit)
	vatCol := roles.Column(model.RoleVAT)
	discountsCol := roles.Column(model.RoleDiscounts)
	notesCol := roles.Column(model.RoleNotes)
	categoryCol := roles.Column(model.RoleCategory)
	packCol := roles.Column(model.RolePack)

	var items []model.CatalogItem
	for _, row := range t.Rows {
		price, ok := textutil.ParseDecimalString(t.Cell(row, priceCol))
		if !ok {
			continue
		}

		name := strings.TrimSpace(t.Cell(row, nameCol))
		sku := strings.TrimSpace(t.Cell(row, skuCol))
		switch {
		case sku == "" && name != "":
			sku = synthesizeSKU(name, row.Index)
		case name == "" && sku != "":
			name = sku
		case name == "" && sku == "":
			continue // no identifiable item
		}

		item := model.CatalogItem{
			SKU:       sku,
			Name:      name,
			Unit:      CanonicalUnit(t.Cell(row, unitCol)),
			Price:     price,
			Discounts: wrapDiscounts(t.Cell(row, discountsCol)),
			Notes:     strings.TrimSpace(t.Cell(row, notesCol)),
			Category:  strings.TrimSpace(t.Cell(row, categoryCol)),
		}
		if vat, ok := textutil.ParseDecimalString(t.Cell(row, vatCol)); ok {
			item.VAT = &vat
		}
		if packCol != "" {
			item.PackSize, item.PackUnit, item.ConversionFactor = ParsePackInfo(t.Cell(row, packCol))
		}

		original := map[string]string{}
		for i, h := range t.Headers {
			if i >= len(row.Cells) {
				break
			}
			if v := row.Cells[i]; strings.TrimSpace(v) != "" {
				original[h] = v
			}
		}
		if len(original) > 0 {
			item.OriginalColumns = original
		}

		extras := map[string]any{}
		if item.Category != "" {
			extras["category"] = item.Category
		}
		if item.PackSize != nil || item.PackUnit != "" || item.ConversionFactor != nil {
			extras["pack_size"] = item.PackSize
			extras["pack_unit"] = item.PackUnit
			extras["conversion_factor"] = item.ConversionFactor
		}
		if len(extras) > 0 {
			item.Extras = extras
		}

		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, model.ErrNoValidRows
	}
	return items, nil
}
