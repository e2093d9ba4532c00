package sheet

import "strings"

// Header vocabulary for German/English price lists. Keys are normalized with
// normalizeKey before lookup.
type stringSet map[string]struct{}

func newSet(words ...string) stringSet {
	s := make(stringSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s stringSet) has(k string) bool { _, ok := s[k]; return ok }

var (
	skuSynonyms = newSet(
		"sku", "artikelnummer", "artnr", "artikelnr", "artikel nr", "art nr",
		"artikel", "code", "produktcode", "product code", "item code", "nummer", "nr",
	)
	nameSynonyms = newSet(
		"bezeichnung", "produkt", "artikelbezeichnung", "produktname", "name", "warenbezeichnung",
		"description", "beschreibung", "artikel",
	)
	unitSynonyms = newSet(
		"einheit", "me", "ve", "maßeinheit", "masseinheit", "unit", "uom",
	)
	priceSynonyms = newSet(
		"preis", "listenpreis", "vk", "vk preis", "verkaufspreis", "netto", "netto preis",
		"nettopreis", "brutto", "brutto preis", "bruttopreis", "price", "unit price", "einzelpreis",
	)
	vatSynonyms      = newSet("mwst", "ust", "vat", "tax", "steuer")
	discountSynonyms = newSet(
		"rabatt", "rabattstaffel", "staffel", "staffelpreis", "mengenrabatt", "discount",
	)
	notesSynonyms    = newSet("notizen", "hinweise", "notes", "bemerkung", "bemerkungen")
	categorySynonyms = newSet("kategorie", "warengruppe", "category", "gruppe")
	packSynonyms     = newSet("packung", "packungseinheit", "pack", "pack size", "ve")
)

// allHeaderSynonyms is the union used by the header-row detector: a cell whose
// normalized form appears here is strong evidence for a header row.
var allHeaderSynonyms = func() stringSet {
	union := stringSet{}
	for _, s := range []stringSet{
		skuSynonyms, nameSynonyms, unitSynonyms, priceSynonyms,
		vatSynonyms, discountSynonyms, notesSynonyms,
	} {
		for k := range s {
			union[k] = struct{}{}
		}
	}
	return union
}()

var headerKeyFold = strings.NewReplacer(
	"(", " ", ")", " ", "[", " ", "]", " ", "/", " ", `\`, " ",
	".", " ", ",", " ", ":", " ", ";", " ", "-", " ", "_", " ",
)

// normalizeKey canonicalizes a column label for vocabulary lookup. Lighter
// than textutil.Normalize: no transliteration, the vocabulary carries both
// spellings where it matters ("maßeinheit"/"masseinheit").
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = headerKeyFold.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
