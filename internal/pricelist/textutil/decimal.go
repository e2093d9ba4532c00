package textutil

import (
	"strconv"
	"strings"
)

// ParseDecimal converts a locale-ambiguous cell value to a float. Numeric
// types pass through; strings get currency/space stripping and German
// comma-decimal handling ("1.234,56" → 1234.56). Total function: returns
// ok=false instead of failing, it is used pervasively for heuristic scoring.
func ParseDecimal(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return ParseDecimalString(v)
	default:
		return 0, false
	}
}

// ParseDecimalString is the string arm of ParseDecimal.
func ParseDecimalString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("€", "", " ", "", " ", "").Replace(s)
	// exactly one comma: German decimal separator, periods are thousands
	if strings.Count(s, ",") == 1 {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
