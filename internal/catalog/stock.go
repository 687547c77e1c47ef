package catalog

import (
	"strconv"
	"strings"
)

// ParseStockSpec parses the compact stock column of an imported row.
//
// A field containing ':' is read as ';'-separated "label:count" pairs, labels
// trimmed and upper-cased. Pairs with an empty label, an unparsable count, or
// a negative count are skipped. A field without ':' is read as one flat count;
// anything unparsable, including the empty field, yields a flat 0.
//
// The parser never fails: bulk import feeds it arbitrary spreadsheet content
// and a degraded value beats a rejected row.
func ParseStockSpec(raw string) Stock {
	if strings.Contains(raw, ":") {
		bySize := make(map[string]int)
		for _, pair := range strings.Split(raw, ";") {
			label, qtyText, ok := strings.Cut(pair, ":")
			if !ok {
				continue
			}
			label = strings.ToUpper(strings.TrimSpace(label))
			if label == "" {
				continue
			}
			qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
			if err != nil || qty < 0 {
				continue
			}
			bySize[label] = qty
		}
		return SizedStock(bySize)
	}

	flat, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || flat < 0 {
		return FlatStock(0)
	}
	return FlatStock(flat)
}
