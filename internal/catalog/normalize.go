package catalog

import (
	"strconv"
	"strings"
)

// Defaults substituted for missing or malformed imported fields.
const (
	DefaultName     = "Unnamed Article"
	DefaultCategory = "Uncategorized"
)

// RawRow is one imported record before normalization. Every field holds the
// free-text cell content; the zero value stands for an absent column.
type RawRow struct {
	Name          string
	Price         string
	DiscountPrice string
	Category      string
	Description   string
	Images        string
	VideoURL      string
	Stock         string
}

// HasNamePrice is the admission filter for bulk import: only rows carrying a
// non-empty name and price are eligible for normalization.
func (r RawRow) HasNamePrice() bool {
	return strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Price) != ""
}

// Normalize converts one raw row into a canonical product record. It is pure
// and never fails; malformed fields degrade to documented defaults. The caller
// stamps ID, status, sales count, and the persistence timestamp at write time.
func Normalize(row RawRow) Product {
	images := splitImages(row.Images)

	imageURL := ""
	if len(images) > 0 {
		imageURL = images[0]
	}

	product := Product{
		Name:        strings.TrimSpace(row.Name),
		Price:       parsePrice(row.Price),
		Category:    strings.TrimSpace(row.Category),
		Description: strings.TrimSpace(row.Description),
		ImageURL:    imageURL,
		Images:      images,
		VideoURL:    strings.TrimSpace(row.VideoURL),
		Stock:       ParseStockSpec(row.Stock),
	}

	if product.Name == "" {
		product.Name = DefaultName
	}
	if product.Category == "" {
		product.Category = DefaultCategory
	}
	if discount, ok := parseOptionalPrice(row.DiscountPrice); ok {
		product.DiscountPrice = &discount
	}

	return product
}

func splitImages(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	images := make([]string, 0, 4)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			images = append(images, entry)
		}
	}
	return images
}

// parsePrice coerces a price cell, substituting 0 for garbage.
func parsePrice(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// parseOptionalPrice reports ok=false for absent or malformed values, never 0.
func parseOptionalPrice(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
