package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFullRow(t *testing.T) {
	product := Normalize(RawRow{
		Name:          "Linen Tee",
		Price:         "499.90",
		DiscountPrice: "399",
		Category:      "Shirts",
		Description:   "Breathable summer tee",
		Images:        "a.jpg;b.jpg",
		VideoURL:      "https://cdn.example/v.mp4",
		Stock:         "M:5;L:3",
	})

	require.Equal(t, "Linen Tee", product.Name)
	require.Equal(t, 499.90, product.Price)
	require.NotNil(t, product.DiscountPrice)
	require.Equal(t, 399.0, *product.DiscountPrice)
	require.Equal(t, "Shirts", product.Category)
	require.Equal(t, []string{"a.jpg", "b.jpg"}, product.Images)
	require.Equal(t, "a.jpg", product.ImageURL)
	require.Equal(t, map[string]int{"M": 5, "L": 3}, product.Stock.BySize)
}

func TestNormalizeDefaults(t *testing.T) {
	product := Normalize(RawRow{})

	require.Equal(t, DefaultName, product.Name)
	require.Equal(t, 0.0, product.Price)
	require.Nil(t, product.DiscountPrice)
	require.Equal(t, DefaultCategory, product.Category)
	require.Empty(t, product.Description)
	require.Equal(t, []string{}, product.Images)
	require.Empty(t, product.ImageURL)
	require.Empty(t, product.VideoURL)
	require.Equal(t, FlatStock(0), product.Stock)
}

func TestNormalizeMalformedNumbersDegrade(t *testing.T) {
	product := Normalize(RawRow{Name: "Cap", Price: "cheap", DiscountPrice: "n/a"})

	require.Equal(t, 0.0, product.Price)
	// A bad discount stays absent, never 0.
	require.Nil(t, product.DiscountPrice)
}

func TestNormalizeImageURLTracksFirstImage(t *testing.T) {
	missing := Normalize(RawRow{Name: "Cap", Price: "100"})
	require.Equal(t, []string{}, missing.Images)
	require.Equal(t, "", missing.ImageURL)

	ragged := Normalize(RawRow{Name: "Cap", Price: "100", Images: " a.jpg ;; b.jpg "})
	require.Equal(t, []string{"a.jpg", "b.jpg"}, ragged.Images)
	require.Equal(t, "a.jpg", ragged.ImageURL)
}

func TestHasNamePrice(t *testing.T) {
	require.True(t, RawRow{Name: "Tee", Price: "500"}.HasNamePrice())
	require.False(t, RawRow{Name: "", Price: "200"}.HasNamePrice())
	require.False(t, RawRow{Name: "Tee", Price: "  "}.HasNamePrice())
}
