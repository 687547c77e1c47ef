package catalog

import "github.com/verdant-shop/verdant/internal/shared"

// ProductForm is the admin create payload.
type ProductForm struct {
	Name          string   `json:"name" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	DiscountPrice *float64 `json:"discountPrice" validate:"omitempty,gt=0"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Images        []string `json:"images" validate:"omitempty,dive,required"`
	VideoURL      string   `json:"videoUrl"`
	Stock         *Stock   `json:"stock"`
	Status        string   `json:"status" validate:"omitempty,oneof=active archived"`
}

// ProductPatch is the admin partial-update payload.
type ProductPatch struct {
	Name          *string   `json:"name" validate:"omitempty,min=1"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	DiscountPrice *float64  `json:"discountPrice" validate:"omitempty,gt=0"`
	ClearDiscount bool      `json:"clearDiscount"`
	Category      *string   `json:"category"`
	Description   *string   `json:"description"`
	Images        *[]string `json:"images"`
	VideoURL      *string   `json:"videoUrl"`
	Stock         *Stock    `json:"stock"`
	Status        *string   `json:"status" validate:"omitempty,oneof=active archived"`
}

// ListResponse wraps a paginated product listing.
type ListResponse struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}
