package response

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product is a catalog record as served by the content service. Discount is the percentage that was
// already taken off to produce Price.
type Product struct {
	ID       string          `json:"_id"                validate:"required"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"              validate:"price"`
	Discount decimal.Decimal `json:"discount"           validate:"percent"`
	Images   []string        `json:"images,omitempty"`
	Variant  string          `json:"variant,omitempty"`
	Stock    int32           `json:"stock,omitempty"`
}

func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	return p
}
