package request

import productRes "github.com/Alturino/storefront/product/pkg/response"

type ToggleFavorite struct {
	Product productRes.Product `json:"product"`
}
