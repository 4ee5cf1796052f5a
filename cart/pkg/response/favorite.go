package response

import productRes "github.com/Alturino/storefront/product/pkg/response"

type Favorites struct {
	Products []productRes.Product `json:"favoriteProduct"`
	Count    int                  `json:"count"`
}

type Favorite struct {
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
}
