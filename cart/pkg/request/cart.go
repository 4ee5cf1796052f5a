package request

import (
	orderReq "github.com/Alturino/storefront/order/pkg/request"
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

type AddItem struct {
	Product       productRes.Product `json:"product"`
	Customization map[string]any     `json:"customization,omitempty"`
}

// LineItem addresses one cart row. An omitted customization addresses the uncustomized row only.
type LineItem struct {
	ProductID     string         `validate:"required" json:"productId"`
	Customization map[string]any `                    json:"customization,omitempty"`
}

type Checkout struct {
	Customer orderReq.Customer `json:"customer"`
	Address  orderReq.Address  `json:"address"`
}
