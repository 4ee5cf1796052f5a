package response

import (
	"github.com/shopspring/decimal"

	productRes "github.com/Alturino/storefront/product/pkg/response"
)

type LineItem struct {
	Product       productRes.Product `json:"product"`
	Customization map[string]any     `json:"customization,omitempty"`
	Fingerprint   string             `json:"fingerprint,omitempty"`
	Quantity      int                `json:"quantity"`
	LineTotal     decimal.Decimal    `json:"lineTotal"`
	LineSubTotal  decimal.Decimal    `json:"lineSubTotal"`
}

type Cart struct {
	Items         []LineItem      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	Total         decimal.Decimal `json:"total"`
	Savings       decimal.Decimal `json:"savings"`
}

type Quantity struct {
	ProductID     string         `json:"productId"`
	Customization map[string]any `json:"customization,omitempty"`
	Quantity      int            `json:"quantity"`
}

type RemoveOne struct {
	ProductID string `json:"productId"`
	Removed   bool   `json:"removed"`
	Remaining int    `json:"remaining"`
}

type DeleteLine struct {
	ProductID string `json:"productId"`
	Deleted   bool   `json:"deleted"`
}
