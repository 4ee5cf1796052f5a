package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productRes "github.com/Alturino/storefront/product/pkg/response"
)

// SubmitOrder is the flattened cart sent to the order endpoint at checkout.
type SubmitOrder struct {
	ID        uuid.UUID   `validate:"required"      json:"id"`
	SessionID uuid.UUID   `validate:"required"      json:"sessionId"`
	Items     []OrderItem `validate:"required,gt=0" json:"items"`
	Totals    Totals      `                         json:"totals"`
	Customer  Customer    `                         json:"customer"`
	Address   Address     `                         json:"address"`
	CreatedAt time.Time   `validate:"required"      json:"createdAt"`
}

type OrderItem struct {
	Product       productRes.Product `                          json:"product"`
	Customization map[string]any     `                          json:"customization,omitempty"`
	Quantity      int                `validate:"required,gte=1" json:"quantity"`
}

type Totals struct {
	TotalQuantity int             `json:"totalQuantity"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	Total         decimal.Decimal `json:"total"`
	Savings       decimal.Decimal `json:"savings"`
}

type Customer struct {
	Name  string `validate:"required"       json:"name"`
	Email string `validate:"required,email" json:"email"`
	Phone string `validate:"omitempty,e164" json:"phone,omitempty"`
}

type Address struct {
	Street     string `validate:"required" json:"street"`
	City       string `validate:"required" json:"city"`
	PostalCode string `                    json:"postalCode,omitempty"`
	Country    string `validate:"required" json:"country"`
	Notes      string `                    json:"notes,omitempty"`
}
