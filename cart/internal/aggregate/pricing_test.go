package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	productRes "github.com/Alturino/storefront/product/pkg/response"
)

func TestPricing(t *testing.T) {
	tests := []struct {
		name             string
		setup            func(cart *Cart)
		expectedTotal    string
		expectedSubTotal string
		expectedSavings  string
	}{
		{
			name: "given items without discount should sum price times quantity",
			setup: func(cart *Cart) {
				cart.Add(soap("p1", 100, 0), nil)
				cart.Add(soap("p1", 100, 0), nil)
				cart.Add(soap("p2", 50, 0), nil)
			},
			expectedTotal:    "250",
			expectedSubTotal: "250",
			expectedSavings:  "0",
		},
		{
			name: "given discounted item should mark subtotal up from price",
			setup: func(cart *Cart) {
				cart.Add(soap("p1", 90, 10), nil)
			},
			expectedTotal:    "90",
			expectedSubTotal: "99",
			expectedSavings:  "9",
		},
		{
			name: "given discounted item with quantity should multiply marked up unit price",
			setup: func(cart *Cart) {
				cart.Add(soap("p1", 90, 10), Customization{"scent": "mint"})
				cart.Add(soap("p1", 90, 10), Customization{"scent": "mint"})
				cart.Add(soap("p2", 40, 0), nil)
			},
			expectedTotal:    "220",
			expectedSubTotal: "238",
			expectedSavings:  "18",
		},
		{
			name: "given product without price and discount should count as zero",
			setup: func(cart *Cart) {
				cart.Add(productRes.Product{ID: "free"}, nil)
				cart.Add(soap("p1", 15, 0), nil)
			},
			expectedTotal:    "15",
			expectedSubTotal: "15",
			expectedSavings:  "0",
		},
		{
			name:             "given empty cart should be zero",
			setup:            func(cart *Cart) {},
			expectedTotal:    "0",
			expectedSubTotal: "0",
			expectedSavings:  "0",
		},
		{
			name: "given fractional price should keep exact decimals",
			setup: func(cart *Cart) {
				cart.Add(productRes.Product{
					ID:       "p1",
					Price:    decimal.RequireFromString("12.5"),
					Discount: decimal.RequireFromString("20"),
				}, nil)
			},
			expectedTotal:    "12.5",
			expectedSubTotal: "15",
			expectedSavings:  "2.5",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cart := NewCart()
			test.setup(cart)

			assert.Equal(t, test.expectedTotal, cart.Total().String())
			assert.Equal(t, test.expectedSubTotal, cart.SubTotal().String())
			assert.Equal(t, test.expectedSavings, cart.Savings().String())
			assert.True(t, cart.SubTotal().GreaterThanOrEqual(cart.Total()))
		})
	}
}

func TestPricingFollowsMutations(t *testing.T) {
	cart := NewCart()
	cart.Add(soap("p1", 100, 0), nil)
	cart.Add(soap("p1", 100, 0), nil)
	assert.Equal(t, "200", cart.Total().String())

	cart.RemoveOne("p1", nil)
	assert.Equal(t, "100", cart.Total().String())

	cart.DeleteLine("p1", nil)
	assert.Equal(t, "0", cart.Total().String())
}
