package aggregate

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UnitSubTotal is the reference unit price before discount: price + discount% of price.
// Discount is stored as the percentage already removed from price, so this marks the price up
// instead of down. Kept that way because displayed savings depend on it.
func (l LineItem) UnitSubTotal() decimal.Decimal {
	price := l.Product.Price
	return price.Add(l.Product.Discount.Mul(price).Div(hundred))
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) LineSubTotal() decimal.Decimal {
	return l.UnitSubTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums price x quantity using the snapshot prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SubTotal sums the marked-up reference price x quantity. It equals Total when no item has a discount.
func (c *Cart) SubTotal() decimal.Decimal {
	subTotal := decimal.Zero
	for _, item := range c.items {
		subTotal = subTotal.Add(item.LineSubTotal())
	}
	return subTotal
}

// Savings is the displayed discount amount, SubTotal - Total.
func (c *Cart) Savings() decimal.Decimal {
	return c.SubTotal().Sub(c.Total())
}
