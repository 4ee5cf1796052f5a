package aggregate

import (
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

// Snapshot is the product as it was on first add, plus the customization of the line item.
// It is never refreshed from the catalog.
type Snapshot struct {
	productRes.Product
	Customization Customization `json:"customization,omitempty"`
}

type LineItem struct {
	Product  Snapshot `json:"product"`
	Quantity int      `json:"quantity"`
}

func (l LineItem) Key() Key {
	return NewKey(l.Product.ID, l.Product.Customization)
}

func (l LineItem) clone() LineItem {
	l.Product.Product = l.Product.Product.Clone()
	l.Product.Customization = l.Product.Customization.Clone()
	return l
}

// Cart is an insertion-ordered sequence of line items, unique by Key, each with Quantity >= 1.
// Cart is not safe for concurrent use.
type Cart struct {
	items []LineItem
}

// NewCart rebuilds a cart from stored items. Rows sharing a key are merged into the first one and rows
// with a non-positive quantity are dropped.
func NewCart(items ...LineItem) *Cart {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i := c.indexOf(item.Key()); i >= 0 {
			c.items[i].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item.clone())
	}
	return c
}

func (c *Cart) indexOf(key Key) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// Add increments the line item for (product, customization) or appends a new one with quantity 1.
// The stored snapshot of an existing line item is kept as is.
func (c *Cart) Add(product productRes.Product, customization Customization) LineItem {
	key := NewKey(product.ID, customization)
	if i := c.indexOf(key); i >= 0 {
		c.items[i].Quantity++
		return c.items[i].clone()
	}
	item := LineItem{
		Product: Snapshot{
			Product:       product.Clone(),
			Customization: customization.Clone(),
		},
		Quantity: 1,
	}
	c.items = append(c.items, item)
	return item.clone()
}

// RemoveOne decrements the line item matching the full identity key and deletes it once it reaches 0.
// It returns the remaining quantity and whether a line item matched.
func (c *Cart) RemoveOne(productID string, customization Customization) (int, bool) {
	i := c.indexOf(NewKey(productID, customization))
	if i < 0 {
		return 0, false
	}
	if c.items[i].Quantity <= 1 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return 0, true
	}
	c.items[i].Quantity--
	return c.items[i].Quantity, true
}

// DeleteLine removes the whole line item regardless of its quantity. Deleting a missing key is a no-op.
func (c *Cart) DeleteLine(productID string, customization Customization) bool {
	i := c.indexOf(NewKey(productID, customization))
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// RemoveQuantity takes up to quantity units off the line item with key and deletes it once it reaches 0.
// It returns the number of units removed.
func (c *Cart) RemoveQuantity(key Key, quantity int) int {
	i := c.indexOf(key)
	if i < 0 || quantity < 1 {
		return 0
	}
	if c.items[i].Quantity <= quantity {
		removed := c.items[i].Quantity
		c.items = append(c.items[:i], c.items[i+1:]...)
		return removed
	}
	c.items[i].Quantity -= quantity
	return quantity
}

func (c *Cart) Reset() {
	c.items = c.items[:0]
}

func (c *Cart) QuantityForLineItem(productID string, customization Customization) int {
	i := c.indexOf(NewKey(productID, customization))
	if i < 0 {
		return 0
	}
	return c.items[i].Quantity
}

// TotalQuantityForProduct sums the quantities of every line item of productID across customizations.
func (c *Cart) TotalQuantityForProduct(productID string) int {
	total := 0
	for _, item := range c.items {
		if item.Product.ID == productID {
			total += item.Quantity
		}
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// GroupedItems returns a copy of the line items in insertion order.
func (c *Cart) GroupedItems() []LineItem {
	items := make([]LineItem, len(c.items))
	for i, item := range c.items {
		items[i] = item.clone()
	}
	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}
