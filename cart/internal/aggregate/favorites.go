package aggregate

import (
	productRes "github.com/Alturino/storefront/product/pkg/response"
)

// Favorites is an insertion-ordered set of products keyed by product id.
type Favorites struct {
	products []productRes.Product
}

func NewFavorites(products ...productRes.Product) *Favorites {
	f := &Favorites{products: make([]productRes.Product, 0, len(products))}
	for _, p := range products {
		if f.indexOf(p.ID) >= 0 {
			continue
		}
		f.products = append(f.products, p.Clone())
	}
	return f
}

func (f *Favorites) indexOf(productID string) int {
	for i, p := range f.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// Toggle removes product if it is a favorite, otherwise adds a copy of it. It reports whether product
// is a favorite afterwards.
func (f *Favorites) Toggle(product productRes.Product) bool {
	if f.Remove(product.ID) {
		return false
	}
	f.products = append(f.products, product.Clone())
	return true
}

func (f *Favorites) Remove(productID string) bool {
	i := f.indexOf(productID)
	if i < 0 {
		return false
	}
	f.products = append(f.products[:i], f.products[i+1:]...)
	return true
}

func (f *Favorites) Reset() {
	f.products = f.products[:0]
}

func (f *Favorites) Contains(productID string) bool {
	return f.indexOf(productID) >= 0
}

func (f *Favorites) Products() []productRes.Product {
	products := make([]productRes.Product, len(f.products))
	for i, p := range f.products {
		products[i] = p.Clone()
	}
	return products
}

func (f *Favorites) Len() int {
	return len(f.products)
}
