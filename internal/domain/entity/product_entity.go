package entity

import "strings"

// Category is a free-form product category such as "Toys" or "Electronics".
type Category string

// Product is the aggregate root of the catalog.
// (Name, Brand, Category) is unique across all products.
type Product struct {
	ID       string
	Name     string
	Brand    string
	Category Category
	ImageURL string
}

// UniqueKey is the composite uniqueness key of a product.
type UniqueKey struct {
	Name     string
	Brand    string
	Category Category
}

func (p *Product) Key() UniqueKey {
	return UniqueKey{Name: p.Name, Brand: p.Brand, Category: p.Category}
}

// ProductPatch carries an update request. Nil or whitespace-only fields
// leave the stored value untouched.
type ProductPatch struct {
	Name     *string
	Brand    *string
	Category *string
	ImageURL *string
}

// Apply merges the patch into p in place.
func (pp ProductPatch) Apply(p *Product) {
	if v, ok := present(pp.Name); ok {
		p.Name = v
	}
	if v, ok := present(pp.Category); ok {
		p.Category = Category(v)
	}
	if v, ok := present(pp.Brand); ok {
		p.Brand = v
	}
	if v, ok := present(pp.ImageURL); ok {
		p.ImageURL = v
	}
}

func present(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}
