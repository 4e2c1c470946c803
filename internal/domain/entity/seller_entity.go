package entity

// Seller references the products it sells through seller_products.
// Many sellers may reference the same product.
type Seller struct {
	ID         string
	Name       string
	ProductIDs []string
}
