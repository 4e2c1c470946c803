package repository

import (
	"context"

	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

// SellerRepository reads sellers and the seller_products association.
type SellerRepository interface {
	// GetByID returns the seller with its ProductIDs populated, or
	// domainerr.NotFoundError.
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	// ListByProduct returns every seller referencing productID, ordered by name then id.
	ListByProduct(ctx context.Context, productID string) ([]entity.Seller, error)
	// ListProducts returns the products sold by sellerID in catalog order.
	ListProducts(ctx context.Context, sellerID string) ([]entity.Product, error)
	Count(ctx context.Context) (int, error)
}
