package repository

import "context"

// Store is the entity store of the catalog. It is the sole owner of the
// product, seller and user collections and their associations.
type Store interface {
	Products() ProductRepository
	Sellers() SellerRepository
	Users() UserRepository
	Ping(ctx context.Context) error
}
