package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

// Store is the Postgres entity store. Associations live in the
// seller_products, user_blacklisted_sellers and user_favorite_products
// tables; (name, brand, category) is guarded by
// products_name_brand_category_key.
type Store struct {
	pool     *pgxpool.Pool
	products *ProductRepository
	sellers  *SellerRepository
	users    *UserRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		products: NewProductRepository(pool),
		sellers:  NewSellerRepository(pool),
		users:    NewUserRepository(pool),
	}
}

func (s *Store) Products() repository.ProductRepository { return s.products }
func (s *Store) Sellers() repository.SellerRepository   { return s.sellers }
func (s *Store) Users() repository.UserRepository       { return s.users }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
