package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

type SellerRepository struct {
	pool *pgxpool.Pool
}

func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

var _ repository.SellerRepository = (*SellerRepository)(nil)

func (r *SellerRepository) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	const op = "SellerRepository.GetByID"
	s := &entity.Seller{}

	row := r.pool.QueryRow(ctx, `
		SELECT s.id::text, s.name,
			ARRAY(SELECT sp.product_id::text FROM seller_products sp WHERE sp.seller_id = s.id ORDER BY sp.product_id)
		FROM sellers s
		WHERE s.id = $1
	`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.ProductIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFound(domainerr.KindSeller, id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *SellerRepository) ListByProduct(ctx context.Context, productID string) ([]entity.Seller, error) {
	const op = "SellerRepository.ListByProduct"

	rows, _ := r.pool.Query(ctx, `
		SELECT s.id::text, s.name
		FROM sellers s
		JOIN seller_products sp ON sp.seller_id = s.id
		WHERE sp.product_id = $1
		ORDER BY s.name, s.id
	`, productID)
	sellers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Seller, error) {
		var s entity.Seller
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sellers, nil
}

func (r *SellerRepository) ListProducts(ctx context.Context, sellerID string) ([]entity.Product, error) {
	const op = "SellerRepository.ListProducts"

	rows, _ := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN seller_products sp ON sp.product_id = p.id
		WHERE sp.seller_id = $1`+productOrder, sellerID)
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (r *SellerRepository) Count(ctx context.Context) (int, error) {
	const op = "SellerRepository.Count"

	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sellers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
