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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const op = "UserRepository.GetByID"
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT u.id::text,
			ARRAY(SELECT b.seller_id::text FROM user_blacklisted_sellers b WHERE b.user_id = u.id ORDER BY b.seller_id),
			ARRAY(SELECT f.product_id::text FROM user_favorite_products f WHERE f.user_id = u.id ORDER BY f.product_id)
		FROM users u
		WHERE u.id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.BlacklistedSellerIDs, &u.FavoriteProductIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFound(domainerr.KindUser, id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
