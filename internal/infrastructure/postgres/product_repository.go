package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

const uniqueKeyConstraint = "products_name_brand_category_key"

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func scanProduct(row pgx.CollectableRow) (entity.Product, error) {
	var (
		p        entity.Product
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &category, &p.ImageURL); err != nil {
		return entity.Product{}, err
	}
	p.Category = entity.Category(category)
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	const op = "ProductRepository.GetByID"

	rows, _ := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFound(domainerr.KindProduct, id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByKey(ctx context.Context, key entity.UniqueKey, excludeID string) (*entity.Product, bool, error) {
	const op = "ProductRepository.FindByKey"

	query := `SELECT ` + productColumns + ` FROM products p
		WHERE p.name = $1 AND p.brand = $2 AND p.category = $3`
	args := []any{key.Name, key.Brand, string(key.Category)}
	if excludeID != "" {
		query += ` AND p.id <> $4`
		args = append(args, excludeID)
	}

	rows, _ := r.pool.Query(ctx, query, args...)
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &p, true, nil
}

// Find counts and pages inside one read-only repeatable-read transaction so
// the total and the page come from the same snapshot.
func (r *ProductRepository) Find(ctx context.Context, q repository.ProductQuery, page repository.PageRequest) (repository.Page[entity.Product], error) {
	const op = "ProductRepository.Find"

	countSQL, pageSQL, countArgs, pageArgs := buildProductPageQuery(q, page)
	var out repository.Page[entity.Product]

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		var total int
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return err
		}
		rows, _ := tx.Query(ctx, pageSQL, pageArgs...)
		items, err := pgx.CollectRows(rows, scanProduct)
		if err != nil {
			return err
		}
		out = repository.NewPage(items, total, page.Size)
		return nil
	})
	if err != nil {
		return repository.Page[entity.Product]{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Create is a conditional insert against the unique key; the loser of a
// race learns the winner's id from a follow-up lookup.
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	const op = "ProductRepository.Create"

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, brand, category, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT `+uniqueKeyConstraint+` DO NOTHING
	`, p.ID, p.Name, p.Brand, string(p.Category), p.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return domainerr.ProductAlreadyExists(p.ID)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return r.conflict(ctx, op, p.Key(), "")
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	const op = "ProductRepository.Update"

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, brand = $3, category = $4, image_url = $5, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Brand, string(p.Category), p.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return r.conflict(ctx, op, p.Key(), p.ID)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.NotFound(domainerr.KindProduct, p.ID)
	}
	return nil
}

func (r *ProductRepository) conflict(ctx context.Context, op string, key entity.UniqueKey, excludeID string) error {
	existing, found, err := r.FindByKey(ctx, key, excludeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		// the holder of the key was deleted in between
		return domainerr.ProductAlreadyExists("")
	}
	return domainerr.ProductAlreadyExists(existing.ID)
}

// DeleteCascade removes association rows and the product in one transaction.
// The foreign keys also cascade, so a partial delete cannot be committed.
func (r *ProductRepository) DeleteCascade(ctx context.Context, id string) (*entity.Product, error) {
	const op = "ProductRepository.DeleteCascade"

	var deleted entity.Product
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, _ := tx.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
		p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM seller_products WHERE product_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_favorite_products WHERE product_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
			return err
		}
		deleted = p
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFound(domainerr.KindProduct, id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &deleted, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	const op = "ProductRepository.Count"

	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
