package postgres

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

// newTestStore migrates a throwaway schema in the database named by
// DATABASE_URL and drops it when the test ends. Without DATABASE_URL the
// test is skipped.
func newTestStore(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	schema := "catalog_test_" + uuid.NewString()[:8]
	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, RunMigrations(pool, "../../../db/migrations", logger))

	return NewStore(pool), pool
}

func insertProduct(t *testing.T, s *Store, name string) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: uuid.NewString(), Name: name, Brand: "Acme", Category: "Toys"}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func TestProductRepository_CreateConflictReportsHolder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	first := insertProduct(t, s, "Widget")

	err := s.Products().Create(ctx, &entity.Product{ID: uuid.NewString(), Name: "Widget", Brand: "Acme", Category: "Toys"})
	ae, ok := domainerr.AsAlreadyExists(err)
	require.True(t, ok, "expected AlreadyExistsError, got %v", err)
	assert.Equal(t, first.ID, ae.ConflictingID)

	count, err := s.Products().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProductRepository_ConcurrentCreateOneWinner(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Products().Create(ctx, &entity.Product{ID: uuid.NewString(), Name: "Widget", Brand: "Acme", Category: "Toys"})
		}()
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.True(t, domainerr.IsAlreadyExists(err), "unexpected error %v", err)
	}
	assert.Equal(t, 1, won)
}

func TestProductRepository_UpdateConflictExcludesSelf(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	widget := insertProduct(t, s, "Widget")
	gadget := insertProduct(t, s, "Gadget")

	// rewriting its own key is not a conflict
	require.NoError(t, s.Products().Update(ctx, gadget))

	moved := *gadget
	moved.Name = "Widget"
	ae, ok := domainerr.AsAlreadyExists(s.Products().Update(ctx, &moved))
	require.True(t, ok)
	assert.Equal(t, widget.ID, ae.ConflictingID)

	missing := entity.Product{ID: uuid.NewString(), Name: "X", Brand: "Acme", Category: "Toys"}
	assert.True(t, domainerr.IsNotFound(s.Products().Update(ctx, &missing)))
}

func TestProductRepository_DeleteCascade(t *testing.T) {
	s, pool := newTestStore(t)
	ctx := context.Background()
	p := insertProduct(t, s, "Widget")
	other := insertProduct(t, s, "Gadget")
	sellerID, userID := uuid.NewString(), uuid.NewString()

	_, err := pool.Exec(ctx, `INSERT INTO sellers (id, name) VALUES ($1, 'Acme Store')`, sellerID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO users (id) VALUES ($1)`, userID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO seller_products (seller_id, product_id) VALUES ($1, $2), ($1, $3)`, sellerID, p.ID, other.ID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO user_favorite_products (user_id, product_id) VALUES ($1, $2)`, userID, p.ID)
	require.NoError(t, err)

	deleted, err := s.Products().DeleteCascade(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", deleted.Name)

	seller, err := s.Sellers().GetByID(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, seller.ProductIDs)

	user, err := s.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.FavoriteProductIDs)

	_, err = s.Products().DeleteCascade(ctx, p.ID)
	assert.True(t, domainerr.IsNotFound(err))
}

func TestProductRepository_FindAvailabilityAndPaging(t *testing.T) {
	s, pool := newTestStore(t)
	ctx := context.Background()
	a := insertProduct(t, s, "A")
	b := insertProduct(t, s, "B")
	insertProduct(t, s, "C")
	blocked, open := uuid.NewString(), uuid.NewString()

	_, err := pool.Exec(ctx, `INSERT INTO sellers (id, name) VALUES ($1, 'Blocked'), ($2, 'Open')`, blocked, open)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO seller_products (seller_id, product_id) VALUES ($1, $2), ($1, $3), ($4, $3)`, blocked, a.ID, b.ID, open)
	require.NoError(t, err)

	page, err := s.Products().Find(ctx, repository.ProductQuery{}, repository.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "C", page.Items[0].Name)

	avail, err := s.Products().Find(ctx, repository.ProductQuery{AvailableOnly: true, ExcludedSellerIDs: []string{blocked}}, repository.PageRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, avail.Items, 1)
	assert.Equal(t, b.ID, avail.Items[0].ID)
	assert.Equal(t, 1, avail.Total)
}
