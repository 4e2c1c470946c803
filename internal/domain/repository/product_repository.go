package repository

import (
	"context"
	"slices"

	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

// ProductQuery is the fixed predicate set understood by the store.
// Empty sets are unconstrained. Matching is AND across fields and OR within one.
type ProductQuery struct {
	Names      []string
	Categories []entity.Category
	Brands     []string

	// AvailableOnly keeps only products sold by at least one seller that is
	// not in ExcludedSellerIDs.
	AvailableOnly     bool
	ExcludedSellerIDs []string
}

// Match evaluates the query against a product and the ids of the sellers
// currently selling it.
func (q ProductQuery) Match(p *entity.Product, sellerIDs []string) bool {
	if len(q.Names) > 0 && !slices.Contains(q.Names, p.Name) {
		return false
	}
	if len(q.Categories) > 0 && !slices.Contains(q.Categories, p.Category) {
		return false
	}
	if len(q.Brands) > 0 && !slices.Contains(q.Brands, p.Brand) {
		return false
	}
	if !q.AvailableOnly {
		return true
	}
	for _, sid := range sellerIDs {
		if !slices.Contains(q.ExcludedSellerIDs, sid) {
			return true
		}
	}
	return false
}

// PageRequest is a zero-based page index and a positive page size.
type PageRequest struct {
	Page int
	Size int
}

func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}

// NewPage computes TotalPages as ceil(total/size).
func NewPage[T any](items []T, total, size int) Page[T] {
	return Page[T]{Items: items, Total: total, TotalPages: TotalPages(total, size)}
}

func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ProductRepository defines product persistence. Implementations order every
// listing by name, brand, category and id.
type ProductRepository interface {
	// GetByID returns domainerr.NotFoundError when the product does not exist.
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// FindByKey looks up the product holding key, ignoring excludeID when set.
	FindByKey(ctx context.Context, key entity.UniqueKey, excludeID string) (*entity.Product, bool, error)

	// Find returns the requested page of products matching q.
	Find(ctx context.Context, q ProductQuery, page PageRequest) (Page[entity.Product], error)

	// Create inserts p. A concurrent holder of the same key makes it fail
	// with domainerr.AlreadyExistsError.
	Create(ctx context.Context, p *entity.Product) error

	// Update overwrites the stored fields of p, with the same uniqueness
	// guarantee as Create.
	Update(ctx context.Context, p *entity.Product) error

	// DeleteCascade removes the product together with every seller and
	// favorite association referencing it, as one atomic unit.
	DeleteCascade(ctx context.Context, id string) (*entity.Product, error)

	Count(ctx context.Context) (int, error)
}
