package application

import (
	"context"
	"math"
	"strings"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

const DefaultMaxPageSize = 100

// queryEngine turns filter requests and page cursors into store queries.
// It holds no state of its own; every call reads the store.
type queryEngine struct {
	store       repository.Store
	maxPageSize int
}

func (e queryEngine) pageRequest(page, size int) (repository.PageRequest, error) {
	if page < 0 {
		return repository.PageRequest{}, domainerr.InvalidArgument("page", "must be zero or greater")
	}
	if size < 1 {
		return repository.PageRequest{}, domainerr.InvalidArgument("size", "must be at least 1")
	}
	size = e.clampSize(size)
	// page*size+size must stay representable as an offset
	if page > (math.MaxInt-size)/size {
		return repository.PageRequest{}, domainerr.InvalidArgument("page", "is out of range")
	}
	return repository.PageRequest{Page: page, Size: size}, nil
}

func (e queryEngine) clampSize(size int) int {
	if e.maxPageSize > 0 && size > e.maxPageSize {
		return e.maxPageSize
	}
	return size
}

// availabilityFor returns the availability predicate of a user: at least one
// seller outside the user's blacklist. An empty blacklist degenerates to
// "at least one seller".
func availabilityFor(u *entity.User) repository.ProductQuery {
	q := repository.ProductQuery{AvailableOnly: true}
	if u.HasBlacklist() {
		q.ExcludedSellerIDs = u.BlacklistedSellerIDs
	}
	return q
}

func (e queryEngine) availableForUser(ctx context.Context, userID string, page, size int) (repository.Page[entity.Product], error) {
	pr, err := e.pageRequest(page, size)
	if err != nil {
		return repository.Page[entity.Product]{}, err
	}
	u, err := e.store.Users().GetByID(ctx, userID)
	if err != nil {
		return repository.Page[entity.Product]{}, err
	}
	return e.store.Products().Find(ctx, availabilityFor(u), pr)
}

func (e queryEngine) all(ctx context.Context, page, size int) (repository.Page[entity.Product], error) {
	pr, err := e.pageRequest(page, size)
	if err != nil {
		return repository.Page[entity.Product]{}, err
	}
	return e.store.Products().Find(ctx, repository.ProductQuery{}, pr)
}

// filtered applies the name/category/brand sets, and the blacklist of userID
// when it is set. An empty page is ErrNoMatchingProducts.
func (e queryEngine) filtered(ctx context.Context, f ProductFilterRequest, userID string, page, size int) (repository.Page[entity.Product], error) {
	pr, err := e.pageRequest(page, size)
	if err != nil {
		return repository.Page[entity.Product]{}, err
	}

	q := repository.ProductQuery{}
	if userID != "" {
		u, err := e.store.Users().GetByID(ctx, userID)
		if err != nil {
			return repository.Page[entity.Product]{}, err
		}
		q = availabilityFor(u)
	}
	q.Names = normalizeSet(f.ProductNames)
	q.Brands = normalizeSet(f.Brands)
	for _, c := range normalizeSet(f.Categories) {
		q.Categories = append(q.Categories, entity.Category(c))
	}

	res, err := e.store.Products().Find(ctx, q, pr)
	if err != nil {
		return repository.Page[entity.Product]{}, err
	}
	if len(res.Items) == 0 {
		return repository.Page[entity.Product]{}, domainerr.ErrNoMatchingProducts
	}
	return res, nil
}

// normalizeSet drops blank members and duplicates. A nil result means the
// field is unconstrained, never "matches nothing".
func normalizeSet(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
