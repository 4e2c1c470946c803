package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

const (
	productColumns = `p.id::text, p.name, p.brand, p.category, p.image_url`
	productOrder   = ` ORDER BY p.name, p.brand, p.category, p.id`
)

// buildProductWhere renders q as a WHERE clause over "products p" with
// positional arguments starting at $1. Empty sets add no condition.
func buildProductWhere(q repository.ProductQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	bind := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if len(q.Names) > 0 {
		bind("p.name = ANY($%d::text[])", q.Names)
	}
	if len(q.Categories) > 0 {
		cats := make([]string, 0, len(q.Categories))
		for _, c := range q.Categories {
			cats = append(cats, string(c))
		}
		bind("p.category = ANY($%d::text[])", cats)
	}
	if len(q.Brands) > 0 {
		bind("p.brand = ANY($%d::text[])", q.Brands)
	}
	if q.AvailableOnly {
		if len(q.ExcludedSellerIDs) == 0 {
			conds = append(conds, "EXISTS (SELECT 1 FROM seller_products sp WHERE sp.product_id = p.id)")
		} else {
			bind("EXISTS (SELECT 1 FROM seller_products sp WHERE sp.product_id = p.id AND sp.seller_id <> ALL($%d::text[]::uuid[]))", q.ExcludedSellerIDs)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildProductPageQuery returns the count and page statements for q.
func buildProductPageQuery(q repository.ProductQuery, page repository.PageRequest) (countSQL, pageSQL string, countArgs, pageArgs []any) {
	where, args := buildProductWhere(q)
	countSQL = `SELECT COUNT(*) FROM products p` + where
	pageSQL = `SELECT ` + productColumns + ` FROM products p` + where + productOrder +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	pageArgs = make([]any, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, page.Size, page.Offset())
	return countSQL, pageSQL, args, pageArgs
}
