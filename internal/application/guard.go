package application

import (
	"context"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

// consistencyGuard is the fast path for uniqueness errors. The store
// enforces the same key on write, so a racing writer still gets
// AlreadyExists from Create/Update.
type consistencyGuard struct {
	products repository.ProductRepository
}

func (g consistencyGuard) validateUniqueOnCreate(ctx context.Context, key entity.UniqueKey) error {
	return g.validateUnique(ctx, key, "")
}

// validateUniqueOnUpdate ignores excludeID so a product can be saved with
// its own unchanged values.
func (g consistencyGuard) validateUniqueOnUpdate(ctx context.Context, key entity.UniqueKey, excludeID string) error {
	return g.validateUnique(ctx, key, excludeID)
}

func (g consistencyGuard) validateUnique(ctx context.Context, key entity.UniqueKey, excludeID string) error {
	existing, found, err := g.products.FindByKey(ctx, key, excludeID)
	if err != nil {
		return err
	}
	if found {
		return domainerr.ProductAlreadyExists(existing.ID)
	}
	return nil
}

// applyPartialUpdate returns a copy of p with the non-blank patch fields merged in.
func applyPartialUpdate(p entity.Product, patch entity.ProductPatch) entity.Product {
	patch.Apply(&p)
	return p
}

func (g consistencyGuard) cascadeDelete(ctx context.Context, id string) (*entity.Product, error) {
	return g.products.DeleteCascade(ctx, id)
}
