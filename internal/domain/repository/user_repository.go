package repository

import (
	"context"

	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

// UserRepository reads users together with their blacklist and favorites.
type UserRepository interface {
	// GetByID returns domainerr.NotFoundError when the user does not exist.
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
