package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedErrorsAreRecognized(t *testing.T) {
	nf := fmt.Errorf("ProductRepository.GetByID: %w", NotFound(KindProduct, "p1"))
	got, ok := AsNotFound(nf)
	assert.True(t, ok)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, errors.Is(nf, &NotFoundError{}))
	assert.False(t, IsAlreadyExists(nf))

	ae := fmt.Errorf("wrap: %w", ProductAlreadyExists("p2"))
	assert.True(t, IsAlreadyExists(ae))
	assert.Equal(t, "product already exists: id=p2", errors.Unwrap(ae).Error())

	assert.True(t, IsInvalidArgument(InvalidArgument("page", "must be zero or greater")))
	assert.False(t, IsNotFound(ErrNoMatchingProducts))
}
