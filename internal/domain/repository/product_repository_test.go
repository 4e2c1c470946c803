package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

func TestProductQuery_Match(t *testing.T) {
	p := &entity.Product{ID: "p1", Name: "Ball", Brand: "Acme", Category: "Toys"}

	cases := []struct {
		name    string
		q       ProductQuery
		sellers []string
		want    bool
	}{
		{"unconstrained", ProductQuery{}, nil, true},
		{"name hit", ProductQuery{Names: []string{"Kite", "Ball"}}, nil, true},
		{"name miss", ProductQuery{Names: []string{"Kite"}}, nil, false},
		{"category and brand", ProductQuery{Categories: []entity.Category{"Toys"}, Brands: []string{"Acme"}}, nil, true},
		{"brand miss", ProductQuery{Categories: []entity.Category{"Toys"}, Brands: []string{"Zephyr"}}, nil, false},
		{"available without sellers", ProductQuery{AvailableOnly: true}, nil, false},
		{"available with seller", ProductQuery{AvailableOnly: true}, []string{"s1"}, true},
		{"only blacklisted sellers", ProductQuery{AvailableOnly: true, ExcludedSellerIDs: []string{"s1"}}, []string{"s1"}, false},
		{"mixed sellers", ProductQuery{AvailableOnly: true, ExcludedSellerIDs: []string{"s1"}}, []string{"s1", "s2"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.Match(p, tc.sellers))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 1, TotalPages(2, 2))
	assert.Equal(t, 0, TotalPages(0, 2))
	assert.Equal(t, 0, TotalPages(5, 0))
}
