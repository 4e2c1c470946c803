package memory

import (
	"context"

	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

// Demo ids are fixed so the demo dataset can be browsed by hand.
const (
	DemoSellerAcme    = "5b8c1d2e-0001-4a6f-9b1e-000000000001"
	DemoSellerGlobex  = "5b8c1d2e-0001-4a6f-9b1e-000000000002"
	DemoSellerInitech = "5b8c1d2e-0001-4a6f-9b1e-000000000003"

	DemoUserAlice = "7c1e2f3a-0002-4b70-8c2f-000000000001"
	DemoUserBob   = "7c1e2f3a-0002-4b70-8c2f-000000000002"
)

// SeedDemo loads a small catalog when the store holds no sellers and no
// products, mirroring the SQL bootstrap of the postgres driver.
func SeedDemo(ctx context.Context, s *Store) (bool, error) {
	sellers, err := s.Sellers().Count(ctx)
	if err != nil {
		return false, err
	}
	products, err := s.Products().Count(ctx)
	if err != nil {
		return false, err
	}
	if sellers > 0 || products > 0 {
		return false, nil
	}

	s.AddSeller(DemoSellerAcme, "Acme")
	s.AddSeller(DemoSellerGlobex, "Globex")
	s.AddSeller(DemoSellerInitech, "Initech")

	catalog := []struct {
		p       entity.Product
		sellers []string
	}{
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000001", Name: "Chicken Waffle", Brand: "Kart", Category: "Waffle"}, []string{DemoSellerAcme}},
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000002", Name: "Belgian Waffle", Brand: "Kart", Category: "Waffle"}, []string{DemoSellerAcme, DemoSellerGlobex}},
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000003", Name: "Caesar Salad", Brand: "Greenly", Category: "Salad"}, []string{DemoSellerGlobex}},
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000004", Name: "Greek Salad", Brand: "Greenly", Category: "Salad"}, []string{DemoSellerInitech}},
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000005", Name: "Margherita Pizza", Brand: "Napoli", Category: "Pizza"}, []string{DemoSellerAcme, DemoSellerInitech}},
		{entity.Product{ID: "9d2f3a4b-0003-4c81-9d3a-000000000006", Name: "Veggie Pizza", Brand: "Napoli", Category: "Pizza"}, nil},
	}
	for _, c := range catalog {
		if err := s.Products().Create(ctx, &c.p); err != nil {
			return false, err
		}
		for _, sid := range c.sellers {
			s.LinkSellerProduct(sid, c.p.ID)
		}
	}

	s.AddUser(DemoUserAlice)
	s.AddUser(DemoUserBob, DemoSellerAcme)
	s.AddFavorite(DemoUserAlice, "9d2f3a4b-0003-4c81-9d3a-000000000002")
	return true, nil
}
