package application

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/infrastructure/memory"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

type fixture struct {
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store, nil, nil, nil, "", nil, "")
	return fixture{store: store, svc: svc}
}

func (f fixture) product(t *testing.T, name, brand, category string, sellerIDs ...string) ProductDTO {
	t.Helper()
	p, err := f.svc.Create(context.Background(), CreateProductInput{Name: name, Brand: brand, Category: category})
	require.NoError(t, err)
	for _, sid := range sellerIDs {
		f.store.LinkSellerProduct(sid, p.ID)
	}
	return *p
}

func (f fixture) seller(name string) string {
	id := uuid.NewString()
	f.store.AddSeller(id, name)
	return id
}

func (f fixture) user(blacklist ...string) string {
	id := uuid.NewString()
	f.store.AddUser(id, blacklist...)
	return id
}

func names(p *ProductPage) []string {
	out := make([]string, 0, len(p.Products))
	for _, d := range p.Products {
		out = append(out, d.Name)
	}
	return out
}

func ptr(s string) *string { return &s }

func TestGetAvailableForUser_EmptyBlacklistListsProductsWithSellers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.seller("One")
	f.product(t, "Anvil", "Acme", "Tools", s1)
	f.product(t, "Bucket", "Acme", "Tools")
	f.product(t, "Chisel", "Acme", "Tools", s1)
	uid := f.user()

	page, err := f.svc.GetAvailableForUser(ctx, uid, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anvil", "Chisel"}, names(page))
	assert.Equal(t, 1, page.TotalPages)
}

func TestGetAvailableForUser_BlacklistHidesExclusiveProductsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bad := f.seller("Bad")
	good := f.seller("Good")
	f.product(t, "OnlyBad", "Acme", "Toys", bad)
	f.product(t, "Shared", "Acme", "Toys", bad, good)
	f.product(t, "OnlyGood", "Acme", "Toys", good)
	f.product(t, "Unlisted", "Acme", "Toys")
	uid := f.user(bad)

	page, err := f.svc.GetAvailableForUser(ctx, uid, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"OnlyGood", "Shared"}, names(page))
}

func TestGetAvailableForUser_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetAvailableForUser(ctx, uuid.NewString(), 0, 10)
	nf, ok := domainerr.AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindUser, nf.Kind)

	_, err = f.svc.GetAvailableForUser(ctx, "not-a-uuid", 0, 10)
	assert.True(t, domainerr.IsInvalidArgument(err))

	_, err = f.svc.GetAvailableForUser(ctx, f.user(), -1, 10)
	assert.True(t, domainerr.IsInvalidArgument(err))

	_, err = f.svc.GetAvailableForUser(ctx, f.user(), 0, 0)
	assert.True(t, domainerr.IsInvalidArgument(err))
}

func TestGetAll_IncludesUnlistedProductsAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		f.product(t, n, "Acme", "Toys")
	}

	page, err := f.svc.GetAll(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 3, page.TotalPages)

	page, err = f.svc.GetAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, names(page))
}

func TestGetAll_HugePageIsInvalidArgument(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", "Acme", "Toys")

	_, err := f.svc.GetAll(context.Background(), math.MaxInt64/2+1, 2)
	assert.True(t, domainerr.IsInvalidArgument(err))
}

func TestGetAll_ClampsPageSize(t *testing.T) {
	f := newFixture(t)
	f.svc.MaxPageSize = 2
	for _, n := range []string{"A", "B", "C"} {
		f.product(t, n, "Acme", "Toys")
	}

	page, err := f.svc.GetAll(context.Background(), 0, 50)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, f.svc.PageSize(50))
	assert.Equal(t, 1, f.svc.PageSize(1))
}

func TestCreate_DuplicateReferencesFirstProduct(t *testing.T) {
	f := newFixture(t)
	first := f.product(t, "Widget", "Acme", "Toys")

	_, err := f.svc.Create(context.Background(), CreateProductInput{Name: "Widget", Brand: "Acme", Category: "Toys"})
	ae, ok := domainerr.AsAlreadyExists(err)
	require.True(t, ok, "expected AlreadyExists, got %v", err)
	assert.Equal(t, first.ID, ae.ConflictingID)
	assert.Equal(t, domainerr.KindProduct, ae.Kind)

	_, err = f.svc.Create(context.Background(), CreateProductInput{Name: "Widget", Brand: "Acme", Category: "Games"})
	assert.NoError(t, err)
}

func TestCreate_RequiresKeyFields(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		in    CreateProductInput
		field string
	}{
		{"blank name", CreateProductInput{Name: "  ", Brand: "Acme", Category: "Toys"}, "name"},
		{"blank brand", CreateProductInput{Name: "Widget", Category: "Toys"}, "brand"},
		{"blank category", CreateProductInput{Name: "Widget", Brand: "Acme"}, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tc.in)
			var ia *domainerr.InvalidArgumentError
			require.ErrorAs(t, err, &ia)
			assert.Equal(t, tc.field, ia.Field)
		})
	}
}

func TestCreate_ConcurrentDuplicatesOnlyOneSucceeds(t *testing.T) {
	f := newFixture(t)
	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), CreateProductInput{Name: "Widget", Brand: "Acme", Category: "Toys"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, domainerr.IsAlreadyExists(err))
	}
	assert.Equal(t, 1, ok)
}

func TestUpdate_UnchangedValuesDoNotConflictWithSelf(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Acme", "Toys")

	got, err := f.svc.Update(context.Background(), p.ID, UpdateProductInput{
		Name: ptr("Widget"), Brand: ptr("Acme"), Category: ptr("Toys"),
	})
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestUpdate_PartialMerge(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Acme", "Games")

	got, err := f.svc.Update(context.Background(), p.ID, UpdateProductInput{Name: ptr(""), Category: ptr("Toys"), ImageURL: ptr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, "Toys", got.Category)
	assert.Equal(t, "Acme", got.Brand)
	assert.Empty(t, got.ImageURL)

	stored, err := f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, *got, *stored)
}

func TestUpdate_ConflictWithOtherProduct(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Widget", "Acme", "Toys")
	b := f.product(t, "Gadget", "Acme", "Toys")

	_, err := f.svc.Update(context.Background(), b.ID, UpdateProductInput{Name: ptr("Widget")})
	ae, ok := domainerr.AsAlreadyExists(err)
	require.True(t, ok)
	assert.Equal(t, a.ID, ae.ConflictingID)

	_, err = f.svc.Update(context.Background(), uuid.NewString(), UpdateProductInput{Name: ptr("X")})
	assert.True(t, domainerr.IsNotFound(err))
}

func TestDeleteByID_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.seller("Seller")
	p := f.product(t, "Widget", "Acme", "Toys", sid)
	keep := f.product(t, "Gadget", "Acme", "Toys", sid)
	uid := f.user()
	f.store.AddFavorite(uid, p.ID)

	deleted, err := f.svc.DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, *deleted)

	seller, err := f.store.Sellers().GetByID(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, seller.ProductIDs)

	user, err := f.store.Users().GetByID(ctx, uid)
	require.NoError(t, err)
	assert.NotContains(t, user.FavoriteProductIDs, p.ID)

	_, err = f.svc.GetByID(ctx, p.ID)
	nf, ok := domainerr.AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindProduct, nf.Kind)
	assert.Equal(t, p.ID, nf.ID)
}

func TestGetSellersByProductID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.seller("Beta")
	s2 := f.seller("Alpha")
	p := f.product(t, "Widget", "Acme", "Toys", s1, s2)

	sellers, err := f.svc.GetSellersByProductID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []SellerDTO{{ID: s2, Name: "Alpha"}, {ID: s1, Name: "Beta"}}, sellers)

	_, err = f.svc.GetSellersByProductID(ctx, uuid.NewString())
	assert.True(t, domainerr.IsNotFound(err))
}

func TestGetProductsBySellerID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.seller("Seller")
	f.product(t, "Widget", "Acme", "Toys", sid)
	f.product(t, "Anvil", "Acme", "Tools", sid)
	f.product(t, "Other", "Acme", "Tools")

	products, err := f.svc.GetProductsBySellerID(ctx, sid)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Anvil", products[0].Name)
	assert.Equal(t, "Widget", products[1].Name)

	_, err = f.svc.GetProductsBySellerID(ctx, uuid.NewString())
	nf, ok := domainerr.AsNotFound(err)
	require.True(t, ok)
	assert.Equal(t, domainerr.KindSeller, nf.Kind)
}

func TestFilterGlobal_EmptySetIsUnconstrained(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Ball", "Acme", "Toys")
	f.product(t, "Kite", "Zephyr", "Toys")
	f.product(t, "Hammer", "Acme", "Tools")

	page, err := f.svc.FilterGlobal(context.Background(), ProductFilterRequest{
		ProductNames: []string{},
		Categories:   []string{"Toys"},
	}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ball", "Kite"}, names(page))
}

func TestFilterGlobal_AndAcrossFieldsOrWithin(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Ball", "Acme", "Toys")
	f.product(t, "Kite", "Zephyr", "Toys")
	f.product(t, "Hammer", "Acme", "Tools")
	f.product(t, "Saw", "Zephyr", "Tools")

	page, err := f.svc.FilterGlobal(context.Background(), ProductFilterRequest{
		Categories: []string{"Toys", "Tools"},
		Brands:     []string{"Acme"},
	}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ball", "Hammer"}, names(page))
}

func TestFilterGlobal_NoMatchIsAnError(t *testing.T) {
	f := newFixture(t)
	f.product(t, "Ball", "Acme", "Toys")

	_, err := f.svc.FilterGlobal(context.Background(), ProductFilterRequest{Brands: []string{"Nope"}}, 0, 10)
	assert.True(t, errors.Is(err, domainerr.ErrNoMatchingProducts))

	_, err = f.svc.FilterGlobal(context.Background(), ProductFilterRequest{}, 5, 10)
	assert.ErrorIs(t, err, domainerr.ErrNoMatchingProducts)
}

func TestFilterForUser_AppliesBlacklist(t *testing.T) {
	f := newFixture(t)
	bad := f.seller("Bad")
	good := f.seller("Good")
	f.product(t, "Ball", "Acme", "Toys", bad)
	f.product(t, "Kite", "Acme", "Toys", bad, good)
	f.product(t, "Yoyo", "Acme", "Toys")
	uid := f.user(bad)

	page, err := f.svc.FilterForUser(context.Background(), ProductFilterRequest{UserID: uid, Categories: []string{"Toys"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kite"}, names(page))

	_, err = f.svc.FilterForUser(context.Background(), ProductFilterRequest{UserID: uid, ProductNames: []string{"Ball"}}, 0, 10)
	assert.ErrorIs(t, err, domainerr.ErrNoMatchingProducts)

	_, err = f.svc.FilterForUser(context.Background(), ProductFilterRequest{UserID: uuid.NewString()}, 0, 10)
	assert.True(t, domainerr.IsNotFound(err))
}

func TestMutationsPublishEvents(t *testing.T) {
	f := newFixture(t)
	pub := new(MockPublisher)
	f.svc.Events = pub
	ctx := context.Background()

	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(ev ProductEvent) bool { return ev.Type == ProductCreated })).Return(nil).Once()
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(ev ProductEvent) bool { return ev.Type == ProductUpdated })).Return(errors.New("broker down")).Once()
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(ev ProductEvent) bool { return ev.Type == ProductDeleted })).Return(nil).Once()

	p, err := f.svc.Create(ctx, CreateProductInput{Name: "Widget", Brand: "Acme", Category: "Toys"})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, p.ID, UpdateProductInput{Brand: ptr("Globex")})
	require.NoError(t, err, "publish failures must not fail the mutation")
	_, err = f.svc.DeleteByID(ctx, p.ID)
	require.NoError(t, err)

	pub.AssertExpectations(t)
}

func TestSearchAndUploadWithoutBackends(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Acme", "Toys")

	hits, err := f.svc.Search(context.Background(), "widget", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = f.svc.UploadImage(context.Background(), p.ID, nil, "a.png", "image/png")
	assert.ErrorIs(t, err, ErrImageStorageDisabled)

	_, err = f.svc.UploadImage(context.Background(), uuid.NewString(), nil, "a.png", "image/png")
	assert.True(t, domainerr.IsNotFound(err))
}
