// Package memory provides a thread-safe in-memory entity store.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

// links is an association table keyed by (left, right) id pairs, indexed in
// both directions.
type links struct {
	fwd map[string]map[string]struct{}
	rev map[string]map[string]struct{}
}

func newLinks() links {
	return links{fwd: map[string]map[string]struct{}{}, rev: map[string]map[string]struct{}{}}
}

func (l links) add(left, right string) {
	if l.fwd[left] == nil {
		l.fwd[left] = map[string]struct{}{}
	}
	if l.rev[right] == nil {
		l.rev[right] = map[string]struct{}{}
	}
	l.fwd[left][right] = struct{}{}
	l.rev[right][left] = struct{}{}
}

// dropRight deletes every row whose right side is id.
func (l links) dropRight(id string) {
	for left := range l.rev[id] {
		delete(l.fwd[left], id)
		if len(l.fwd[left]) == 0 {
			delete(l.fwd, left)
		}
	}
	delete(l.rev, id)
}

func (l links) rights(left string) []string { return sortedKeys(l.fwd[left]) }
func (l links) lefts(right string) []string { return sortedKeys(l.rev[right]) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Store is an in-memory repository.Store. A single RWMutex guards all
// collections, so mutations (check included) are serialized and readers
// never observe a half-applied cascade.
type Store struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	keys     map[entity.UniqueKey]string
	sellers  map[string]string // id -> name
	users    map[string]struct{}

	sellerProducts links // (seller, product)
	blacklist      links // (user, seller)
	favorites      links // (user, product)
}

var _ repository.Store = (*Store)(nil)

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		products:       map[string]entity.Product{},
		keys:           map[entity.UniqueKey]string{},
		sellers:        map[string]string{},
		users:          map[string]struct{}{},
		sellerProducts: newLinks(),
		blacklist:      newLinks(),
		favorites:      newLinks(),
	}
}

func (s *Store) Products() repository.ProductRepository { return productRepo{s} }
func (s *Store) Sellers() repository.SellerRepository   { return sellerRepo{s} }
func (s *Store) Users() repository.UserRepository       { return userRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// AddSeller registers a seller. Sellers are managed outside the catalog core.
func (s *Store) AddSeller(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellers[id] = name
}

// AddUser registers a user with the given blacklisted sellers.
func (s *Store) AddUser(id string, blacklistedSellerIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = struct{}{}
	for _, sid := range blacklistedSellerIDs {
		s.blacklist.add(id, sid)
	}
}

// LinkSellerProduct records that sellerID sells productID.
func (s *Store) LinkSellerProduct(sellerID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellerProducts.add(sellerID, productID)
}

// AddFavorite records that userID favorited productID.
func (s *Store) AddFavorite(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites.add(userID, productID)
}

func lessProduct(a, b entity.Product) bool {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.Brand, b.Brand); c != 0 {
		return c < 0
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.ID < b.ID
}

type productRepo struct{ s *Store }

func (r productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domainerr.NotFound(domainerr.KindProduct, id)
	}
	return &p, nil
}

func (r productRepo) FindByKey(ctx context.Context, key entity.UniqueKey, excludeID string) (*entity.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.keys[key]
	if !ok || id == excludeID {
		return nil, false, nil
	}
	p := r.s.products[id]
	return &p, true, nil
}

func (r productRepo) Find(ctx context.Context, q repository.ProductQuery, page repository.PageRequest) (repository.Page[entity.Product], error) {
	if err := ctx.Err(); err != nil {
		return repository.Page[entity.Product]{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if q.Match(&p, r.s.sellerProducts.lefts(p.ID)) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return lessProduct(matched[i], matched[j]) })

	total := len(matched)
	start := min(max(page.Offset(), 0), total)
	end := min(start+page.Size, total)
	return repository.NewPage(slices.Clone(matched[start:end]), total, page.Size), nil
}

func (r productRepo) Create(ctx context.Context, p *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id, ok := r.s.keys[p.Key()]; ok {
		return domainerr.ProductAlreadyExists(id)
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domainerr.ProductAlreadyExists(p.ID)
	}
	r.s.products[p.ID] = *p
	r.s.keys[p.Key()] = p.ID
	return nil
}

func (r productRepo) Update(ctx context.Context, p *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.products[p.ID]
	if !ok {
		return domainerr.NotFound(domainerr.KindProduct, p.ID)
	}
	if id, ok := r.s.keys[p.Key()]; ok && id != p.ID {
		return domainerr.ProductAlreadyExists(id)
	}
	delete(r.s.keys, old.Key())
	r.s.products[p.ID] = *p
	r.s.keys[p.Key()] = p.ID
	return nil
}

func (r productRepo) DeleteCascade(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domainerr.NotFound(domainerr.KindProduct, id)
	}
	r.s.sellerProducts.dropRight(id)
	r.s.favorites.dropRight(id)
	delete(r.s.keys, p.Key())
	delete(r.s.products, id)
	return &p, nil
}

func (r productRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products), nil
}

type sellerRepo struct{ s *Store }

func (r sellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	name, ok := r.s.sellers[id]
	if !ok {
		return nil, domainerr.NotFound(domainerr.KindSeller, id)
	}
	return &entity.Seller{ID: id, Name: name, ProductIDs: r.s.sellerProducts.rights(id)}, nil
}

func (r sellerRepo) ListByProduct(ctx context.Context, productID string) ([]entity.Seller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.s.sellerProducts.lefts(productID)
	out := make([]entity.Seller, 0, len(ids))
	for _, sid := range ids {
		out = append(out, entity.Seller{ID: sid, Name: r.s.sellers[sid]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r sellerRepo) ListProducts(ctx context.Context, sellerID string) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.s.sellerProducts.rights(sellerID)
	out := make([]entity.Product, 0, len(ids))
	for _, pid := range ids {
		if p, ok := r.s.products[pid]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessProduct(out[i], out[j]) })
	return out, nil
}

func (r sellerRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.sellers), nil
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.users[id]; !ok {
		return nil, domainerr.NotFound(domainerr.KindUser, id)
	}
	return &entity.User{
		ID:                   id,
		BlacklistedSellerIDs: r.s.blacklist.rights(id),
		FavoriteProductIDs:   r.s.favorites.rights(id),
	}, nil
}
