package application

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
	"github.com/oksasatya/go-product-catalog/internal/domain/repository"
)

// IDGenerator produces identifiers for new products.
type IDGenerator func() string

type Service struct {
	Store           repository.Store
	NewID           IDGenerator
	Logger          *logrus.Logger
	Events          EventPublisher
	GCS             *storage.Client
	GCSBucket       string
	ES              *elasticsearch.Client
	ESProductsIndex string
	MaxPageSize     int
}

func NewService(store repository.Store, logger *logrus.Logger, events EventPublisher, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esProductsIndex string) *Service {
	return &Service{
		Store:           store,
		NewID:           uuid.NewString,
		Logger:          logger,
		Events:          events,
		GCS:             gcs,
		GCSBucket:       gcsBucket,
		ES:              es,
		ESProductsIndex: esProductsIndex,
		MaxPageSize:     DefaultMaxPageSize,
	}
}

func (s *Service) log() logrus.FieldLogger {
	if s.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return s.Logger
}

func (s *Service) engine() queryEngine {
	return queryEngine{store: s.Store, maxPageSize: s.MaxPageSize}
}

// PageSize returns the page size a listing actually applies for a requested size.
func (s *Service) PageSize(size int) int {
	return s.engine().clampSize(size)
}

func (s *Service) guard() consistencyGuard {
	return consistencyGuard{products: s.Store.Products()}
}

// parseID canonicalizes a UUID string.
func parseID(field, raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", domainerr.InvalidArgument(field, "must be a valid UUID")
	}
	return id.String(), nil
}

func toPage(p repository.Page[entity.Product]) *ProductPage {
	return &ProductPage{Products: toProductDTOs(p.Items), TotalPages: p.TotalPages}
}

// GetAvailableForUser lists products sold by at least one seller the user
// has not blacklisted. Products without sellers are never listed.
func (s *Service) GetAvailableForUser(ctx context.Context, userID string, page, size int) (*ProductPage, error) {
	uid, err := parseID("user_id", userID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine().availableForUser(ctx, uid, page, size)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}

func (s *Service) GetAll(ctx context.Context, page, size int) (*ProductPage, error) {
	res, err := s.engine().all(ctx, page, size)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}

func (s *Service) Create(ctx context.Context, in CreateProductInput) (*ProductDTO, error) {
	p := entity.Product{
		ID:       s.NewID(),
		Name:     in.Name,
		Brand:    in.Brand,
		Category: entity.Category(in.Category),
		ImageURL: in.ImageURL,
	}
	required := [][2]string{{"name", p.Name}, {"brand", p.Brand}, {"category", string(p.Category)}}
	for _, f := range required {
		if strings.TrimSpace(f[1]) == "" {
			return nil, domainerr.InvalidArgument(f[0], "is required")
		}
	}

	if err := s.guard().validateUniqueOnCreate(ctx, p.Key()); err != nil {
		return nil, err
	}
	if err := s.Store.Products().Create(ctx, &p); err != nil {
		return nil, err
	}

	dto := toProductDTO(&p)
	s.log().WithField("product_id", p.ID).Info("product created")
	s.publish(ctx, ProductCreated, dto)
	return &dto, nil
}

// DeleteByID removes the product and every seller/favorite reference to it.
func (s *Service) DeleteByID(ctx context.Context, productID string) (*ProductDTO, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	p, err := s.guard().cascadeDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toProductDTO(p)
	s.log().WithField("product_id", id).Info("product deleted")
	s.publish(ctx, ProductDeleted, dto)
	return &dto, nil
}

// Update merges the non-blank fields of in into the stored product.
func (s *Service) Update(ctx context.Context, productID string, in UpdateProductInput) (*ProductDTO, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	current, err := s.Store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := applyPartialUpdate(*current, in.patch())
	if err := s.guard().validateUniqueOnUpdate(ctx, merged.Key(), id); err != nil {
		return nil, err
	}
	if merged == *current {
		dto := toProductDTO(current)
		return &dto, nil
	}
	if err := s.Store.Products().Update(ctx, &merged); err != nil {
		return nil, err
	}

	dto := toProductDTO(&merged)
	s.log().WithField("product_id", id).Info("product updated")
	s.publish(ctx, ProductUpdated, dto)
	return &dto, nil
}

func (s *Service) GetByID(ctx context.Context, productID string) (*ProductDTO, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	p, err := s.Store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(p)
	return &dto, nil
}

func (s *Service) GetSellersByProductID(ctx context.Context, productID string) ([]SellerDTO, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.Products().GetByID(ctx, id); err != nil {
		return nil, err
	}
	sellers, err := s.Store.Sellers().ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSellerDTOs(sellers), nil
}

func (s *Service) GetProductsBySellerID(ctx context.Context, sellerID string) ([]ProductDTO, error) {
	id, err := parseID("seller_id", sellerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.Sellers().GetByID(ctx, id); err != nil {
		return nil, err
	}
	products, err := s.Store.Sellers().ListProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDTOs(products), nil
}

// FilterForUser filters like FilterGlobal and additionally hides products
// only sold by sellers the user blacklisted.
func (s *Service) FilterForUser(ctx context.Context, req ProductFilterRequest, page, size int) (*ProductPage, error) {
	uid, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	res, err := s.engine().filtered(ctx, req, uid, page, size)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}

func (s *Service) FilterGlobal(ctx context.Context, req ProductFilterRequest, page, size int) (*ProductPage, error) {
	res, err := s.engine().filtered(ctx, req, "", page, size)
	if err != nil {
		return nil, err
	}
	return toPage(res), nil
}
