package application

import (
	"github.com/oksasatya/go-product-catalog/internal/domain/entity"
)

type ProductDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

type SellerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductPage is the composite result of every paginated listing.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	TotalPages int          `json:"total_pages"`
}

type CreateProductInput struct {
	Name     string
	Brand    string
	Category string
	ImageURL string
}

// UpdateProductInput is a partial update; nil or blank fields are ignored.
type UpdateProductInput struct {
	Name     *string
	Brand    *string
	Category *string
	ImageURL *string
}

// ProductFilterRequest holds the optional filter sets. UserID is only read
// by FilterForUser.
type ProductFilterRequest struct {
	UserID       string
	ProductNames []string
	Categories   []string
	Brands       []string
}

func toProductDTO(p *entity.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: string(p.Category),
		ImageURL: p.ImageURL,
	}
}

func toProductDTOs(ps []entity.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toProductDTO(&ps[i]))
	}
	return out
}

func toSellerDTOs(ss []entity.Seller) []SellerDTO {
	out := make([]SellerDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, SellerDTO{ID: s.ID, Name: s.Name})
	}
	return out
}

func (in UpdateProductInput) patch() entity.ProductPatch {
	return entity.ProductPatch{Name: in.Name, Brand: in.Brand, Category: in.Category, ImageURL: in.ImageURL}
}
