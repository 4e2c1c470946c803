package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

var ErrImageStorageDisabled = errors.New("gcs not configured")

// UploadImage stores an image in GCS and points the product's image URL at
// it through the regular partial update.
func (s *Service) UploadImage(ctx context.Context, productID string, r io.Reader, filename, contentType string) (*ProductDTO, error) {
	id, err := parseID("product_id", productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.Products().GetByID(ctx, id); err != nil {
		return nil, err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrImageStorageDisabled
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", id, uuid.NewString()+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		s.log().WithError(err).WithField("product_id", id).Error("upload product image failed")
		return nil, err
	}
	return s.Update(ctx, id, UpdateProductInput{ImageURL: &url})
}
