package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-product-catalog/internal/application"
	"github.com/oksasatya/go-product-catalog/pkg/response"
	"github.com/oksasatya/go-product-catalog/pkg/validation"
)

const maxImageBytes = 5 << 20

type ProductHandler struct {
	Svc             *application.Service
	Logger          *logrus.Logger
	DefaultPageSize int
}

func NewProductHandler(svc *application.Service, logger *logrus.Logger, defaultPageSize int) *ProductHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &ProductHandler{Svc: svc, Logger: logger, DefaultPageSize: defaultPageSize}
}

type pageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

type createProductRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Brand    string `json:"brand" binding:"required,notblank"`
	Category string `json:"category" binding:"required,notblank"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

type updateProductRequest struct {
	Name     *string `json:"name"`
	Brand    *string `json:"brand"`
	Category *string `json:"category"`
	ImageURL *string `json:"image_url"`
}

type filterRequest struct {
	ProductNames []string `json:"product_names"`
	Categories   []string `json:"categories"`
	Brands       []string `json:"brands"`
}

type userFilterRequest struct {
	UserID string `json:"user_id" binding:"entityid"`
	filterRequest
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,notblank"`
	Size int    `form:"size"`
}

func (f filterRequest) toService(userID string) application.ProductFilterRequest {
	return application.ProductFilterRequest{
		UserID:       userID,
		ProductNames: f.ProductNames,
		Categories:   f.Categories,
		Brands:       f.Brands,
	}
}

// bindPage reads page and size, defaulting size. Range checks happen in the service.
func (h *ProductHandler) bindPage(c *gin.Context) (pageQuery, bool) {
	q := pageQuery{Size: h.DefaultPageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return q, false
	}
	return q, true
}

// pageMeta echoes the page and the size applied after clamping.
func (h *ProductHandler) pageMeta(q pageQuery) gin.H {
	return gin.H{"page": q.Page, "size": h.Svc.PageSize(q.Size)}
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	q, ok := h.bindPage(c)
	if !ok {
		return
	}
	res, err := h.Svc.GetAll(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "products", h.pageMeta(q))
}

func (h *ProductHandler) GetAvailableForUser(c *gin.Context) {
	q, ok := h.bindPage(c)
	if !ok {
		return
	}
	res, err := h.Svc.GetAvailableForUser(c.Request.Context(), c.Param("userId"), q.Page, q.Size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "available products", h.pageMeta(q))
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	res, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "product", nil)
}

func (h *ProductHandler) GetSellers(c *gin.Context) {
	res, err := h.Svc.GetSellersByProductID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sellers": res}, "product sellers", gin.H{"count": len(res)})
}

func (h *ProductHandler) GetBySeller(c *gin.Context) {
	res, err := h.Svc.GetProductsBySellerID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": res}, "seller products", gin.H{"count": len(res)})
}

func (h *ProductHandler) Filter(c *gin.Context) {
	q, ok := h.bindPage(c)
	if !ok {
		return
	}
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.FilterGlobal(c.Request.Context(), req.toService(""), q.Page, q.Size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "filtered products", h.pageMeta(q))
}

func (h *ProductHandler) FilterForUser(c *gin.Context) {
	q, ok := h.bindPage(c)
	if !ok {
		return
	}
	var req userFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.FilterForUser(c.Request.Context(), req.toService(req.UserID), q.Page, q.Size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "filtered products", h.pageMeta(q))
}

func (h *ProductHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Search(c.Request.Context(), strings.TrimSpace(q.Q), q.Size)
	if err != nil {
		h.Logger.WithError(err).Warn("product search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": res}, "search results", gin.H{"count": len(res)})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Create(c.Request.Context(), application.CreateProductInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	productsCreated.Add(1)
	response.Success(c, http.StatusCreated, res, "product created", nil)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateProductInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	productsUpdated.Add(1)
	response.Success(c, http.StatusOK, res, "product updated", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	res, err := h.Svc.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	productsDeleted.Add(1)
	response.Success(c, http.StatusOK, res, "product deleted", nil)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid upload", map[string]string{"image": "is required and must be at most 5MB"})
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Error[any](c, http.StatusBadRequest, "invalid upload", map[string]string{"image": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid upload", map[string]string{"image": "cannot be read"})
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.Svc.UploadImage(c.Request.Context(), c.Param("id"), f, fh.Filename, ct)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	imagesUploaded.Add(1)
	response.Success(c, http.StatusOK, res, "product image uploaded", nil)
}
