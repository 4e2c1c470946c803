package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-product-catalog/internal/interface/http"
	"github.com/oksasatya/go-product-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
)

// ProductModule wires the catalog routes.
// Public: product and seller reads, filters, search (per-IP limit from the registry)
// Protected (JWT): product create, update, delete, image upload
type ProductModule struct {
	Handler      *handlers.ProductHandler
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	PerMinuteMax int
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager, rdb *redis.Client, perMinute int) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt, Redis: rdb, PerMinuteMax: perMinute}
}

// searchLimit gives each client a separate, smaller budget on the search
// route since every hit is an Elasticsearch query.
func (m *ProductModule) searchLimit() gin.HandlerFunc {
	limit := 0
	if m.PerMinuteMax > 0 {
		limit = max(m.PerMinuteMax/4, 1)
	}
	return middleware.RateLimit(m.Redis, limit, time.Minute, middleware.KeyByIPAndPath(), nil)
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/")
	{
		public.GET("/products", m.Handler.GetAll)
		public.GET("/products/search", m.searchLimit(), m.Handler.Search)
		public.GET("/products/available/:userId", m.Handler.GetAvailableForUser)
		public.GET("/products/:id", m.Handler.GetByID)
		public.GET("/products/:id/sellers", m.Handler.GetSellers)
		public.GET("/sellers/:id/products", m.Handler.GetBySeller)
		public.POST("/products/filter", m.Handler.Filter)
		public.POST("/products/filter/user", m.Handler.FilterForUser)
	}

	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	// writers get their own budget on top of the per-IP limit
	auth.Use(middleware.RateLimit(m.Redis, m.PerMinuteMax, time.Minute, middleware.KeyBySubject(), nil))
	{
		auth.POST("/products", m.Handler.Create)
		auth.PUT("/products/:id", m.Handler.Update)
		auth.DELETE("/products/:id", m.Handler.Delete)
		auth.POST("/products/:id/image", m.Handler.UploadImage)
	}
}
