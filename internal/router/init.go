package router

import (
	"time"

	"github.com/oksasatya/go-product-catalog/internal/application"
	"github.com/oksasatya/go-product-catalog/internal/container"
	handlers "github.com/oksasatya/go-product-catalog/internal/interface/http"
	"github.com/oksasatya/go-product-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-product-catalog/internal/router/modules"
)

type ProductModuleDeps struct {
	Service *application.Service
	Handler *handlers.ProductHandler
}

func buildProductDeps() ProductModuleDeps {
	cfg := container.GetConfig()

	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	service := application.NewService(
		container.GetStore(),
		container.GetLogger(),
		events,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESProductsIndex,
	)
	if cfg.PageMaxSize > 0 {
		service.MaxPageSize = cfg.PageMaxSize
	}

	handler := handlers.NewProductHandler(service, container.GetLogger(), cfg.PageDefaultSize)

	return ProductModuleDeps{
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildProductDeps()

	r.Use(middleware.RateLimit(
		container.GetRedis(),
		cfg.RateLimitPerMinute,
		time.Minute,
		middleware.KeyByIP(),
		middleware.AnyAllow(middleware.AllowPaths("/api/health"), middleware.AllowPrivateIP()),
	))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(container.GetStore(), container.GetLogger())))
	r.Add(modules.NewProductModule(deps.Handler, container.GetJWT(), container.GetRedis(), cfg.RateLimitPerMinute))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
