package handlers

import "expvar"

// Exposed through /api/debug/vars when DEBUG_METRICS_ENABLED is set.
var (
	productsCreated = expvar.NewInt("catalog_products_created")
	productsUpdated = expvar.NewInt("catalog_products_updated")
	productsDeleted = expvar.NewInt("catalog_products_deleted")
	imagesUploaded  = expvar.NewInt("catalog_images_uploaded")
	requestErrors   = expvar.NewInt("catalog_internal_errors")
)
