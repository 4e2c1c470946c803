package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-product-catalog/internal/application"
	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
	"github.com/oksasatya/go-product-catalog/pkg/helpers"
	"github.com/oksasatya/go-product-catalog/pkg/response"
)

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var invalid *domainerr.InvalidArgumentError

	switch {
	case errors.Is(err, domainerr.ErrNoMatchingProducts):
		response.Error[any](c, http.StatusNotFound, err.Error(), gin.H{"code": "no_matching_products"})
	case domainerr.IsNotFound(err):
		nf, _ := domainerr.AsNotFound(err)
		response.Error[any](c, http.StatusNotFound, string(nf.Kind)+" not found", gin.H{"code": "not_found", "kind": nf.Kind, "id": nf.ID})
	case domainerr.IsAlreadyExists(err):
		ae, _ := domainerr.AsAlreadyExists(err)
		response.Error[any](c, http.StatusConflict, string(ae.Kind)+" already exists", gin.H{"code": "already_exists", "conflicting_id": ae.ConflictingID})
	case errors.As(err, &invalid):
		response.Error[any](c, http.StatusBadRequest, "invalid argument", map[string]string{invalid.Field: invalid.Reason})
	case errors.Is(err, application.ErrImageStorageDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, "image storage is not configured", nil)
	case errors.Is(err, context.DeadlineExceeded):
		response.Error[any](c, http.StatusGatewayTimeout, "request timed out", nil)
	default:
		requestErrors.Add(1)
		helpers.LogError(logger, "unhandled service error", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
