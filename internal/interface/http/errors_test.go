package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-product-catalog/internal/application"
	"github.com/oksasatya/go-product-catalog/internal/domain/domainerr"
)

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"no match", domainerr.ErrNoMatchingProducts, http.StatusNotFound},
		{"not found", domainerr.NotFound(domainerr.KindSeller, "s1"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("op: %w", domainerr.NotFound(domainerr.KindUser, "u1")), http.StatusNotFound},
		{"exists", domainerr.ProductAlreadyExists("p1"), http.StatusConflict},
		{"invalid", domainerr.InvalidArgument("size", "must be at least 1"), http.StatusBadRequest},
		{"storage", application.ErrImageStorageDisabled, http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeServiceError(c, logger, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}
