package projection

import (
	"errors"
	"net/http"

	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/tenants/:tenant_id/products/:product_id", s.HandleGetProduct)
	r.GET("/v1/tenants/:tenant_id/bundles/:bundle_id", s.HandleGetBundle)
	r.GET("/v1/tenants/:tenant_id/trending", s.HandleTrending)
}

// HandleGetProduct handles GET /v1/tenants/:tenant_id/products/:product_id
func (s *Service) HandleGetProduct(c *gin.Context) {
	var uri struct {
		TenantID  string `uri:"tenant_id" binding:"required"`
		ProductID string `uri:"product_id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return
	}

	product, err := s.Product(c.Request.Context(), uri.TenantID, uri.ProductID)
	if err != nil {
		writeError(c, "Failed to read product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// HandleGetBundle handles GET /v1/tenants/:tenant_id/bundles/:bundle_id
// Query parameters: history_limit
func (s *Service) HandleGetBundle(c *gin.Context) {
	var req BundleQueryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	bundle, err := s.Bundle(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Failed to read bundle", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// HandleTrending handles GET /v1/tenants/:tenant_id/trending
// Query parameters: limit
func (s *Service) HandleTrending(c *gin.Context) {
	var req TrendingQueryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		badRequest(c, "Invalid path parameters", err)
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	resp, err := s.Trending(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Failed to query trending products", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
		ErrorType: httperr.HttpInvalidJsonError,
		Message:   msg,
		Details:   err.Error(),
	})
}

func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid query",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msg,
			Details:   err.Error(),
		})
	}
}
