// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"net/http"

	"entitlement-service/internal/pkg/response"
	service "entitlement-service/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListFeatures returns the feature catalog grouped by category
func (h *CatalogHandler) ListFeatures(c *gin.Context) {
	response.Success(c, http.StatusOK, "feature catalog retrieved", h.catalogService.ListFeatures())
}

// ListPlans returns the plan tiers with derived price ceilings
func (h *CatalogHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, "plans retrieved", h.catalogService.ListPlans())
}

// ListPackages returns the purchasable token bundles
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	response.Success(c, http.StatusOK, "token packages retrieved", h.catalogService.ListPackages())
}

// ListFeatureCosts returns the metered action cost table
func (h *CatalogHandler) ListFeatureCosts(c *gin.Context) {
	response.Success(c, http.StatusOK, "feature costs retrieved", h.catalogService.FeatureCosts())
}
