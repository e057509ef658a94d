// internal/service/catalog/catalog_service.go
package catalog

import (
	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/plan"

	"go.uber.org/zap"
)

// CatalogService serves the static product surface: the feature
// catalog, the plan tiers and the token packages. Everything here is
// compiled in, so reads never touch storage.
type CatalogService struct {
	catalog *feature.Catalog
	logger  *zap.Logger
}

func NewCatalogService(catalog *feature.Catalog, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// Catalog exposes the underlying catalog for other services.
func (s *CatalogService) Catalog() *feature.Catalog {
	return s.catalog
}

// CategoryGroup is one category's features, in catalog order.
type CategoryGroup struct {
	Category feature.Category  `json:"category"`
	Features []feature.Feature `json:"features"`
}

// ListFeatures returns the catalog grouped by category. Group order
// follows first appearance in the catalog so the listing is stable.
func (s *CatalogService) ListFeatures() []CategoryGroup {
	grouped := s.catalog.ByCategory()

	out := make([]CategoryGroup, 0, len(grouped))
	for _, cat := range s.catalog.Categories() {
		out = append(out, CategoryGroup{
			Category: cat,
			Features: grouped[cat],
		})
	}
	return out
}

// PlanSummary is a plan tier plus its derived price bounds.
type PlanSummary struct {
	plan.Plan
	MaxMonthlyPrice float64 `json:"max_monthly_price"`
	MaxYearlyPrice  float64 `json:"max_yearly_price"`
}

// ListPlans returns every tier, cheapest first, with the price a fully
// loaded selection would cost. Enterprise has no feature cap so its
// ceiling is priced at the full catalog size.
func (s *CatalogService) ListPlans() []PlanSummary {
	out := make([]PlanSummary, 0, 3)
	for _, p := range plan.All() {
		maxFeatures := p.MaxFeatures
		if p.UnlimitedFeatures() {
			maxFeatures = s.catalog.Len()
		}

		out = append(out, PlanSummary{
			Plan:            p,
			MaxMonthlyPrice: float64(maxFeatures) * p.MonthlyRatePerFeature,
			MaxYearlyPrice:  float64(maxFeatures) * p.YearlyRatePerFeature,
		})
	}
	return out
}

// ListPackages returns the purchasable token bundles.
func (s *CatalogService) ListPackages() []ledger.TokenPackage {
	return ledger.Packages()
}

// FeatureCosts returns the metered action cost table.
func (s *CatalogService) FeatureCosts() ledger.FeatureCosts {
	return ledger.DefaultFeatureCosts()
}
