// internal/domain/entitlement/dto.go
package entitlement

import (
	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/plan"
)

// UpdateEntitlementRequest is the PUT/preview payload.
type UpdateEntitlementRequest struct {
	PlanID           plan.ID           `json:"plan_id" binding:"required"`
	SelectedFeatures []string          `json:"selected_features"`
	BillingCycle     plan.BillingCycle `json:"billing_cycle" binding:"required"`
}

// EntitlementResponse is an entitlement plus its derived price and the
// selection grouped by category for display.
type EntitlementResponse struct {
	Entitlement        *Entitlement                           `json:"entitlement"`
	ComputedPrice      float64                                `json:"computed_price"`
	FeaturesByCategory map[feature.Category][]feature.Feature `json:"features_by_category"`
}

// NewEntitlementResponse derives the price and category grouping for e.
// Price is always recomputed here; the stored row carries no price.
func NewEntitlementResponse(e *Entitlement, cat *feature.Catalog) *EntitlementResponse {
	p, _ := plan.ByID(e.PlanID)

	grouped := make(map[feature.Category][]feature.Feature)
	for _, id := range e.SelectedFeatures {
		if f, ok := cat.Get(id); ok {
			grouped[f.Category] = append(grouped[f.Category], f)
		}
	}

	return &EntitlementResponse{
		Entitlement:        e,
		ComputedPrice:      ComputePrice(p, e.SelectedFeatures, e.BillingCycle),
		FeaturesByCategory: grouped,
	}
}
