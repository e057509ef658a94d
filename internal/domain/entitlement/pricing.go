// internal/domain/entitlement/pricing.go
package entitlement

import (
	"fmt"
	"time"

	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/plan"
)

// NormalizeSelection deduplicates a feature selection while preserving
// first-seen order. Selections are sets for pricing purposes but keep
// their order for deterministic display grouping.
func NormalizeSelection(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ValidateSelection checks a proposed (already normalized) selection
// against the catalog and the plan's feature cap. Unknown ids fail
// rather than being silently ignored; an oversized selection fails
// rather than being truncated.
func ValidateSelection(p plan.Plan, cat *feature.Catalog, selected []string) error {
	for _, id := range selected {
		if !cat.Contains(id) {
			return fmt.Errorf("%w: %q", ErrUnknownFeature, id)
		}
	}
	if !p.UnlimitedFeatures() && len(selected) > p.MaxFeatures {
		return fmt.Errorf("%w: selected %d, plan %q allows %d",
			ErrFeatureLimitExceeded, len(selected), p.ID, p.MaxFeatures)
	}
	return nil
}

// ComputePrice prices a selection against a plan and billing cycle.
// The free plan is pinned at 0 regardless of selection size; paid
// plans charge a flat per-feature rate for the chosen cycle. An empty
// selection on a paid plan legitimately prices at 0.
func ComputePrice(p plan.Plan, selected []string, cycle plan.BillingCycle) float64 {
	if p.ID == plan.Free {
		return 0
	}
	return float64(len(selected)) * p.RatePerFeature(cycle)
}

// ResolvePlanChange validates a proposed plan/selection/cycle change
// and returns the resulting entitlement value. The input entitlement
// is not mutated; the caller commits the result only on success. Every
// transition between known plans is permitted, in either direction.
func ResolvePlanChange(current Entitlement, cat *feature.Catalog, newPlanID plan.ID, newSelection []string, newCycle plan.BillingCycle, now time.Time) (Entitlement, error) {
	p, ok := plan.ByID(newPlanID)
	if !ok {
		return Entitlement{}, fmt.Errorf("%w: unknown plan %q", ErrInvalidPlanTransition, newPlanID)
	}
	if !plan.IsValidCycle(newCycle) {
		return Entitlement{}, fmt.Errorf("%w: %q", ErrInvalidBillingCycle, newCycle)
	}

	selected := NormalizeSelection(newSelection)
	if err := ValidateSelection(p, cat, selected); err != nil {
		return Entitlement{}, err
	}

	next := current
	next.PlanID = p.ID
	next.SelectedFeatures = selected
	next.BillingCycle = newCycle
	next.Status = StatusActive
	next.UpdatedAt = now
	return next, nil
}
