// internal/domain/plan/entity.go
package plan

// ID is one of the closed set of plan tiers.
type ID string

const (
	Free       ID = "free"
	Pro        ID = "pro"
	Enterprise ID = "enterprise"
)

// BillingCycle selects which per-feature rate applies.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Unbounded marks a limit with no ceiling.
const Unbounded = -1

// Limits are per-plan resource ceilings. Each value is a non-negative
// count or Unbounded.
type Limits struct {
	MaxPostsPerMonth int `json:"max_posts_per_month"`
	StorageGB        int `json:"storage_gb"`
	APICallsPerMonth int `json:"api_calls_per_month"`
	TeamMembers      int `json:"team_members"`
	Workspaces       int `json:"workspaces"`
	CustomDomains    int `json:"custom_domains"`
}

// Plan is a pricing tier. Monthly and yearly rates are independent
// configured constants; the yearly rate is not derived from the
// monthly one.
type Plan struct {
	ID                    ID      `json:"id"`
	Name                  string  `json:"name"`
	MonthlyRatePerFeature float64 `json:"monthly_rate_per_feature"`
	YearlyRatePerFeature  float64 `json:"yearly_rate_per_feature"`
	MaxFeatures           int     `json:"max_features"`
	MonthlyTokenAllowance int64   `json:"monthly_token_allowance"`
	Limits                Limits  `json:"limits"`
}

// RatePerFeature returns the configured per-feature rate for cycle.
func (p Plan) RatePerFeature(cycle BillingCycle) float64 {
	if cycle == CycleYearly {
		return p.YearlyRatePerFeature
	}
	return p.MonthlyRatePerFeature
}

// UnlimitedFeatures reports whether the plan has no feature cap.
func (p Plan) UnlimitedFeatures() bool {
	return p.MaxFeatures == Unbounded
}

// IsValidCycle checks a billing cycle value.
func IsValidCycle(cycle BillingCycle) bool {
	return cycle == CycleMonthly || cycle == CycleYearly
}
