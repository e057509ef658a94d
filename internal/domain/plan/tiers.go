// internal/domain/plan/tiers.go
package plan

// tiers is the deployed plan table, ordered cheapest first.
// MaxFeatures strictly increases free < pro < enterprise.
var tiers = []Plan{
	{
		ID:                    Free,
		Name:                  "Free",
		MonthlyRatePerFeature: 0,
		YearlyRatePerFeature:  0,
		MaxFeatures:           10,
		MonthlyTokenAllowance: 200,
		Limits: Limits{
			MaxPostsPerMonth: 30,
			StorageGB:        1,
			APICallsPerMonth: 1000,
			TeamMembers:      1,
			Workspaces:       1,
			CustomDomains:    0,
		},
	},
	{
		ID:                    Pro,
		Name:                  "Pro",
		MonthlyRatePerFeature: 1.0,
		YearlyRatePerFeature:  10.0,
		MaxFeatures:           40,
		MonthlyTokenAllowance: 1000,
		Limits: Limits{
			MaxPostsPerMonth: 500,
			StorageGB:        50,
			APICallsPerMonth: 100000,
			TeamMembers:      5,
			Workspaces:       3,
			CustomDomains:    1,
		},
	},
	{
		ID:                    Enterprise,
		Name:                  "Enterprise",
		MonthlyRatePerFeature: 1.5,
		YearlyRatePerFeature:  15.0,
		MaxFeatures:           Unbounded,
		MonthlyTokenAllowance: 5000,
		Limits: Limits{
			MaxPostsPerMonth: Unbounded,
			StorageGB:        500,
			APICallsPerMonth: Unbounded,
			TeamMembers:      Unbounded,
			Workspaces:       Unbounded,
			CustomDomains:    10,
		},
	},
}

// All returns every plan tier, cheapest first.
func All() []Plan {
	out := make([]Plan, len(tiers))
	copy(out, tiers)
	return out
}

// ByID looks up a plan tier.
func ByID(id ID) (Plan, bool) {
	for _, p := range tiers {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
