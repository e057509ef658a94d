package entitlement

import (
	"testing"
	"time"

	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *feature.Catalog {
	return feature.DefaultCatalog()
}

func mustPlan(t *testing.T, id plan.ID) plan.Plan {
	t.Helper()
	p, ok := plan.ByID(id)
	require.True(t, ok)
	return p
}

func firstN(t *testing.T, n int) []string {
	t.Helper()
	cat := testCatalog()
	require.GreaterOrEqual(t, cat.Len(), n)
	out := make([]string, 0, n)
	for _, f := range cat.List()[:n] {
		out = append(out, f.ID)
	}
	return out
}

func TestNormalizeSelection(t *testing.T) {
	got := NormalizeSelection([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Empty(t, NormalizeSelection(nil))
}

func TestValidateSelectionWithinCap(t *testing.T) {
	cat := testCatalog()
	for _, tc := range []struct {
		planID plan.ID
		count  int
	}{
		{plan.Free, 0},
		{plan.Free, 10},
		{plan.Pro, 30},
		{plan.Enterprise, 30},
	} {
		p := mustPlan(t, tc.planID)
		err := ValidateSelection(p, cat, firstN(t, tc.count))
		assert.NoError(t, err, "plan %s with %d features", tc.planID, tc.count)
	}
}

func TestValidateSelectionOverCap(t *testing.T) {
	cat := testCatalog()
	p := mustPlan(t, plan.Free)

	err := ValidateSelection(p, cat, firstN(t, 11))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureLimitExceeded)
}

func TestValidateSelectionUnknownFeature(t *testing.T) {
	cat := testCatalog()
	p := mustPlan(t, plan.Pro)

	err := ValidateSelection(p, cat, []string{"post_scheduling", "no_such_feature"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestValidateSelectionIsPure(t *testing.T) {
	cat := testCatalog()
	p := mustPlan(t, plan.Pro)
	sel := firstN(t, 5)

	err1 := ValidateSelection(p, cat, sel)
	err2 := ValidateSelection(p, cat, sel)
	assert.Equal(t, err1, err2)
	assert.Equal(t, firstN(t, 5), sel, "input selection not mutated")
}

func TestComputePriceFreeIsAlwaysZero(t *testing.T) {
	p := mustPlan(t, plan.Free)
	assert.Zero(t, ComputePrice(p, nil, plan.CycleMonthly))
	assert.Zero(t, ComputePrice(p, firstN(t, 10), plan.CycleMonthly))
	assert.Zero(t, ComputePrice(p, firstN(t, 10), plan.CycleYearly))
}

func TestComputePricePaidPlans(t *testing.T) {
	pro := mustPlan(t, plan.Pro)
	ent := mustPlan(t, plan.Enterprise)
	sel := firstN(t, 7)

	assert.InDelta(t, 7*1.0, ComputePrice(pro, sel, plan.CycleMonthly), 1e-9)
	assert.InDelta(t, 7*10.0, ComputePrice(pro, sel, plan.CycleYearly), 1e-9)
	assert.InDelta(t, 7*1.5, ComputePrice(ent, sel, plan.CycleMonthly), 1e-9)
	assert.InDelta(t, 7*15.0, ComputePrice(ent, sel, plan.CycleYearly), 1e-9)
}

func TestComputePriceEmptyPaidSelection(t *testing.T) {
	// A paid plan with zero chosen features costs nothing. Valid state.
	pro := mustPlan(t, plan.Pro)
	assert.Zero(t, ComputePrice(pro, nil, plan.CycleMonthly))
}

func TestYearlyRateIsNotDerivedFromMonthly(t *testing.T) {
	pro := mustPlan(t, plan.Pro)
	assert.NotEqual(t, pro.MonthlyRatePerFeature*12, pro.YearlyRatePerFeature)
}

func TestResolvePlanChangeUpgrade(t *testing.T) {
	cat := testCatalog()
	now := time.Now()
	current := Entitlement{
		WorkspaceID:      7,
		PlanID:           plan.Free,
		SelectedFeatures: firstN(t, 10),
		BillingCycle:     plan.CycleMonthly,
		Status:           StatusActive,
	}

	// 11 features exceed free but fit pro.
	next, err := ResolvePlanChange(current, cat, plan.Pro, firstN(t, 11), plan.CycleMonthly, now)
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, next.PlanID)
	assert.Len(t, next.SelectedFeatures, 11)

	pro := mustPlan(t, plan.Pro)
	assert.InDelta(t, 11.0, ComputePrice(pro, next.SelectedFeatures, plan.CycleMonthly), 1e-9)

	// Input untouched.
	assert.Equal(t, plan.Free, current.PlanID)
	assert.Len(t, current.SelectedFeatures, 10)
}

func TestResolvePlanChangeDowngradeRejectsOversizedSelection(t *testing.T) {
	cat := testCatalog()
	current := Entitlement{
		WorkspaceID:      7,
		PlanID:           plan.Pro,
		SelectedFeatures: firstN(t, 15),
		BillingCycle:     plan.CycleMonthly,
		Status:           StatusActive,
	}

	// Downgrading with 15 selected must fail, never silently drop.
	_, err := ResolvePlanChange(current, cat, plan.Free, firstN(t, 15), plan.CycleMonthly, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureLimitExceeded)
	assert.Equal(t, plan.Pro, current.PlanID)
}

func TestResolvePlanChangeDowngradeWithTrimmedSelection(t *testing.T) {
	cat := testCatalog()
	current := Entitlement{
		WorkspaceID:      7,
		PlanID:           plan.Enterprise,
		SelectedFeatures: firstN(t, 20),
		BillingCycle:     plan.CycleYearly,
	}

	next, err := ResolvePlanChange(current, cat, plan.Free, firstN(t, 8), plan.CycleMonthly, time.Now())
	require.NoError(t, err)
	assert.Equal(t, plan.Free, next.PlanID)
	assert.Len(t, next.SelectedFeatures, 8)
	assert.Equal(t, plan.CycleMonthly, next.BillingCycle)
}

func TestResolvePlanChangeUnknownPlan(t *testing.T) {
	_, err := ResolvePlanChange(Entitlement{}, testCatalog(), "platinum", nil, plan.CycleMonthly, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlanTransition)
}

func TestResolvePlanChangeInvalidCycle(t *testing.T) {
	_, err := ResolvePlanChange(Entitlement{}, testCatalog(), plan.Pro, nil, "weekly", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBillingCycle)
}

func TestResolvePlanChangeDeduplicatesSelection(t *testing.T) {
	cat := testCatalog()
	next, err := ResolvePlanChange(Entitlement{}, cat, plan.Pro,
		[]string{"bio_page", "bio_page", "qr_codes"}, plan.CycleMonthly, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"bio_page", "qr_codes"}, []string(next.SelectedFeatures))
}

func TestEndToEndFreeToProScenario(t *testing.T) {
	cat := testCatalog()
	free := mustPlan(t, plan.Free)
	pro := mustPlan(t, plan.Pro)

	ten := firstN(t, 10)
	require.NoError(t, ValidateSelection(free, cat, ten))

	eleven := firstN(t, 11)
	err := ValidateSelection(free, cat, eleven)
	require.ErrorIs(t, err, ErrFeatureLimitExceeded)

	require.NoError(t, ValidateSelection(pro, cat, eleven))
	assert.InDelta(t, 11.0, ComputePrice(pro, eleven, plan.CycleMonthly), 1e-9)
}
