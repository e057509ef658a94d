package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCosts() FeatureCosts {
	return FeatureCosts{
		"ai_content_generation": 50,
		"post_publish":          1,
	}
}

func TestDebitAllowanceFirst(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 10, Balance: 5}

	res, err := Debit(l, FeatureCosts{"x": 12}, "x", 1, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Ledger.AllowanceRemaining)
	assert.EqualValues(t, 3, res.Ledger.Balance)
	assert.EqualValues(t, 10, res.FromAllowance)
	assert.EqualValues(t, 2, res.FromBalance)
	assert.EqualValues(t, 12, res.Ledger.TotalUsed)

	// Snapshot passed by value: caller's copy untouched.
	assert.EqualValues(t, 10, l.AllowanceRemaining)
	assert.EqualValues(t, 5, l.Balance)
}

func TestDebitFromAllowanceOnly(t *testing.T) {
	l := TokenLedger{MonthlyAllowance: 1000, AllowanceRemaining: 1000, Balance: 0}

	res, err := Debit(l, testCosts(), "ai_content_generation", 1, now)
	require.NoError(t, err)
	assert.EqualValues(t, 950, res.Ledger.AllowanceRemaining)
	assert.EqualValues(t, 0, res.Ledger.Balance)
	assert.EqualValues(t, 50, res.FromAllowance)
	assert.EqualValues(t, 0, res.FromBalance)
}

func TestDebitRejectionLeavesLedgerUnchanged(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 0, Balance: 0}

	_, err := Debit(l, testCosts(), "post_publish", 1, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.EqualValues(t, 0, l.TotalUsed)
}

func TestDebitUnknownFeatureCost(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 100}

	_, err := Debit(l, testCosts(), "teleportation", 1, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFeatureCost)
}

func TestDebitQuantityMultiplies(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 100}

	res, err := Debit(l, testCosts(), "post_publish", 30, now)
	require.NoError(t, err)
	assert.EqualValues(t, 70, res.Ledger.AllowanceRemaining)
	assert.EqualValues(t, 30, res.Cost)
}

func TestDebitRejectsNonPositiveQuantity(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 100}
	for _, q := range []int64{0, -1} {
		_, err := Debit(l, testCosts(), "post_publish", q, now)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestDebitRejectsOverflowingQuantity(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 100, Balance: 0}

	// 2e17 * 50 wraps past MaxInt64 into a negative cost; a wrapped
	// cost passes the availability check and credits the account.
	for _, q := range []int64{200_000_000_000_000_000, math.MaxInt64} {
		_, err := Debit(l, FeatureCosts{"x": 50}, "x", q, now)
		require.Error(t, err, "quantity %d", q)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}

	assert.EqualValues(t, 100, l.AllowanceRemaining)
	assert.EqualValues(t, 0, l.TotalUsed)

	// The largest non-overflowing quantity still fails cleanly on
	// availability, never on arithmetic.
	_, err := Debit(l, FeatureCosts{"x": 50}, "x", math.MaxInt64/50, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestDebitSequenceExhaustsAllowanceThenFails(t *testing.T) {
	l := TokenLedger{MonthlyAllowance: 1000, AllowanceRemaining: 1000, Balance: 0}

	for i := 0; i < 20; i++ {
		res, err := Debit(l, testCosts(), "ai_content_generation", 1, now)
		require.NoError(t, err, "debit %d", i+1)
		l = res.Ledger
	}
	assert.EqualValues(t, 0, l.AllowanceRemaining)
	assert.EqualValues(t, 1000, l.TotalUsed)

	_, err := Debit(l, testCosts(), "ai_content_generation", 1, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestInvariantsHoldAcrossMixedOperations(t *testing.T) {
	l := TokenLedger{MonthlyAllowance: 100, AllowanceRemaining: 100}

	check := func() {
		assert.GreaterOrEqual(t, l.Balance, int64(0))
		assert.GreaterOrEqual(t, l.AllowanceRemaining, int64(0))
	}

	l = Purchase(l, 100, 20, now)
	check()
	for i := 0; i < 4; i++ {
		res, err := Debit(l, testCosts(), "ai_content_generation", 1, now)
		require.NoError(t, err)
		l = res.Ledger
		check()
	}
	l = ResetAllowance(l, now)
	check()
	assert.EqualValues(t, 100, l.AllowanceRemaining)
}

func TestPurchaseAccounting(t *testing.T) {
	l := TokenLedger{Balance: 10, TotalPurchased: 40}

	got := Purchase(l, 100, 20, now)
	assert.EqualValues(t, 130, got.Balance)
	assert.EqualValues(t, 140, got.TotalPurchased, "bonus excluded from lifetime purchased")
}

func TestResetAllowance(t *testing.T) {
	l := TokenLedger{MonthlyAllowance: 500, AllowanceRemaining: 12}
	got := ResetAllowance(l, now)
	assert.EqualValues(t, 500, got.AllowanceRemaining)
	assert.EqualValues(t, 500, got.MonthlyAllowance)
}

func TestLowBalanceWarningIsAdvisory(t *testing.T) {
	l := TokenLedger{Balance: 49, AllowanceRemaining: 0}
	assert.True(t, l.LowBalance())

	// Warning does not block a debit that still fits.
	res, err := Debit(l, testCosts(), "post_publish", 1, now)
	require.NoError(t, err)
	assert.EqualValues(t, 48, res.Ledger.Balance)

	l.Balance = 50
	assert.False(t, l.LowBalance())
}

func TestAvailable(t *testing.T) {
	l := TokenLedger{AllowanceRemaining: 30, Balance: 12}
	assert.EqualValues(t, 42, l.Available())
}

func TestPackageLookup(t *testing.T) {
	p, err := PackageByID("growth")
	require.NoError(t, err)
	assert.EqualValues(t, 500, p.Tokens)
	assert.EqualValues(t, 50, p.BonusTokens)

	_, err = PackageByID("mega")
	assert.ErrorIs(t, err, ErrUnknownPackage)
}

func TestDefaultFeatureCosts(t *testing.T) {
	costs := DefaultFeatureCosts()
	c, ok := costs.Cost("ai_content_generation")
	require.True(t, ok)
	assert.EqualValues(t, 50, c)

	_, ok = costs.Cost("unpriced_action")
	assert.False(t, ok)
}
