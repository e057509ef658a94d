// internal/domain/ledger/ops.go
package ledger

import (
	"fmt"
	"math"
	"time"
)

// DebitResult is the outcome of a successful debit: the updated ledger
// value plus how the cost split across allowance and purchased balance.
type DebitResult struct {
	Ledger        TokenLedger
	Cost          int64
	FromAllowance int64
	FromBalance   int64
}

// Debit applies a metered usage charge to a ledger snapshot and
// returns the updated value. The input is never mutated; on error the
// caller's ledger is untouched. The charge draws from the monthly
// allowance first, then from purchased balance, and fails outright
// with ErrInsufficientBalance when cost exceeds what is available.
func Debit(l TokenLedger, costs FeatureCosts, featureKey string, quantity int64, now time.Time) (DebitResult, error) {
	if quantity <= 0 {
		return DebitResult{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	unit, ok := costs.Cost(featureKey)
	if !ok {
		return DebitResult{}, fmt.Errorf("%w: %q", ErrUnknownFeatureCost, featureKey)
	}

	// A quantity whose cost would overflow int64 must fail like any
	// other invalid quantity; a wrapped-around negative cost would
	// credit the ledger instead of charging it.
	if unit > 0 && quantity > math.MaxInt64/unit {
		return DebitResult{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	cost := unit * quantity
	if cost > l.Available() {
		return DebitResult{}, fmt.Errorf("%w: need %d tokens, have %d",
			ErrInsufficientBalance, cost, l.Available())
	}

	fromAllowance := cost
	if fromAllowance > l.AllowanceRemaining {
		fromAllowance = l.AllowanceRemaining
	}
	fromBalance := cost - fromAllowance

	l.AllowanceRemaining -= fromAllowance
	l.Balance -= fromBalance
	l.TotalUsed += cost
	l.UpdatedAt = now

	return DebitResult{
		Ledger:        l,
		Cost:          cost,
		FromAllowance: fromAllowance,
		FromBalance:   fromBalance,
	}, nil
}

// Purchase credits purchased tokens plus any bonus to the balance.
// Bonus tokens are excluded from the lifetime purchased counter; they
// are presented as a separate line item.
func Purchase(l TokenLedger, tokens, bonusTokens int64, now time.Time) TokenLedger {
	l.Balance += tokens + bonusTokens
	l.TotalPurchased += tokens
	l.UpdatedAt = now
	return l
}

// ResetAllowance restores the monthly grant at the start of a billing
// period. Invoked by the external scheduler, never internally.
func ResetAllowance(l TokenLedger, now time.Time) TokenLedger {
	l.AllowanceRemaining = l.MonthlyAllowance
	l.UpdatedAt = now
	return l
}
