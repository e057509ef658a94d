// internal/domain/ledger/entity.go
package ledger

import "time"

type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionUsage    TransactionType = "usage"
	TransactionBonus    TransactionType = "bonus"
	TransactionRefund   TransactionType = "refund"
)

// LowBalanceThreshold triggers the advisory low-balance warning. It
// never blocks a purchase or a debit that still fits the balance.
const LowBalanceThreshold = 50

// TokenLedger is the per-workspace token account. Balance holds
// purchased tokens carried over indefinitely; AllowanceRemaining is
// the non-carryover monthly grant and resets each billing period.
// Both stay >= 0 at all times. Version backs the optimistic write check.
type TokenLedger struct {
	WorkspaceID        int64     `json:"workspace_id" db:"workspace_id"`
	Balance            int64     `json:"balance" db:"balance"`
	MonthlyAllowance   int64     `json:"monthly_allowance" db:"monthly_allowance"`
	AllowanceRemaining int64     `json:"allowance_remaining" db:"allowance_remaining"`
	TotalPurchased     int64     `json:"total_purchased" db:"total_purchased"`
	TotalUsed          int64     `json:"total_used" db:"total_used"`
	Version            int64     `json:"version" db:"version"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Available is what a debit can draw on: allowance first, then balance.
func (l *TokenLedger) Available() int64 {
	return l.AllowanceRemaining + l.Balance
}

// LowBalance reports whether the purchased balance has fallen under
// the warning threshold. Advisory only.
func (l *TokenLedger) LowBalance() bool {
	return l.Balance < LowBalanceThreshold
}

// Transaction is one row of the append-only ledger log. Amount is
// signed: positive for credits, negative for usage.
type Transaction struct {
	ID             int64           `json:"id" db:"id"`
	WorkspaceID    int64           `json:"workspace_id" db:"workspace_id"`
	Reference      string          `json:"reference" db:"reference"`
	Type           TransactionType `json:"type" db:"type"`
	Amount         int64           `json:"amount" db:"amount"`
	FeatureKey     *string         `json:"feature_key,omitempty" db:"feature_key"`
	BalanceAfter   int64           `json:"balance_after" db:"balance_after"`
	AllowanceAfter int64           `json:"allowance_after" db:"allowance_after"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
