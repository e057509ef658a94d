// internal/domain/ledger/dto.go
package ledger

// PurchaseRequest is the purchase payload. The payment itself is
// confirmed upstream; this endpoint only credits the account.
type PurchaseRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// DebitRequest charges a metered feature invocation.
type DebitRequest struct {
	FeatureKey string `json:"feature_key" binding:"required"`
	Quantity   int64  `json:"quantity"`
}

// LedgerResponse is a ledger snapshot plus recent activity.
type LedgerResponse struct {
	Ledger            *TokenLedger  `json:"ledger"`
	LowBalanceWarning bool          `json:"low_balance_warning"`
	Transactions      []Transaction `json:"transactions,omitempty"`
}

// TransactionListFilters pages through the transaction log.
type TransactionListFilters struct {
	Type     TransactionType `form:"type"`
	Page     int             `form:"page"`
	PageSize int             `form:"page_size"`
}

// TransactionListResponse is a page of the transaction log.
type TransactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
}
