// internal/service/ledger/ledger_service.go
package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"entitlement-service/internal/domain/ledger"
	entsvc "entitlement-service/internal/service/entitlement"
	ws "entitlement-service/internal/websocket"

	"entitlement-service/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// LedgerService meters token usage for workspaces. Every balance
// mutation runs under a row lock and lands exactly one row in the
// append-only transaction log (two for purchases with a bonus).
type LedgerService struct {
	ledgerRepo  *postgres.LedgerRepository
	entitlement *entsvc.EntitlementService
	db          *postgres.DB
	costs       ledger.FeatureCosts
	hub         *ws.Hub
	logger      *zap.Logger

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

func NewLedgerService(
	ledgerRepo *postgres.LedgerRepository,
	entitlement *entsvc.EntitlementService,
	db *postgres.DB,
	costs ledger.FeatureCosts,
	hub *ws.Hub,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		entitlement: entitlement,
		db:          db,
		costs:       costs,
		hub:         hub,
		logger:      logger,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// newReference mints a unique, sortable transaction reference.
func (s *LedgerService) newReference() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return fmt.Sprintf("txn_%s", ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy))
}

// ensureLedger makes sure the workspace is provisioned. Provisioning
// lives with the entitlement service so a ledger never exists without
// its entitlement.
func (s *LedgerService) ensureLedger(ctx context.Context, workspaceID int64) error {
	_, err := s.entitlement.GetOrCreate(ctx, workspaceID)
	return err
}

// GetLedger returns the ledger snapshot plus recent activity.
func (s *LedgerService) GetLedger(ctx context.Context, workspaceID int64) (*ledger.LedgerResponse, error) {
	if err := s.ensureLedger(ctx, workspaceID); err != nil {
		return nil, err
	}

	l, err := s.ledgerRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ledgerRepo.RecentTransactions(ctx, workspaceID, 10)
	if err != nil {
		return nil, err
	}

	return &ledger.LedgerResponse{
		Ledger:            l,
		LowBalanceWarning: l.LowBalance(),
		Transactions:      recent,
	}, nil
}

// ListTransactions pages through the workspace's transaction log.
func (s *LedgerService) ListTransactions(ctx context.Context, workspaceID int64, filters *ledger.TransactionListFilters) (*ledger.TransactionListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	txns, total, err := s.ledgerRepo.ListTransactions(ctx, workspaceID, filters)
	if err != nil {
		return nil, err
	}

	return &ledger.TransactionListResponse{
		Transactions: txns,
		Total:        total,
		Page:         filters.Page,
		PageSize:     filters.PageSize,
	}, nil
}

// CheckAndDebit charges a metered feature invocation. The debit draws
// on the monthly allowance first, then purchased balance, and fails
// atomically when the cost exceeds what is available.
func (s *LedgerService) CheckAndDebit(ctx context.Context, workspaceID int64, req *ledger.DebitRequest) (*ledger.DebitResult, error) {
	if err := s.ensureLedger(ctx, workspaceID); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var result ledger.DebitResult
	var txn *ledger.Transaction

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		l, err := s.ledgerRepo.FindByWorkspaceForUpdate(ctx, tx, workspaceID)
		if err != nil {
			return err
		}

		result, err = ledger.Debit(*l, s.costs, req.FeatureKey, quantity, time.Now())
		if err != nil {
			return err
		}

		if err := s.ledgerRepo.UpdateWithTx(ctx, tx, &result.Ledger, l.Version); err != nil {
			return err
		}

		featureKey := req.FeatureKey
		txn = &ledger.Transaction{
			WorkspaceID:    workspaceID,
			Reference:      s.newReference(),
			Type:           ledger.TransactionUsage,
			Amount:         -result.Cost,
			FeatureKey:     &featureKey,
			BalanceAfter:   result.Ledger.Balance,
			AllowanceAfter: result.Ledger.AllowanceRemaining,
		}
		return s.ledgerRepo.InsertTransactionWithTx(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens debited",
		zap.Int64("workspace_id", workspaceID),
		zap.String("feature_key", req.FeatureKey),
		zap.Int64("cost", result.Cost),
		zap.Int64("from_allowance", result.FromAllowance),
		zap.Int64("from_balance", result.FromBalance),
		zap.String("reference", txn.Reference))

	if s.hub != nil && result.Ledger.LowBalance() {
		s.hub.BroadcastLowBalance(workspaceID, result.Ledger.Balance, ledger.LowBalanceThreshold)
	}

	return &result, nil
}

// Purchase credits a token package. Payment confirmation happened
// upstream; this endpoint records the credit. A bonus lands as its own
// log row and never counts toward the lifetime purchased total.
func (s *LedgerService) Purchase(ctx context.Context, workspaceID int64, req *ledger.PurchaseRequest) (*ledger.LedgerResponse, error) {
	pkg, err := ledger.PackageByID(req.PackageID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureLedger(ctx, workspaceID); err != nil {
		return nil, err
	}

	var updated ledger.TokenLedger
	var reference string

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		l, err := s.ledgerRepo.FindByWorkspaceForUpdate(ctx, tx, workspaceID)
		if err != nil {
			return err
		}

		updated = ledger.Purchase(*l, pkg.Tokens, pkg.BonusTokens, time.Now())
		if err := s.ledgerRepo.UpdateWithTx(ctx, tx, &updated, l.Version); err != nil {
			return err
		}

		purchaseTxn := &ledger.Transaction{
			WorkspaceID:    workspaceID,
			Reference:      s.newReference(),
			Type:           ledger.TransactionPurchase,
			Amount:         pkg.Tokens,
			BalanceAfter:   updated.Balance,
			AllowanceAfter: updated.AllowanceRemaining,
		}
		if pkg.BonusTokens > 0 {
			// The bonus is logged separately; BalanceAfter on the purchase
			// row excludes it so each row accounts for its own amount.
			purchaseTxn.BalanceAfter = updated.Balance - pkg.BonusTokens
		}
		if err := s.ledgerRepo.InsertTransactionWithTx(ctx, tx, purchaseTxn); err != nil {
			return err
		}
		reference = purchaseTxn.Reference

		if pkg.BonusTokens > 0 {
			bonusTxn := &ledger.Transaction{
				WorkspaceID:    workspaceID,
				Reference:      s.newReference(),
				Type:           ledger.TransactionBonus,
				Amount:         pkg.BonusTokens,
				BalanceAfter:   updated.Balance,
				AllowanceAfter: updated.AllowanceRemaining,
			}
			return s.ledgerRepo.InsertTransactionWithTx(ctx, tx, bonusTxn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens purchased",
		zap.Int64("workspace_id", workspaceID),
		zap.String("package_id", pkg.ID),
		zap.Int64("tokens", pkg.Tokens),
		zap.Int64("bonus_tokens", pkg.BonusTokens),
		zap.String("reference", reference))

	return &ledger.LedgerResponse{
		Ledger:            &updated,
		LowBalanceWarning: updated.LowBalance(),
	}, nil
}

// ResetAllowance restores the monthly grant at the start of a billing
// period. Invoked by the billing scheduler, guarded by the admin role.
func (s *LedgerService) ResetAllowance(ctx context.Context, workspaceID int64) (*ledger.LedgerResponse, error) {
	var updated ledger.TokenLedger

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		l, err := s.ledgerRepo.FindByWorkspaceForUpdate(ctx, tx, workspaceID)
		if err != nil {
			return err
		}

		updated = ledger.ResetAllowance(*l, time.Now())
		return s.ledgerRepo.UpdateWithTx(ctx, tx, &updated, l.Version)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("allowance reset",
		zap.Int64("workspace_id", workspaceID),
		zap.Int64("monthly_allowance", updated.MonthlyAllowance))

	return &ledger.LedgerResponse{
		Ledger:            &updated,
		LowBalanceWarning: updated.LowBalance(),
	}, nil
}
