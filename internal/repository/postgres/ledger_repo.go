// internal/repository/postgres/ledger_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"entitlement-service/internal/domain/ledger"
	xerrors "entitlement-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const ledgerColumns = `
	workspace_id, balance, monthly_allowance, allowance_remaining,
	total_purchased, total_used, version, created_at, updated_at
`

// CreateWithTx inserts a fresh ledger row for a workspace.
func (r *LedgerRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, l *ledger.TokenLedger) error {
	query := `
		INSERT INTO token_ledgers (workspace_id, balance, monthly_allowance, allowance_remaining)
		VALUES ($1, $2, $3, $4)
		RETURNING total_purchased, total_used, version, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		l.WorkspaceID, l.Balance, l.MonthlyAllowance, l.AllowanceRemaining,
	).Scan(&l.TotalPurchased, &l.TotalUsed, &l.Version, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}

	return nil
}

// FindByWorkspace retrieves a ledger snapshot without locking.
func (r *LedgerRepository) FindByWorkspace(ctx context.Context, workspaceID int64) (*ledger.TokenLedger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM token_ledgers WHERE workspace_id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, workspaceID))
}

// FindByWorkspaceForUpdate retrieves and row-locks the ledger inside a
// transaction. Debits for the same workspace serialize here, so two
// concurrent callers can never both spend the same tokens.
func (r *LedgerRepository) FindByWorkspaceForUpdate(ctx context.Context, tx pgx.Tx, workspaceID int64) (*ledger.TokenLedger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM token_ledgers WHERE workspace_id = $1 FOR UPDATE`
	return r.scanOne(tx.QueryRow(ctx, query, workspaceID))
}

// UpdateWithTx writes back an updated ledger value, guarded by the
// version the caller read under the row lock.
func (r *LedgerRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, l *ledger.TokenLedger, expectedVersion int64) error {
	query := `
		UPDATE token_ledgers
		SET balance = $1, monthly_allowance = $2, allowance_remaining = $3,
		    total_purchased = $4, total_used = $5, version = version + 1, updated_at = $6
		WHERE workspace_id = $7 AND version = $8
	`

	result, err := tx.Exec(ctx, query,
		l.Balance, l.MonthlyAllowance, l.AllowanceRemaining,
		l.TotalPurchased, l.TotalUsed, time.Now(), l.WorkspaceID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrConcurrentModification
	}

	l.Version = expectedVersion + 1
	return nil
}

// InsertTransactionWithTx appends one row to the transaction log.
// The log is append-only; there is no update or delete path.
func (r *LedgerRepository) InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, t *ledger.Transaction) error {
	query := `
		INSERT INTO token_transactions
			(workspace_id, reference, type, amount, feature_key, balance_after, allowance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		t.WorkspaceID, t.Reference, t.Type, t.Amount, t.FeatureKey, t.BalanceAfter, t.AllowanceAfter,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactions pages through a workspace's transaction log,
// newest first, optionally filtered by type.
func (r *LedgerRepository) ListTransactions(ctx context.Context, workspaceID int64, filters *ledger.TransactionListFilters) ([]ledger.Transaction, int64, error) {
	conditions := []string{"workspace_id = $1"}
	args := []interface{}{workspaceID}

	if filters.Type != "" {
		args = append(args, filters.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM token_transactions WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	args = append(args, filters.PageSize, offset)
	query := fmt.Sprintf(`
		SELECT id, workspace_id, reference, type, amount, feature_key,
		       balance_after, allowance_after, created_at
		FROM token_transactions
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		if err := rows.Scan(
			&t.ID, &t.WorkspaceID, &t.Reference, &t.Type, &t.Amount, &t.FeatureKey,
			&t.BalanceAfter, &t.AllowanceAfter, &t.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read transactions: %w", err)
	}

	return out, total, nil
}

// RecentTransactions returns the newest n log rows for a workspace.
func (r *LedgerRepository) RecentTransactions(ctx context.Context, workspaceID int64, n int) ([]ledger.Transaction, error) {
	txns, _, err := r.ListTransactions(ctx, workspaceID, &ledger.TransactionListFilters{Page: 1, PageSize: n})
	return txns, err
}

func (r *LedgerRepository) scanOne(row pgx.Row) (*ledger.TokenLedger, error) {
	var l ledger.TokenLedger

	err := row.Scan(
		&l.WorkspaceID, &l.Balance, &l.MonthlyAllowance, &l.AllowanceRemaining,
		&l.TotalPurchased, &l.TotalUsed, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger: %w", err)
	}

	return &l, nil
}
