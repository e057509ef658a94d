// internal/repository/postgres/entitlement_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entitlement-service/internal/domain/entitlement"
	xerrors "entitlement-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EntitlementRepository struct {
	db *pgxpool.Pool
}

func NewEntitlementRepository(db *pgxpool.Pool) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

const entitlementColumns = `
	workspace_id, plan_id, selected_features, billing_cycle,
	status, version, created_at, updated_at
`

// CreateWithTx inserts a new entitlement row within a transaction.
func (r *EntitlementRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, e *entitlement.Entitlement) error {
	query := `
		INSERT INTO entitlements (workspace_id, plan_id, selected_features, billing_cycle, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING version, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		e.WorkspaceID, e.PlanID, e.SelectedFeatures, e.BillingCycle, e.Status,
	).Scan(&e.Version, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create entitlement: %w", err)
	}

	return nil
}

// FindByWorkspace retrieves the entitlement for a workspace.
func (r *EntitlementRepository) FindByWorkspace(ctx context.Context, workspaceID int64) (*entitlement.Entitlement, error) {
	query := `SELECT ` + entitlementColumns + ` FROM entitlements WHERE workspace_id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, workspaceID))
}

// FindByWorkspaceWithTx retrieves and row-locks the entitlement so a
// plan change is applied against a consistent snapshot.
func (r *EntitlementRepository) FindByWorkspaceWithTx(ctx context.Context, tx pgx.Tx, workspaceID int64) (*entitlement.Entitlement, error) {
	query := `SELECT ` + entitlementColumns + ` FROM entitlements WHERE workspace_id = $1 FOR UPDATE`
	return r.scanOne(tx.QueryRow(ctx, query, workspaceID))
}

// UpdateWithTx persists a resolved entitlement, guarded by the version
// the caller read. Zero rows affected means a concurrent writer won.
func (r *EntitlementRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, e *entitlement.Entitlement, expectedVersion int64) error {
	query := `
		UPDATE entitlements
		SET plan_id = $1, selected_features = $2, billing_cycle = $3,
		    status = $4, version = version + 1, updated_at = $5
		WHERE workspace_id = $6 AND version = $7
	`

	result, err := tx.Exec(ctx, query,
		e.PlanID, e.SelectedFeatures, e.BillingCycle,
		e.Status, time.Now(), e.WorkspaceID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update entitlement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrConcurrentModification
	}

	e.Version = expectedVersion + 1
	return nil
}

func (r *EntitlementRepository) scanOne(row pgx.Row) (*entitlement.Entitlement, error) {
	var e entitlement.Entitlement

	err := row.Scan(
		&e.WorkspaceID, &e.PlanID, &e.SelectedFeatures, &e.BillingCycle,
		&e.Status, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entitlement: %w", err)
	}

	return &e, nil
}
