// internal/service/entitlement/entitlement_service.go
package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/plan"
	wstypes "entitlement-service/internal/domain/websocket"
	xerrors "entitlement-service/internal/pkg/errors"
	"entitlement-service/internal/repository/postgres"
	ws "entitlement-service/internal/websocket"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EntitlementService owns the plan/feature state of each workspace.
// Reads serve from a short-lived redis snapshot; every write goes
// through a row lock plus a version check so two concurrent plan
// changes can never interleave.
type EntitlementService struct {
	entitlementRepo *postgres.EntitlementRepository
	ledgerRepo      *postgres.LedgerRepository
	db              *postgres.DB
	catalog         *feature.Catalog
	cache           *redis.Client
	cacheTTL        time.Duration
	hub             *ws.Hub
	logger          *zap.Logger
}

func NewEntitlementService(
	entitlementRepo *postgres.EntitlementRepository,
	ledgerRepo *postgres.LedgerRepository,
	db *postgres.DB,
	catalog *feature.Catalog,
	cache *redis.Client,
	cacheTTL time.Duration,
	hub *ws.Hub,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		entitlementRepo: entitlementRepo,
		ledgerRepo:      ledgerRepo,
		db:              db,
		catalog:         catalog,
		cache:           cache,
		cacheTTL:        cacheTTL,
		hub:             hub,
		logger:          logger,
	}
}

func cacheKey(workspaceID int64) string {
	return fmt.Sprintf("entitlement:ws:%d", workspaceID)
}

// GetOrCreate returns the workspace's entitlement, provisioning the
// default free entitlement and its token ledger on first contact.
func (s *EntitlementService) GetOrCreate(ctx context.Context, workspaceID int64) (*entitlement.Entitlement, error) {
	if e, ok := s.cachedEntitlement(ctx, workspaceID); ok {
		return e, nil
	}

	e, err := s.entitlementRepo.FindByWorkspace(ctx, workspaceID)
	if err == nil {
		s.cacheEntitlement(ctx, e)
		return e, nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	e, err = s.provision(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	s.cacheEntitlement(ctx, e)
	return e, nil
}

// provision creates the free entitlement and the token ledger in one
// transaction so a workspace never has one without the other.
func (s *EntitlementService) provision(ctx context.Context, workspaceID int64) (*entitlement.Entitlement, error) {
	freePlan, _ := plan.ByID(plan.Free)

	e := &entitlement.Entitlement{
		WorkspaceID:      workspaceID,
		PlanID:           plan.Free,
		SelectedFeatures: s.catalog.EssentialIDs(),
		BillingCycle:     plan.CycleMonthly,
		Status:           entitlement.StatusActive,
	}
	l := &ledger.TokenLedger{
		WorkspaceID:        workspaceID,
		Balance:            0,
		MonthlyAllowance:   freePlan.MonthlyTokenAllowance,
		AllowanceRemaining: freePlan.MonthlyTokenAllowance,
	}

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.entitlementRepo.CreateWithTx(ctx, tx, e); err != nil {
			return err
		}
		return s.ledgerRepo.CreateWithTx(ctx, tx, l)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("provisioned workspace entitlement",
		zap.Int64("workspace_id", workspaceID),
		zap.Int("default_features", len(e.SelectedFeatures)))

	return e, nil
}

// Get returns the display form: entitlement, derived price, grouping.
func (s *EntitlementService) Get(ctx context.Context, workspaceID int64) (*entitlement.EntitlementResponse, error) {
	e, err := s.GetOrCreate(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return entitlement.NewEntitlementResponse(e, s.catalog), nil
}

// Preview prices a proposed change without persisting anything. The
// same validation as Update applies, so a preview that succeeds here
// only fails on commit if a concurrent writer got there first.
func (s *EntitlementService) Preview(ctx context.Context, workspaceID int64, req *entitlement.UpdateEntitlementRequest) (*entitlement.EntitlementResponse, error) {
	current, err := s.GetOrCreate(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	next, err := entitlement.ResolvePlanChange(*current, s.catalog, req.PlanID, req.SelectedFeatures, req.BillingCycle, time.Now())
	if err != nil {
		return nil, err
	}

	return entitlement.NewEntitlementResponse(&next, s.catalog), nil
}

// Update applies a plan/selection/cycle change. The entitlement row and
// the token ledger move in the same transaction: a plan change adjusts
// the monthly allowance, and partial application is impossible.
func (s *EntitlementService) Update(ctx context.Context, workspaceID int64, req *entitlement.UpdateEntitlementRequest) (*entitlement.EntitlementResponse, error) {
	// Ensure the workspace is provisioned before locking.
	if _, err := s.GetOrCreate(ctx, workspaceID); err != nil {
		return nil, err
	}

	var next entitlement.Entitlement
	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		current, err := s.entitlementRepo.FindByWorkspaceWithTx(ctx, tx, workspaceID)
		if err != nil {
			return err
		}

		next, err = entitlement.ResolvePlanChange(*current, s.catalog, req.PlanID, req.SelectedFeatures, req.BillingCycle, time.Now())
		if err != nil {
			return err
		}

		if err := s.entitlementRepo.UpdateWithTx(ctx, tx, &next, current.Version); err != nil {
			return err
		}

		if current.PlanID != next.PlanID {
			return s.applyAllowanceChange(ctx, tx, workspaceID, next.PlanID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, workspaceID)

	s.logger.Info("entitlement updated",
		zap.Int64("workspace_id", workspaceID),
		zap.String("plan_id", string(next.PlanID)),
		zap.Int("features", len(next.SelectedFeatures)),
		zap.String("billing_cycle", string(next.BillingCycle)))

	resp := entitlement.NewEntitlementResponse(&next, s.catalog)
	s.broadcastUpdate(&next, resp.ComputedPrice)
	return resp, nil
}

// Cancel downgrades the workspace to the free tier with the essential
// default selection and marks the entitlement cancelled. History in the
// transaction log is untouched.
func (s *EntitlementService) Cancel(ctx context.Context, workspaceID int64) (*entitlement.EntitlementResponse, error) {
	var next entitlement.Entitlement
	var previousPlan plan.ID

	err := s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		current, err := s.entitlementRepo.FindByWorkspaceWithTx(ctx, tx, workspaceID)
		if err != nil {
			return err
		}
		previousPlan = current.PlanID

		next = *current
		next.PlanID = plan.Free
		next.SelectedFeatures = s.catalog.EssentialIDs()
		next.BillingCycle = plan.CycleMonthly
		next.Status = entitlement.StatusCancelled
		next.UpdatedAt = time.Now()

		if err := s.entitlementRepo.UpdateWithTx(ctx, tx, &next, current.Version); err != nil {
			return err
		}

		if current.PlanID != plan.Free {
			return s.applyAllowanceChange(ctx, tx, workspaceID, plan.Free)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, workspaceID)

	s.logger.Info("entitlement cancelled",
		zap.Int64("workspace_id", workspaceID),
		zap.String("previous_plan", string(previousPlan)))

	resp := entitlement.NewEntitlementResponse(&next, s.catalog)
	s.broadcastUpdate(&next, resp.ComputedPrice)
	return resp, nil
}

// applyAllowanceChange moves the ledger's monthly grant to the new
// plan's allowance inside the caller's transaction. The remaining
// allowance shifts by the same delta, floored at zero, so an upgrade
// grants the difference immediately and a downgrade cannot go negative.
func (s *EntitlementService) applyAllowanceChange(ctx context.Context, tx pgx.Tx, workspaceID int64, newPlanID plan.ID) error {
	p, ok := plan.ByID(newPlanID)
	if !ok {
		return fmt.Errorf("%w: unknown plan %q", xerrors.ErrInvalidInput, newPlanID)
	}

	l, err := s.ledgerRepo.FindByWorkspaceForUpdate(ctx, tx, workspaceID)
	if err != nil {
		return err
	}

	delta := p.MonthlyTokenAllowance - l.MonthlyAllowance
	updated := *l
	updated.MonthlyAllowance = p.MonthlyTokenAllowance
	updated.AllowanceRemaining += delta
	if updated.AllowanceRemaining < 0 {
		updated.AllowanceRemaining = 0
	}
	updated.UpdatedAt = time.Now()

	return s.ledgerRepo.UpdateWithTx(ctx, tx, &updated, l.Version)
}

func (s *EntitlementService) broadcastUpdate(e *entitlement.Entitlement, price float64) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEntitlementUpdated(e.WorkspaceID, &wstypes.EntitlementUpdatedData{
		WorkspaceID:   e.WorkspaceID,
		PlanID:        string(e.PlanID),
		FeatureCount:  len(e.SelectedFeatures),
		ComputedPrice: price,
		BillingCycle:  string(e.BillingCycle),
		Features:      e.SelectedFeatures,
	})
}

// --- Cache helpers ---

func (s *EntitlementService) cachedEntitlement(ctx context.Context, workspaceID int64) (*entitlement.Entitlement, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cacheKey(workspaceID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("entitlement cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var e entitlement.Entitlement
	if err := json.Unmarshal(data, &e); err != nil {
		s.logger.Warn("entitlement cache decode failed", zap.Error(err))
		return nil, false
	}
	return &e, true
}

func (s *EntitlementService) cacheEntitlement(ctx context.Context, e *entitlement.Entitlement) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(e.WorkspaceID), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("entitlement cache write failed", zap.Error(err))
	}
}

func (s *EntitlementService) invalidateCache(ctx context.Context, workspaceID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(workspaceID)).Err(); err != nil {
		s.logger.Warn("entitlement cache invalidation failed", zap.Error(err))
	}
}
