// internal/domain/entitlement/entity.go
package entitlement

import (
	"time"

	"entitlement-service/internal/domain/plan"

	"github.com/lib/pq"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Entitlement records which plan and features a workspace currently
// has active. The price is derived on read, never trusted from
// storage. Version backs the optimistic write check.
type Entitlement struct {
	WorkspaceID      int64             `json:"workspace_id" db:"workspace_id"`
	PlanID           plan.ID           `json:"plan_id" db:"plan_id"`
	SelectedFeatures pq.StringArray    `json:"selected_features" db:"selected_features"`
	BillingCycle     plan.BillingCycle `json:"billing_cycle" db:"billing_cycle"`
	Status           Status            `json:"status" db:"status"`
	Version          int64             `json:"version" db:"version"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// HasFeature reports whether id is part of the active selection.
func (e *Entitlement) HasFeature(id string) bool {
	for _, f := range e.SelectedFeatures {
		if f == id {
			return true
		}
	}
	return false
}
