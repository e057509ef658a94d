// internal/domain/entitlement/errors.go
package entitlement

import "errors"

// Validation failures are returned as typed errors, never panics, so
// the handler layer can render specific, actionable messages.
var (
	ErrUnknownFeature        = errors.New("unknown feature")
	ErrFeatureLimitExceeded  = errors.New("feature limit exceeded for plan")
	ErrInvalidPlanTransition = errors.New("invalid plan transition")
	ErrInvalidBillingCycle   = errors.New("invalid billing cycle")
)
