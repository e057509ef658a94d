// internal/handlers/entitlement/entitlement_handler.go
package entitlement

import (
	"net/http"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/middleware"
	xerrors "entitlement-service/internal/pkg/errors"
	"entitlement-service/internal/pkg/response"
	service "entitlement-service/internal/service/entitlement"

	"github.com/gin-gonic/gin"
)

type EntitlementHandler struct {
	entitlementService *service.EntitlementService
}

func NewEntitlementHandler(entitlementService *service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
	}
}

// GetEntitlement retrieves the workspace's entitlement, provisioning
// the free default on first contact
func (h *EntitlementHandler) GetEntitlement(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	result, err := h.entitlementService.Get(c.Request.Context(), workspaceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to retrieve entitlement", err)
		return
	}

	response.Success(c, http.StatusOK, "entitlement retrieved", result)
}

// PreviewEntitlement prices a proposed change without persisting it
func (h *EntitlementHandler) PreviewEntitlement(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	var req entitlement.UpdateEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.entitlementService.Preview(c.Request.Context(), workspaceID, &req)
	if err != nil {
		h.writeEntitlementError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "plan change previewed", result)
}

// UpdateEntitlement applies a plan/selection/cycle change
func (h *EntitlementHandler) UpdateEntitlement(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	var req entitlement.UpdateEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.entitlementService.Update(c.Request.Context(), workspaceID, &req)
	if err != nil {
		h.writeEntitlementError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "entitlement updated", result)
}

// CancelEntitlement downgrades the workspace to the free tier
func (h *EntitlementHandler) CancelEntitlement(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	result, err := h.entitlementService.Cancel(c.Request.Context(), workspaceID)
	if err != nil {
		h.writeEntitlementError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "entitlement cancelled", result)
}

func (h *EntitlementHandler) writeEntitlementError(c *gin.Context, err error) {
	switch {
	case xerrors.Is(err, entitlement.ErrUnknownFeature),
		xerrors.Is(err, entitlement.ErrInvalidPlanTransition):
		response.NotFound(c, err.Error())
	case xerrors.Is(err, entitlement.ErrFeatureLimitExceeded):
		response.Unprocessable(c, "feature limit exceeded", err)
	case xerrors.Is(err, entitlement.ErrInvalidBillingCycle):
		response.ValidationError(c, "invalid billing cycle", err)
	case xerrors.Is(err, xerrors.ErrConcurrentModification):
		response.Conflict(c, "entitlement was modified concurrently, retry", err)
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "entitlement not found")
	default:
		response.Error(c, http.StatusInternalServerError, "failed to apply entitlement change", err)
	}
}
