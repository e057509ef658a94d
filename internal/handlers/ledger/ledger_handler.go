// internal/handlers/ledger/ledger_handler.go
package ledger

import (
	"net/http"

	"entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/middleware"
	xerrors "entitlement-service/internal/pkg/errors"
	"entitlement-service/internal/pkg/response"
	service "entitlement-service/internal/service/ledger"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService *service.LedgerService
}

func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// GetLedger retrieves the workspace's token ledger with recent activity
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	result, err := h.ledgerService.GetLedger(c.Request.Context(), workspaceID)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "ledger retrieved", result)
}

// ListTransactions pages through the transaction log
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	var filters ledger.TransactionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), workspaceID, &filters)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "transactions retrieved", result)
}

// Purchase credits a token package to the workspace
func (h *LedgerHandler) Purchase(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	var req ledger.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.ledgerService.Purchase(c.Request.Context(), workspaceID, &req)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "tokens purchased", result)
}

// Debit charges a metered feature invocation
func (h *LedgerHandler) Debit(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	var req ledger.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.ledgerService.CheckAndDebit(c.Request.Context(), workspaceID, &req)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "tokens debited", result)
}

// ResetAllowance restores the monthly grant. Billing scheduler only.
func (h *LedgerHandler) ResetAllowance(c *gin.Context) {
	workspaceID := middleware.MustGetWorkspaceID(c)

	result, err := h.ledgerService.ResetAllowance(c.Request.Context(), workspaceID)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "allowance reset", result)
}

func (h *LedgerHandler) writeLedgerError(c *gin.Context, err error) {
	switch {
	case xerrors.Is(err, ledger.ErrUnknownFeatureCost),
		xerrors.Is(err, ledger.ErrUnknownPackage):
		response.NotFound(c, err.Error())
	case xerrors.Is(err, ledger.ErrInsufficientBalance):
		response.Unprocessable(c, "insufficient token balance", err)
	case xerrors.Is(err, ledger.ErrInvalidQuantity):
		response.ValidationError(c, "invalid quantity", err)
	case xerrors.Is(err, xerrors.ErrConcurrentModification):
		response.Conflict(c, "ledger was modified concurrently, retry", err)
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "ledger not found")
	default:
		response.Error(c, http.StatusInternalServerError, "ledger operation failed", err)
	}
}
