// internal/app/router.go
package app

import (
	catalogHandler "entitlement-service/internal/handlers/catalog"
	entitlementHandler "entitlement-service/internal/handlers/entitlement"
	ledgerHandler "entitlement-service/internal/handlers/ledger"
	wsHandler "entitlement-service/internal/handlers/websocket"
	"entitlement-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	CatalogHandler     *catalogHandler.CatalogHandler
	EntitlementHandler *entitlementHandler.EntitlementHandler
	LedgerHandler      *ledgerHandler.LedgerHandler
	WSHandler          *wsHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimit          *middleware.RateLimitMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Catalog (public) ====================
	api.GET("/features", h.CatalogHandler.ListFeatures)
	api.GET("/plans", h.CatalogHandler.ListPlans)
	api.GET("/packages", h.CatalogHandler.ListPackages)
	api.GET("/feature-costs", h.CatalogHandler.ListFeatureCosts)

	// ==================== Entitlements ====================
	entitlements := api.Group("/entitlements/:workspace_id")
	entitlements.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireWorkspaceAccess())
	{
		entitlements.GET("", h.EntitlementHandler.GetEntitlement)
		entitlements.PUT("", h.EntitlementHandler.UpdateEntitlement)
		entitlements.DELETE("", h.EntitlementHandler.CancelEntitlement)
		entitlements.POST("/preview", h.EntitlementHandler.PreviewEntitlement)
	}

	// ==================== Token Ledger ====================
	ledger := api.Group("/ledger/:workspace_id")
	ledger.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireWorkspaceAccess())
	{
		ledger.GET("", h.LedgerHandler.GetLedger)
		ledger.GET("/transactions", h.LedgerHandler.ListTransactions)
		ledger.POST("/purchase", h.LedgerHandler.Purchase)
		ledger.POST("/debit", h.RateLimit.Limit(), h.LedgerHandler.Debit)
		ledger.POST("/reset-allowance", h.AuthMiddleware.RequireRole("admin", "billing"), h.LedgerHandler.ResetAllowance)
	}
}
