// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"entitlement-service/internal/config"
	"entitlement-service/internal/db"
	"entitlement-service/internal/domain/feature"
	"entitlement-service/internal/domain/ledger"
	catalogHandler "entitlement-service/internal/handlers/catalog"
	entitlementHandler "entitlement-service/internal/handlers/entitlement"
	ledgerHandler "entitlement-service/internal/handlers/ledger"
	wsHandler "entitlement-service/internal/handlers/websocket"
	"entitlement-service/internal/middleware"
	"entitlement-service/internal/pkg/jwt"
	"entitlement-service/internal/repository/postgres"
	catalogService "entitlement-service/internal/service/catalog"
	entitlementService "entitlement-service/internal/service/entitlement"
	ledgerService "entitlement-service/internal/service/ledger"
	"entitlement-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT verifier (tokens are minted by the identity service) -----
	verifier, err := jwt.LoadVerifier(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT verifier: %w", err)
	}

	// ----- Domain tables -----
	catalog := feature.DefaultCatalog()
	costs := ledger.DefaultFeatureCosts()

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	entitlementRepo := postgres.NewEntitlementRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(verifier)
	go hub.Run(ctx)

	// ----- Services -----
	catalogSvc := catalogService.NewCatalogService(catalog, logger)
	entitlementSvc := entitlementService.NewEntitlementService(
		entitlementRepo,
		ledgerRepo,
		dbWrapper,
		catalog,
		redisClient,
		time.Duration(s.cfg.EntitlementCacheTTLSeconds)*time.Second,
		hub,
		logger,
	)
	ledgerSvc := ledgerService.NewLedgerService(
		ledgerRepo,
		entitlementSvc,
		dbWrapper,
		costs,
		hub,
		logger,
	)

	// ----- Handlers -----
	catalogHandlerInst := catalogHandler.NewCatalogHandler(catalogSvc)
	entitlementHandlerInst := entitlementHandler.NewEntitlementHandler(entitlementSvc)
	ledgerHandlerInst := ledgerHandler.NewLedgerHandler(ledgerSvc)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	rateLimit := middleware.NewRateLimitMiddleware(redisClient, s.cfg.RateLimitPerMinute, logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		CatalogHandler:     catalogHandlerInst,
		EntitlementHandler: entitlementHandlerInst,
		LedgerHandler:      ledgerHandlerInst,
		WSHandler:          wsHandlerInst,
		AuthMiddleware:     authMiddleware,
		RateLimit:          rateLimit,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
