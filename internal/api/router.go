package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/listado/marketplace-api/internal/api/handler"
	"github.com/listado/marketplace-api/internal/api/middleware"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/service"
	mongodb "github.com/listado/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/listado/marketplace-api/internal/infrastructure/db/redis"
	"github.com/listado/marketplace-api/internal/infrastructure/http/handlers"
	"github.com/listado/marketplace-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit enqueuer is injected by main so the dispatcher's lifecycle
// (start, drain on shutdown) stays outside the HTTP layer.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit service.AuditEnqueuer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	revocation := redisdb.NewRevocationStore(rdb)

	accountRepo := mongodb.NewAccountRepository(db)
	listingRepo := mongodb.NewListingRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	authService := service.NewAuthService(accountRepo, revocation, cfg.JWTSecret, tokenTTL)
	listingService := service.NewListingService(listingRepo, audit, log)
	accountService := service.NewAccountService(accountRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(listingService)
	accountHandler := handler.NewAccountHandler(accountService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	requireAuth := middleware.Auth(cfg.JWTSecret, revocation, log)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret, revocation, log)
	staffOnly := middleware.RBAC(domain.RoleModerator, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Public catalog ---
	e.GET("/v1/listings", listingHandler.ListPublic)
	e.GET("/v1/listings/:id", listingHandler.Get, optionalAuth)

	// --- Listing management (moderator/admin; fine-grained decisions in
	// the service layer) ---
	staff := e.Group("/v1/listings", requireAuth, staffOnly)
	staff.POST("", listingHandler.Create)
	staff.PATCH("/:id", listingHandler.Update)
	staff.DELETE("/:id", listingHandler.Delete)
	staff.POST("/:id/publication", listingHandler.SetPublicationState)
	staff.PUT("/:id/featured", listingHandler.SetFeatured)

	// --- Moderation dashboard ---
	moderation := e.Group("/v1/moderation", requireAuth, staffOnly)
	moderation.GET("/listings", listingHandler.ListForModeration)
	moderation.GET("/listings/:id/events", auditHandler.ListEvents, adminOnly)

	// --- Account management (admin only) ---
	accounts := e.Group("/v1/accounts", requireAuth, adminOnly)
	accounts.PATCH("/:id/role", accountHandler.ChangeRole)
	accounts.DELETE("/:id", accountHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
