package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woodtong/storefront/internal/api/handler"
	"github.com/woodtong/storefront/internal/api/middleware"
	"github.com/woodtong/storefront/internal/core/domain"
	"github.com/woodtong/storefront/internal/core/ports"
	"github.com/woodtong/storefront/internal/core/service"
	"github.com/woodtong/storefront/internal/infrastructure/config"
	mongodb "github.com/woodtong/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/woodtong/storefront/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The session service is built by the caller so the purge sweeper can share it.
func NewRouter(db *mongo.Database, rdb *redis.Client, sessions ports.SessionService, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	cookie := middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.Lifetime(),
		Secure: cfg.IsProduction(),
	}
	gate := service.NewGate(sessions, []service.RouteRule{
		{Prefix: "/admin", Role: domain.RoleAdmin},
	}, "/", log)

	prospectService := service.NewProspectService(
		mongodb.NewProspectRepository(db),
		redisdb.NewProspectDedup(rdb),
		log,
	)
	catalogService := service.NewCatalogService(mongodb.NewFurnitureRepository(db), log)

	authHandler := handler.NewAuthHandler(sessions, cookie)
	prospectHandler := handler.NewProspectHandler(prospectService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// Every request passes the gate; /admin/* requires the admin role, all
	// other paths are public. Denials are silent redirects to the landing page.
	e.Use(middleware.Session(gate, cookie))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.GET("/auth/me", authHandler.Me)

	// --- Storefront routes ---
	e.POST("/prospects", prospectHandler.Register)
	e.GET("/furniture", catalogHandler.List)

	// --- Admin routes (gated) ---
	e.PATCH("/admin/furniture/:id", catalogHandler.Update)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
