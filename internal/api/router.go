package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scioly/portal/internal/api/handler"
	"github.com/scioly/portal/internal/api/middleware"
	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/service"
	mongodb "github.com/scioly/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/scioly/portal/internal/infrastructure/db/redis"
	"github.com/scioly/portal/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	creds := service.NewCredentials()
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	authService := service.NewAuthService(userRepo, creds, tokens, limiter)
	userService := service.NewUserService(userRepo)

	session := handler.NewSessionTransport(cfg.JWTCookieExpiresDays, cfg.IsProduction())
	authHandler := handler.NewAuthHandler(authService, session)
	userHandler := handler.NewUserHandler(userService)
	protect := middleware.Protect(authService)

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/logout", authHandler.Logout)

	// --- Protected user routes ---
	users := v1.Group("/users", protect)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.PATCH("/password", authHandler.UpdatePassword)
	users.GET("", userHandler.List, middleware.RestrictTo(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
