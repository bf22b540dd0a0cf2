package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/teste-tivit/secure-api/docs"
	"github.com/teste-tivit/secure-api/internal/api/handler"
	apimiddleware "github.com/teste-tivit/secure-api/internal/api/middleware"
	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.Authenticator
	Codec    ports.TokenCodec
	External ports.ExternalService
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(echoprometheus.NewMiddleware("tivit"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Codec, deps.External)
	protectedHandler := handler.NewProtectedHandler(deps.External)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)
	authMiddleware := apimiddleware.Auth(deps.Codec)

	// --- Auth routes ---
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/token-json", authHandler.TokenJSON)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes ---
	e.GET("/user", protectedHandler.User,
		authMiddleware, apimiddleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	e.GET("/admin", protectedHandler.Admin,
		authMiddleware, apimiddleware.RBAC(domain.RoleAdmin))
	e.GET("/admin/records", protectedHandler.Records,
		authMiddleware, apimiddleware.RBAC(domain.RoleAdmin))
	e.GET("/external-health", protectedHandler.ExternalHealth,
		authMiddleware, apimiddleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	e.GET("/profile", protectedHandler.Profile,
		authMiddleware, apimiddleware.RBAC(domain.RoleUser, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
