package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api/handler"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api/middleware"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/ports"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/service"
	mongodb "github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/db/mongo"
	redisdb "github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/db/redis"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/http/handlers"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/infrastructure/notify"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/pkg/config"
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
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	otpRepo := mongodb.NewOtpRepository(db)
	identityRepo := mongodb.NewIdentityRepository(db)

	dispatcher := notify.NewDispatcher(
		notify.NewEmailSender(cfg.SMTP),
		notify.NewSMSSender(cfg.Twilio),
		log,
	)

	otpService := service.NewOtpService(otpRepo, dispatcher, cfg.OTP, log)

	var throttle ports.RequestThrottle
	if rdb != nil {
		throttle = redisdb.NewRequestThrottle(rdb, cfg.OTP.ResendCooldown)
	}

	authService := service.NewAuthService(otpService, identityRepo, throttle, cfg.JWTSecret, cfg.Token.TTL, log)

	authHandler := handler.NewAuthHandler(authService, identityRepo)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes, one pair per login flow ---
	flows := map[string]domain.LoginFlow{
		"login":      domain.FlowGeneric,
		"backoffice": domain.FlowBackOffice,
		"user":       domain.FlowUser,
	}
	for path, flow := range flows {
		g := e.Group("/auth/" + path)
		g.POST("/request-otp", authHandler.RequestOTP(flow))
		g.POST("/verify-otp", authHandler.VerifyOTP(flow))
	}

	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Back-office support routes ---
	bo := e.Group("/backoffice", authMiddleware, middleware.RequireBackOffice())
	bo.GET("/identities/:contact", authHandler.LookupIdentity)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
