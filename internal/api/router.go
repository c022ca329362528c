package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bethwel3001/Eco-mission/docs"
	"github.com/bethwel3001/Eco-mission/internal/api/handler"
	"github.com/bethwel3001/Eco-mission/internal/api/middleware"
	"github.com/bethwel3001/Eco-mission/internal/core/domain"
	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

// Deps carries the services the HTTP surface is built on.
type Deps struct {
	Auth        ports.AuthService
	Catalog     ports.CatalogService
	Ledger      ports.LedgerService
	Analytics   ports.AnalyticsService
	Leaderboard ports.LeaderboardService
	Denylist    ports.TokenDenylist

	JWTSecret string
	Version   string
	Checks    map[string]handler.Check
	Log       zerolog.Logger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "ecomission",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	missionHandler := handler.NewMissionHandler(d.Catalog, d.Ledger)
	profileHandler := handler.NewProfileHandler(d.Ledger, d.Analytics, d.Leaderboard)
	requireAuth := middleware.Auth(d.JWTSecret, d.Denylist, d.Log)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- v1 ---
	v1 := e.Group("/v1")
	v1.GET("/missions", missionHandler.List)
	v1.GET("/missions/:id", missionHandler.Get)
	v1.POST("/missions", missionHandler.Publish, requireAuth, requireAdmin)
	v1.POST("/missions/:id/deactivate", missionHandler.Deactivate, requireAuth, requireAdmin)
	v1.POST("/missions/complete", missionHandler.Complete, requireAuth)

	v1.GET("/me", profileHandler.Me, requireAuth)
	v1.GET("/me/analytics", profileHandler.Analytics, requireAuth)
	v1.GET("/users/:id", profileHandler.Get, requireAuth, requireAdmin)
	v1.GET("/leaderboard", profileHandler.Leaderboard, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Version)
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
