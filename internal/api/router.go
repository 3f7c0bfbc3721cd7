package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/listasy/grocery-api/docs"
	"github.com/listasy/grocery-api/internal/api/handler"
	"github.com/listasy/grocery-api/internal/api/middleware"
	"github.com/listasy/grocery-api/internal/core/ports"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Registry ports.WorkspaceRegistry
	// JWTSecret enables local HS256 verification of bearer tokens when set.
	JWTSecret   string
	CORSOrigins []string
	// Checks are the readiness probes, by dependency name.
	Checks map[string]handler.Checker
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		}))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "grocery",
		Registerer: cfg.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Registry, log)
	listHandler := handler.NewListHandler()
	itemHandler := handler.NewItemHandler()
	authMiddleware := middleware.Auth(cfg.Registry, cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/sign-in", authHandler.SignIn)
	e.POST("/auth/sign-up", authHandler.SignUp)
	e.POST("/auth/sign-out", authHandler.SignOut, authMiddleware)
	e.GET("/auth/session", authHandler.Session, authMiddleware)

	// --- Grocery routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/state", listHandler.State)
	v1.GET("/lists", listHandler.Fetch)
	v1.POST("/lists", listHandler.Create)
	v1.DELETE("/lists/current", listHandler.Clear)
	v1.PATCH("/lists/:list_id", listHandler.Rename)
	v1.POST("/lists/:list_id/share", listHandler.Share)
	v1.PUT("/lists/:list_id/current", listHandler.Select)
	v1.GET("/lists/:list_id/summary", listHandler.Summary)
	v1.GET("/lists/:list_id/items", itemHandler.Fetch)
	v1.POST("/lists/:list_id/items", itemHandler.Add)
	v1.PATCH("/items/:item_id", itemHandler.Update)
	v1.PUT("/items/:item_id/purchased", itemHandler.TogglePurchased)
	v1.DELETE("/items/:item_id", itemHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
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
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
