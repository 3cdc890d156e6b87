package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/recordkeep/records-system/internal/api/handler"
	"github.com/recordkeep/records-system/internal/api/middleware"
	"github.com/recordkeep/records-system/internal/core/domain"
	"github.com/recordkeep/records-system/internal/core/ports"
)

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Auth      ports.AuthService
	Ledger    ports.LedgerService
	Inventory ports.InventoryService
	Alerts    ports.AlertService
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.PingFunc
	Log    zerolog.Logger
	// Registry receives the HTTP metrics and serves /metrics. Nil means the
	// default Prometheus registry, which also holds the domain metrics.
	Registry *prometheus.Registry
	// LoginLimiter throttles the login routes when set.
	LoginLimiter *middleware.LoginLimiter
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	promMW := echoprometheus.MiddlewareConfig{Subsystem: "records"}
	promHandler := echoprometheus.HandlerConfig{}
	if deps.Registry != nil {
		promMW.Registerer = deps.Registry
		promHandler.Gatherer = deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMW))

	authHandler := handler.NewAuthHandler(deps.Auth)
	ledgerHandler := handler.NewLedgerHandler(deps.Ledger)
	inventoryHandler := handler.NewInventoryHandler(deps.Inventory, deps.Alerts)
	requireSession := middleware.Auth(deps.Auth)

	var throttle []echo.MiddlewareFunc
	if deps.LoginLimiter != nil {
		throttle = append(throttle, deps.LoginLimiter.Middleware())
	}

	// --- Ledger tool ---
	ledger := e.Group("/v1/ledger")
	ledger.POST("/accounts", ledgerHandler.OpenAccount)
	ledger.POST("/login", authHandler.LedgerLogin, throttle...)

	ledgerSession := ledger.Group("", requireSession, middleware.RequireTool(domain.ToolLedger))
	ledgerSession.GET("/balance", ledgerHandler.Balance)
	ledgerSession.POST("/deposit", ledgerHandler.Deposit)
	ledgerSession.POST("/withdraw", ledgerHandler.Withdraw)
	ledgerSession.POST("/logout", authHandler.Logout, ledgerHandler.ReleaseOnLogout)

	// --- Inventory tool ---
	inventory := e.Group("/v1/inventory")
	inventory.POST("/register", authHandler.Register)
	inventory.POST("/login", authHandler.InventoryLogin, throttle...)

	inventorySession := inventory.Group("", requireSession, middleware.RequireTool(domain.ToolInventory))
	inventorySession.GET("/products", inventoryHandler.List)
	inventorySession.POST("/products", inventoryHandler.Add)
	inventorySession.GET("/products/low-stock", inventoryHandler.LowStock)
	inventorySession.GET("/products/:id", inventoryHandler.Get)
	inventorySession.PUT("/products/:id", inventoryHandler.Update)
	inventorySession.DELETE("/products/:id", inventoryHandler.Delete)
	inventorySession.POST("/logout", authHandler.Logout)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))

	return e
}

// requestLogger writes one zerolog line per request.
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
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
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
