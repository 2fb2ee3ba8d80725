package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/supportinsights/hub/internal/api/handler"
	"github.com/supportinsights/hub/internal/api/middleware"
	"github.com/supportinsights/hub/internal/core/domain"
	"github.com/supportinsights/hub/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger           zerolog.Logger
	AuthService      ports.AuthService
	Tokens           ports.TokenVerifier
	TicketService    ports.TicketService
	UserService      ports.UserService
	DashboardService ports.DashboardService
	ReadinessChecks  map[string]handler.DependencyCheck

	CORSOrigins []string
	// LoginRate and LoginBurst throttle POST /api/auth/login per client IP.
	// A zero rate disables throttling.
	LoginRate  float64
	LoginBurst int
	// MetricsRegisterer defaults to the global Prometheus registry.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "hub",
		Registerer: d.MetricsRegisterer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Logger)
	ticketHandler := handler.NewTicketHandler(d.TicketService, d.Logger)
	userHandler := handler.NewUserHandler(d.UserService, d.Logger)
	dashboardHandler := handler.NewDashboardHandler(d.DashboardService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.ReadinessChecks)

	authMW := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	authGroup := e.Group("/api/auth")
	if d.LoginRate > 0 {
		authGroup.POST("/login", authHandler.Login, loginRateLimiter(d.LoginRate, d.LoginBurst))
	} else {
		authGroup.POST("/login", authHandler.Login)
	}
	authGroup.POST("/logout", authHandler.Logout)

	// --- Tickets ---
	tickets := e.Group("/api/tickets", authMW)
	tickets.GET("", ticketHandler.List)
	tickets.GET("/:id", ticketHandler.Get)
	tickets.POST("", ticketHandler.Create)
	tickets.PUT("/:id", ticketHandler.Update)
	tickets.DELETE("/:id", ticketHandler.Delete, middleware.RBAC(domain.RoleAdmin, domain.RoleAgent))

	// --- Users ---
	users := e.Group("/api/users", authMW)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create, middleware.RBAC(domain.RoleAdmin))
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Dashboard ---
	dashboard := e.Group("/api/dashboard", authMW)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/recent-tickets", dashboardHandler.RecentTickets)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func loginRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"})
		},
	})
}
