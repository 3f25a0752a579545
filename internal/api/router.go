package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/canvord/blog-api/docs"
	"github.com/canvord/blog-api/internal/api/handler"
	"github.com/canvord/blog-api/internal/api/middleware"
	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// Dependencies is everything the router wires into handlers and middleware.
type Dependencies struct {
	Articles      ports.ArticleService
	Visitor       ports.VisitorService
	Auth          ports.AuthService
	Events        ports.EventService
	Authenticator middleware.Authenticator

	// Cache configures the response cache in front of /visitor. Its Store is
	// required; KeyGenerator defaults to CanonicalQueryKey here.
	Cache middleware.CacheConfig

	HealthChecks map[string]handler.DependencyCheck
	CORSOrigins  []string
	Logger       zerolog.Logger
	// MetricsRegistry receives the HTTP metrics and backs /metrics.
	// Nil means the default Prometheus registry.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	if len(deps.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.MetricsRegistry != nil {
		registerer, gatherer = deps.MetricsRegistry, deps.MetricsRegistry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "blog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Admin login (open) ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/admin/login", authHandler.Login)

	// --- Admin article routes (bearer token, admin role) ---
	articleHandler := handler.NewArticleHandler(deps.Articles)
	eventHandler := handler.NewEventHandler(deps.Events)

	articles := e.Group("/articles",
		middleware.Auth(deps.Authenticator, deps.Logger),
		middleware.RBAC(domain.RoleAdmin),
	)
	articles.POST("/create", articleHandler.Create)
	articles.PUT("/update", articleHandler.Update)
	articles.DELETE("/delete", articleHandler.Delete)
	articles.PUT("/hide", articleHandler.Hide)
	articles.PUT("/publish", articleHandler.Publish)
	articles.PUT("/publish-draft", articleHandler.PublishDraft)
	articles.PUT("/save-draft", articleHandler.SaveDraft)
	articles.GET("/id/:id", articleHandler.GetByID)
	articles.GET("/id/:id/events", eventHandler.History)
	articles.GET("/slug/:slug", articleHandler.GetBySlug)
	articles.GET("/title/:title", articleHandler.ListByTitle)
	articles.GET("/page", articleHandler.ListPage)

	// --- Visitor routes (public, cached) ---
	cacheCfg := deps.Cache
	if cacheCfg.KeyGenerator == nil {
		cacheCfg.KeyGenerator = middleware.CanonicalQueryKey
	}
	cacheCfg.Logger = deps.Logger

	visitorHandler := handler.NewVisitorHandler(deps.Visitor)
	visitor := e.Group("/visitor", middleware.Cache(cacheCfg))
	visitor.GET("/slug/:slug", visitorHandler.GetBySlug)
	visitor.GET("/title/:title", visitorHandler.ListByTitle)
	visitor.GET("/page", visitorHandler.ListPage)

	return e
}

// requestLogger writes one access log line per request through zerolog.
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
			if v.Status >= http.StatusInternalServerError {
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
