package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/atelierbois/portfolio/docs"
	"github.com/atelierbois/portfolio/internal/api/handler"
	"github.com/atelierbois/portfolio/internal/api/middleware"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

// Deps carries everything the router needs. Services are built by the
// caller so tests can pass stubs.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Projects ports.ProjectService
	Clients  ports.ClientService
	Media    ports.MediaService
	Health   map[string]handler.HealthCheck

	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
	// ImagesDir is served under /images when set (local asset backend).
	ImagesDir string

	RateLimitRPS   float64
	RateLimitBurst int

	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// bodyLimit covers a project create with several full-size images.
const bodyLimit = "100M"

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
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "portfolio",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookie)
	projectHandler := handler.NewProjectHandler(d.Projects)
	clientHandler := handler.NewClientHandler(d.Clients)
	uploadHandler := handler.NewUploadHandler(d.Media, d.Log)
	healthHandler := handler.NewHealthHandler(d.Health)

	requireAuth := middleware.Auth(d.Auth)
	limited := rateLimiter(d.RateLimitRPS, d.RateLimitBurst)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register, limited)
	authGroup.POST("/login", authHandler.Login, limited)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, requireAuth)

	// --- Projects: public reads, authenticated writes ---
	projects := e.Group("/projects")
	projects.GET("", projectHandler.List)
	projects.GET("/slug/:slug", projectHandler.GetBySlug)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create, requireAuth)
	projects.PUT("/:id", projectHandler.Update, requireAuth)
	projects.DELETE("/:id", projectHandler.Delete, requireAuth)

	// --- Clients: admin only ---
	admin := e.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/clients", clientHandler.List)
	admin.POST("/clients", clientHandler.Create)
	admin.GET("/clients/:id", clientHandler.Get)
	admin.PUT("/clients/:id", clientHandler.Update)
	admin.DELETE("/clients/:id", clientHandler.Delete)

	e.POST("/upload", uploadHandler.Upload, requireAuth, limited)

	if d.ImagesDir != "" {
		e.Static("/images", d.ImagesDir)
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

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
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/health/ready" || p == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
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

// rateLimiter limits per client IP. A non-positive rps disables it.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}
