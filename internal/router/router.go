package router // package router wires handlers and middleware onto an echo instance

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/config"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/handler"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/metrics"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/middleware"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
)

// Deps is everything NewServer needs. Redis may be nil, which disables
// rate limiting.
type Deps struct {
	Config    *config.Config
	Log       *logger.Logger
	Metrics   *metrics.HTTPMetrics
	Redis     *redis.Client
	Auth      *service.AuthService
	Groceries *service.GroceryService
	Recipes   *service.RecipeService
}

// NewServer builds the echo instance with the global middleware stack and
// every route registered.
func NewServer(d Deps) *echo.Echo {
	cfg := d.Config
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(d.Log)

	// RequestLog renders errors itself, so Recover must sit inside it.
	e.Use(
		middleware.RequestID(),
		middleware.RequestLog(d.Log, d.Metrics),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.App.ClientOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}),
	)

	RegisterRoutes(e, d.Metrics, cfg.Metrics)

	session := middleware.SessionAuth(d.Auth, cfg.Auth.CookieName, d.Log)
	limit := middleware.NewTokenBucket(cfg.RateLimit, d.Redis, d.Log)
	authHandler := handler.NewAuthHandler(d.Auth, handler.Cookie{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure,
	})
	RegisterAuth(e, authHandler, session, limit)
	RegisterGrocery(e, handler.NewGroceryHandler(d.Groceries), session)
	RegisterRecipes(e, handler.NewRecipeHandler(d.Recipes), session)
	return e
}

// RegisterRoutes registers routes that do not require authentication: the
// health check and, when enabled, the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, m *metrics.HTTPMetrics, mc config.MetricsConfig) {
	e.GET("/healthz", handler.Health)
	if mc.Enabled {
		path := mc.Path
		if path == "" {
			path = "/metrics"
		}
		e.GET(path, echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the credential endpoints under /auth and the
// profile update under /user. Register and login are rate limited;
// logout needs no session so a stale cookie can always be cleared.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, session, limit echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, session)

	e.PUT("/user/profile", a.UpdateProfile, session)
}
