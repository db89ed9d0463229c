package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/config"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/metrics"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/testkit/storefakes"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const testSecret = "middleware-test-secret"

func newAuth(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	auth := service.NewAuthService(storefakes.NewUserStore(), utils.NewTokens(testSecret), utils.NewValidator(), 4)
	sess, err := auth.Register(context.Background(), service.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	return auth, sess.Token
}

func whoami(c echo.Context) error {
	u, ok := CurrentUser(c)
	if !ok {
		return c.String(http.StatusInternalServerError, "no user")
	}
	return c.String(http.StatusOK, u.Email)
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	auth, token := newAuth(t)
	e := echo.New()
	var lastErr error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		lastErr = err
		_ = c.NoContent(apperr.MetadataFor(apperr.As(err).Code()).HTTPStatus)
	}
	e.GET("/me", whoami, SessionAuth(auth, "token", logger.Nop()))

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := serve(e, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ana@example.com", rec.Body.String())
	})

	t.Run("lower-case scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "bearer "+token)
		assert.Equal(t, http.StatusOK, serve(e, req).Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		assert.Equal(t, http.StatusOK, serve(e, req).Code)
	})

	t.Run("bearer wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		lastErr = nil
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.True(t, apperr.HasCode(lastErr, apperr.CodeUnauthorized))
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token+"x")
		assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
	})
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, extractToken(req, "token"))

	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	assert.Empty(t, extractToken(req, "token"))

	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", extractToken(req, "token"))

	req.Header.Set(echo.HeaderAuthorization, "Bearer  padded ")
	assert.Equal(t, "padded", extractToken(req, "token"))
}

func TestUserIDFallsBackToAnon(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", userID(c))

	c.Set(userContextKey, model.User{ID: 42})
	assert.Equal(t, "42", userID(c))
}

func TestTokenBucketPassThrough(t *testing.T) {
	e := echo.New()
	called := 0
	h := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, logger.Nop())(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), httptest.NewRecorder())
		require.NoError(t, h(c))
	}
	assert.Equal(t, 3, called)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	cases := map[string]string{
		"ip":         "rl:ip:10.0.0.7",
		"user":       "rl:user:anon",
		"route":      "rl:route:POST /auth/login",
		"ip_route":   "rl:ip:10.0.0.7:route:POST /auth/login",
		"IP_USER":    "rl:ip:10.0.0.7:user:anon",
		"user_route": "rl:user:anon:route:POST /auth/login",
		"":           "rl:ip:10.0.0.7:user:anon:route:POST /auth/login",
	}
	for strategy, want := range cases {
		got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		assert.Equal(t, want, got, "strategy %q", strategy)
	}
}

func TestRequestLogRendersErrorsAndRecordsMetrics(t *testing.T) {
	e := echo.New()
	rendered := 0
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		rendered++
		_ = c.NoContent(http.StatusNotFound)
	}
	m := metrics.NewHTTPMetrics(nil)
	e.Use(RequestID(), RequestLog(logger.Nop(), m))
	e.GET("/missing", func(echo.Context) error { return apperr.NotFound("nope") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, rendered)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
