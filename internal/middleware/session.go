package middleware // package middleware contains the echo middleware shared by every route group

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

// Identifier resolves a raw session token to a live user.
type Identifier interface {
	Identify(ctx context.Context, token string) (*model.User, error)
}

// SessionAuth returns an echo middleware that reads the session token
// from the Authorization bearer header or, failing that, from the named
// cookie. The resolved user is stored on the context for CurrentUser.
// Any failure ends the request; the handler never runs unauthenticated.
func SessionAuth(auth Identifier, cookieName string, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			u, err := auth.Identify(req.Context(), extractToken(req, cookieName))
			if err != nil {
				return err
			}
			c.Set(userContextKey, *u)
			c.SetRequest(req.WithContext(log.WithUserID(req.Context(), u.ID)))
			return next(c)
		}
	}
}

func extractToken(req *http.Request, cookieName string) string {
	if auth := req.Header.Get(echo.HeaderAuthorization); auth != "" {
		const prefix = "bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}
	}
	if cookie, err := req.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
