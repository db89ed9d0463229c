package middleware

// identity.go holds the helpers that read the authenticated user back out
// of the echo context. SessionAuth stores the full model.User under
// userContextKey after checking the token and loading the row, so handlers
// never parse the JWT themselves. Anything that runs before SessionAuth,
// such as the rate limiter on /auth/login, sees no user.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/model"
)

const userContextKey = "user"

// CurrentUser returns the user attached by SessionAuth. ok is false on
// routes without SessionAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userContextKey).(model.User)
	return u, ok
}

// userID returns the authenticated user's id, or "anon" before SessionAuth
// has run.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}
