package handler // package handler contains the echo handlers for every route

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/middleware"
)

// requestTimeout bounds the store work done for a single request.
const requestTimeout = 5 * time.Second

type messageResponse struct {
	Message string `json:"message"`
}

func requestContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

// bind decodes the request body into dst. Malformed JSON, including a
// badly formatted date, is a validation failure.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err, "invalid request body")
	}
	return nil
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id",
			apperr.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	return id, nil
}

// identity returns the authenticated user's id. Routes behind
// SessionAuth always have one.
func identity(c echo.Context) (uint64, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, apperr.Unauthorized("not authorized")
	}
	return u.ID, nil
}
