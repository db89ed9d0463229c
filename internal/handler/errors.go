package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/apperr"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string      `json:"error"`
	Code    apperr.Code `json:"code"`
	Details any         `json:"details,omitempty"`
}

// NewHTTPErrorHandler renders apperr values, echo's own errors and
// anything else as an errorResponse. Internal failures are logged and
// reported with the generic public message only.
func NewHTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppErr(err)
		md := apperr.MetadataFor(appErr.Code())
		status := md.HTTPStatus
		var he *echo.HTTPError
		if errors.As(err, &he) && apperr.As(err) == nil {
			status = he.Code
		}

		body := errorResponse{Error: appErr.Message(), Code: appErr.Code()}
		if appErr.Code() == apperr.CodeInternal || body.Error == "" {
			body.Error = md.PublicMessage
		}
		if md.DetailsAllowed {
			body.Details = appErr.Details()
		}

		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			log.Error(log.WithField(ctx, "code", string(appErr.Code())), "request.failed", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error(ctx, "error_response.write_failed", writeErr)
		}
	}
}

func toAppErr(err error) *apperr.Error {
	if typed := apperr.As(err); typed != nil {
		return typed
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return apperr.Wrap(codeForStatus(he.Code), err, msg)
	}
	return apperr.Wrap(apperr.CodeInternal, err, "")
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return apperr.CodeValidation
	case http.StatusUnauthorized:
		return apperr.CodeUnauthorized
	case http.StatusForbidden:
		return apperr.CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperr.CodeNotFound
	case http.StatusTooManyRequests:
		return apperr.CodeRateLimit
	}
	if status >= http.StatusInternalServerError {
		return apperr.CodeInternal
	}
	return apperr.CodeValidation
}
