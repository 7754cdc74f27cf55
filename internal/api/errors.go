package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/roadready/roadready/internal/logger"
	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/scoring"
	"github.com/roadready/roadready/internal/store"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newHTTPErrorHandler maps domain errors to status codes. Unexpected errors
// are logged and reported as a bare 500.
func newHTTPErrorHandler(log logger.Logger, rv *requestValidator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		body := errorResponse{Error: http.StatusText(http.StatusInternalServerError)}

		var (
			httpErr *echo.HTTPError
			valErrs validator.ValidationErrors
		)
		switch {
		case errors.As(err, &httpErr):
			if httpErr.Internal != nil {
				var inner *echo.HTTPError
				if errors.As(httpErr.Internal, &inner) {
					httpErr = inner
				}
			}
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(code)
			}
		case errors.As(err, &valErrs):
			code = http.StatusBadRequest
			body = errorResponse{Error: "invalid request", Fields: rv.fieldErrors(valErrs)}
		case errors.Is(err, scoring.ErrScoreOutOfRange), errors.Is(err, progress.ErrInvalidName):
			code = http.StatusBadRequest
			body.Error = err.Error()
		case errors.Is(err, store.ErrNotFound), errors.Is(err, progress.ErrUnknownSkill):
			code = http.StatusNotFound
			body.Error = err.Error()
		default:
			log.Error(c.Request().Context(), "request failed",
				logger.String("method", c.Request().Method),
				logger.String("path", c.Path()),
				logger.Error(err))
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Warn(c.Request().Context(), "write error response", logger.Error(err))
		}
	}
}
