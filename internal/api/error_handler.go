package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

var knownErrors = []struct {
	err  error
	code int
	msg  string
}{
	{err: domain.ErrProjectNotFound, code: http.StatusNotFound},
	{err: domain.ErrClientNotFound, code: http.StatusNotFound},
	{err: domain.ErrUserNotFound, code: http.StatusNotFound},
	{err: domain.ErrUserExists, code: http.StatusConflict},
	{err: domain.ErrSlugTaken, code: http.StatusConflict},
	{err: domain.ErrClientNameTaken, code: http.StatusConflict},
	{err: domain.ErrInvalidCredentials, code: http.StatusUnauthorized},
	{err: domain.ErrInvalidToken, code: http.StatusUnauthorized, msg: "invalid or expired token"},
	{err: domain.ErrUnauthorized, code: http.StatusUnauthorized},
	{err: domain.ErrForbidden, code: http.StatusForbidden},
	{err: domain.ErrTooManyAttempts, code: http.StatusTooManyRequests, msg: "too many login attempts, try again later"},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			msg := known.msg
			if msg == "" {
				msg = known.err.Error()
			}
			return known.code, msg
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
