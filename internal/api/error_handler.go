package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
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
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Note the deliberate
	// collapse: every authentication failure cause shares one message.
	switch {
	case errors.Is(err, domain.ErrUnrecognizedContact):
		return http.StatusBadRequest, "contact is not a valid email or phone number"
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, "a code was requested recently, try again later"
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway, "code could not be delivered"
	case errors.Is(err, domain.ErrInvalidOtp):
		return http.StatusUnauthorized, "invalid or expired code"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusUnauthorized, "invalid or expired code"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
