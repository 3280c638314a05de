package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api/middleware"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Auth middleware and
// fast-fails before any service call when they are absent: presence proves
// the middleware ran.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*domain.SessionClaims)
	if !ok || claims.IdentityID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
