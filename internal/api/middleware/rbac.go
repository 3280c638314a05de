package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/domain"
)

// RequireBackOffice admits only sessions carrying the back-office claim.
// Must run after Auth.
func RequireBackOffice() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*domain.SessionClaims)
			if !ok || !claims.IsBackOffice {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireRoles admits sessions whose role id set intersects the given ids.
// Must run after Auth.
func RequireRoles(roleIDs ...uint) echo.MiddlewareFunc {
	allowed := make(map[uint]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*domain.SessionClaims)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			for _, id := range claims.RoleIDs {
				if _, ok := allowed[id]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
