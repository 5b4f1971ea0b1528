package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/core/domain"
)

// RestrictTo enforces role-based access control. It must run after Protect;
// the role is read from the user loaded this request, so role changes take
// effect on the next request without re-issuing tokens.
func RestrictTo(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*domain.User)
			if !ok {
				return domain.ErrNotLoggedIn
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
