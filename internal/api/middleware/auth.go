package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/api/metrics"
	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

const sessionCookieName = "jwt"

// Protect authenticates the request and injects the resolved user into the
// context under "user". The guard walks one path with terminal exits: extract
// token (bearer header first, session cookie second), verify it, load the
// live user, reject tokens issued before the last password change. No
// fallback credential source is consulted after a rejection.
func Protect(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrNotLoggedIn
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(outcome(err)).Inc()
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set("user", user)
			return next(c)
		}
	}
}

// extractToken pulls the credential off the request. A well-formed bearer
// header wins; otherwise the session cookie is consulted.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

func outcome(err error) string {
	if errors.Is(err, domain.ErrStalePassword) {
		return "stale"
	}
	return "invalid"
}
