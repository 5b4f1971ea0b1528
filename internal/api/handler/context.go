package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/core/domain"
)

// currentUser extracts the user injected by the Protect middleware. Absence
// means the route was wired without the guard; reject rather than proceed
// unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get("user").(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return user, nil
}
