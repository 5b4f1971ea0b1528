package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

const (
	sessionCookieName = "jwt"
	loggedOutValue    = "loggedout"
	// logoutGrace keeps the replacement cookie alive just long enough for the
	// client to receive it before it expires.
	logoutGrace = 5 * time.Second
)

// authResponse is the success envelope for operations that log the user in.
type authResponse struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   userData `json:"data"`
}

type userData struct {
	User *domain.User `json:"user"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// SessionTransport writes tokens to the response boundary: the JSON payload
// and an httpOnly cookie. The cookie is marked Secure in production.
type SessionTransport struct {
	cookieTTL time.Duration
	secure    bool
}

// NewSessionTransport configures the transport with the cookie lifetime in
// days and the production flag.
func NewSessionTransport(cookieDays int, production bool) *SessionTransport {
	if cookieDays <= 0 {
		cookieDays = 7
	}
	return &SessionTransport{
		cookieTTL: time.Duration(cookieDays) * 24 * time.Hour,
		secure:    production,
	}
}

// sendToken attaches the session token as both payload field and cookie. The
// user's password hash is excluded by its json:"-" tag, so the outward
// representation never carries credentials.
func (t *SessionTransport) sendToken(c echo.Context, status int, res *ports.AuthResult) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Now().Add(t.cookieTTL),
		HttpOnly: true,
		Secure:   t.secure,
	})

	return c.JSON(status, authResponse{
		Status: "success",
		Token:  res.Token,
		Data:   userData{User: res.User},
	})
}

// clearSession overwrites the cookie with a sentinel that expires almost
// immediately. This instructs the client to drop its credential; tokens held
// elsewhere stay valid until natural expiry or a password change.
func (t *SessionTransport) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    loggedOutValue,
		Path:     "/",
		Expires:  time.Now().Add(logoutGrace),
		HttpOnly: true,
		Secure:   t.secure,
	})
}
