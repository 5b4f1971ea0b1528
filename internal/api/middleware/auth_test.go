package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) UpdatePassword(context.Context, string, string, string, string) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProtect_BearerHeader(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "tok123" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &domain.User{ID: "u1", Role: domain.RoleAdmin}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	c, rec := newTestContext(req)

	called := false
	handler := Protect(stub)(func(c echo.Context) error {
		called = true
		user, ok := c.Get("user").(*domain.User)
		if !ok || user.ID != "u1" {
			t.Fatalf("user not injected into context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtect_CookieFallback(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "cookie-tok" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &domain.User{ID: "u1"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-tok"})
	c, _ := newTestContext(req)

	handler := Protect(stub)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestProtect_MalformedHeaderFallsBackToCookie(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "cookie-tok" {
				t.Fatalf("expected cookie token, got %s", token)
			}
			return &domain.User{ID: "u1"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-tok"})
	c, _ := newTestContext(req)

	handler := Protect(stub)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestProtect_MissingCredential(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			t.Fatalf("Authenticate should not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := newTestContext(req)

	handler := Protect(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestProtect_InvalidToken(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	c, _ := newTestContext(req)

	handler := Protect(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProtect_StalePassword(t *testing.T) {
	stub := &stubAuthService{
		authenticateFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrStalePassword
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer old")
	c, _ := newTestContext(req)

	handler := Protect(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrStalePassword) {
		t.Fatalf("expected ErrStalePassword, got %v", err)
	}
}
