package ports

import (
	"context"

	"github.com/scioly/portal/internal/core/domain"
)

// RegisterInput carries all data needed to create an account. It carries no
// role on purpose: public registration always yields domain.DefaultRole.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	School          string
	Coursework      domain.Coursework
	Categories      domain.Categories
}

// AuthResult is returned by operations that log the user in.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// UpdatePassword rotates a user's password after verifying the current
	// one. Tokens issued before the change stop authenticating.
	UpdatePassword(ctx context.Context, userID, current, password, passwordConfirm string) (*AuthResult, error)
	// Authenticate resolves a bearer token to the live user, rejecting tokens
	// issued before the user's last password change.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
