package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

const (
	minPasswordLen = 8
	// maxPasswordLen matches bcrypt's input limit; anything longer would be
	// rejected by the hasher, so it is invalid input, not a server fault.
	maxPasswordLen = 72
)

// AuthService implements registration, login, password rotation, and token
// authentication on top of the credential and token primitives.
type AuthService struct {
	repo    ports.UserRepository
	creds   *Credentials
	tokens  *TokenService
	limiter ports.LoginLimiter
}

// NewAuthService wires the auth use cases. limiter may be nil to disable
// login throttling.
func NewAuthService(repo ports.UserRepository, creds *Credentials, tokens *TokenService, limiter ports.LoginLimiter) *AuthService {
	return &AuthService{repo: repo, creds: creds, tokens: tokens, limiter: limiter}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen || password != confirm {
		return domain.ErrInvalidInput
	}
	return nil
}

// Register creates an account with a hashed password and logs it in. The new
// account always gets domain.DefaultRole; callers cannot pick a role here.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validatePassword(input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
		School:       strings.TrimSpace(input.School),
		Coursework:   input.Coursework,
		Categories:   input.Categories,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.login(created)
}

// Login authenticates an email/password pair. Unknown email and wrong
// password fail identically so neither factor leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	if s.limiter != nil {
		if blocked, err := s.limiter.TooMany(ctx, email); err == nil && blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}
	return s.login(user)
}

// UpdatePassword rotates the password after verifying the current one, stamps
// the change timestamp so earlier tokens stop authenticating, and re-issues a
// token for the now-current session.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password, passwordConfirm string) (*ports.AuthResult, error) {
	if err := validatePassword(password, passwordConfirm); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.creds.VerifyPassword(current, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	s.creds.RecordPasswordChange(user)
	user.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.login(saved)
}

// Authenticate resolves a bearer token to the live user. The lookup re-reads
// the user on every call, so role changes take effect on the next request. A
// deleted user, and any store failure during the lookup, folds into the
// generic token error: the request stays an authentication failure and the
// backend state never leaks to the caller.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if err != domain.ErrUserNotFound {
			zerolog.Ctx(ctx).Error().Err(err).Msg("user lookup failed during token authentication")
		}
		return nil, domain.ErrInvalidToken
	}

	if s.creds.WasChangedAfter(user, claims.IssuedAt) {
		return nil, domain.ErrStalePassword
	}
	return user, nil
}

func (s *AuthService) login(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter != nil {
		_ = s.limiter.RecordFailure(ctx, email)
	}
}
