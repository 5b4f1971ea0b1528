package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

type stubUserRepo struct {
	users       map[string]*domain.User
	nextID      int
	findByIDErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.PasswordChangedAt != nil {
		t := *u.PasswordChangedAt
		clone.PasswordChangedAt = &t
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = string(rune('a' + r.nextID))
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

type stubLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *stubLimiter) TooMany(context.Context, string) (bool, error) { return l.blocked, nil }
func (l *stubLimiter) RecordFailure(context.Context, string) error   { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error           { l.resets++; return nil }

// testClock lets credential and token services share a mutable time source.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestAuthService(limiter ports.LoginLimiter) (*AuthService, *stubUserRepo, *testClock) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := newStubUserRepo()
	creds := NewCredentialsWithClock(clock.Now)
	tokens := NewTokenServiceWithClock("secret", time.Hour, clock.Now)
	return NewAuthService(repo, creds, tokens, limiter), repo, clock
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username:        "ada",
		Email:           "ada@x.com",
		Password:        "longenough1",
		PasswordConfirm: "longenough1",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected a token")
	}
	if res.User.PasswordHash == "longenough1" {
		t.Fatalf("expected password to be hashed")
	}
	if res.User.Role != domain.RoleVolunteer {
		t.Fatalf("expected default role volunteer, got %s", res.User.Role)
	}
	if res.User.PasswordChangedAt != nil {
		t.Fatalf("creation must not set PasswordChangedAt")
	}

	// The issued token authenticates immediately.
	user, err := svc.Authenticate(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != res.User.ID {
		t.Fatalf("expected user %s, got %s", res.User.ID, user.ID)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	svc, repo, _ := newTestAuthService(nil)

	input := registerInput()
	input.Email = "  Ada@X.Com "
	res, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Email != "ada@x.com" {
		t.Fatalf("expected lowercased email, got %q", res.User.Email)
	}
	if _, err := repo.FindByEmail(context.Background(), "ada@x.com"); err != nil {
		t.Fatalf("normalized email not stored: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	short := registerInput()
	short.Password = "short"
	short.PasswordConfirm = "short"
	if _, err := svc.Register(context.Background(), short); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	mismatch := registerInput()
	mismatch.PasswordConfirm = "longenough2"
	if _, err := svc.Register(context.Background(), mismatch); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for mismatched confirm, got %v", err)
	}

	// Past bcrypt's 72-byte limit the password is invalid input, not a
	// hashing failure surfacing as a server error.
	long := registerInput()
	long.Password = strings.Repeat("a", 73)
	long.PasswordConfirm = long.Password
	if _, err := svc.Register(context.Background(), long); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for overlong password, got %v", err)
	}
}

func TestAuthService_Register_NeverGrantsElevatedRole(t *testing.T) {
	svc, repo, _ := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.User.Role != domain.DefaultRole {
		t.Fatalf("registration granted role %q, want %q", res.User.Role, domain.DefaultRole)
	}

	// The stored record matches: nothing a caller supplies can make a fresh
	// account pass an admin gate.
	stored, err := repo.FindByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.Role == domain.RoleAdmin {
		t.Fatalf("registration must never persist an admin role")
	}
	if stored.Role != domain.DefaultRole {
		t.Fatalf("stored role %q, want %q", stored.Role, domain.DefaultRole)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput()); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _, _ := newTestAuthService(limiter)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "ada@x.com", "longenough1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_Login_UniformRejection(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _, _ := newTestAuthService(limiter)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, err := svc.Login(context.Background(), "ada@x.com", "wrongpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@x.com", "longenough1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if limiter.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", limiter.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _, _ := newTestAuthService(&stubLimiter{blocked: true})

	if _, err := svc.Login(context.Background(), "ada@x.com", "longenough1"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_UpdatePassword_RevokesOldTokens(t *testing.T) {
	svc, _, clock := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	oldToken := res.Token

	clock.t = clock.t.Add(5 * time.Minute)
	updated, err := svc.UpdatePassword(context.Background(), res.User.ID, "longenough1", "evenlonger22", "evenlonger22")
	if err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), oldToken); err != domain.ErrStalePassword {
		t.Fatalf("expected ErrStalePassword for pre-change token, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), updated.Token); err != nil {
		t.Fatalf("post-change token should authenticate: %v", err)
	}

	// Old password no longer logs in, new one does.
	if _, err := svc.Login(context.Background(), "ada@x.com", "longenough1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ada@x.com", "evenlonger22"); err != nil {
		t.Fatalf("new password should log in: %v", err)
	}
}

func TestAuthService_UpdatePassword_WrongCurrent(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.UpdatePassword(context.Background(), res.User.ID, "wrongcurrent", "evenlonger22", "evenlonger22"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_PrincipalGone(t *testing.T) {
	svc, repo, _ := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	delete(repo.users, res.User.ID)

	// A deleted user folds into the generic token error, not a 404.
	if _, err := svc.Authenticate(context.Background(), res.Token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreOutage(t *testing.T) {
	svc, repo, _ := newTestAuthService(nil)

	res, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// A store failure during the lookup degrades to the generic token error
	// for that request instead of propagating an infrastructure error.
	repo.findByIDErr = errors.New("connection reset by peer")
	if _, err := svc.Authenticate(context.Background(), res.Token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken on store outage, got %v", err)
	}
}
