package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scioly/portal/internal/core/domain"
)

// TokenClaims is the decoded identity carried by a verified session token.
type TokenClaims struct {
	PrincipalID string
	IssuedAt    time.Time
}

// TokenService issues and verifies signed, time-limited session tokens. It is
// stateless: expiry lives in the token itself and no record is kept server
// side, so revocation is approximated elsewhere via the password-change check.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return NewTokenServiceWithClock(secret, ttl, time.Now)
}

// NewTokenServiceWithClock injects a time source for deterministic tests.
func NewTokenServiceWithClock(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue produces an HS256 token bound to the given user id with iat/exp set
// from the configured lifetime.
func (s *TokenService) Issue(principalID string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   principalID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates signature and expiry and returns the embedded identity.
// Every failure mode collapses to domain.ErrInvalidToken: a mis-signed token
// must not be distinguishable from a malformed or expired one.
func (s *TokenService) Verify(token string) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, domain.ErrInvalidToken
	}
	return &TokenClaims{PrincipalID: claims.Subject, IssuedAt: claims.IssuedAt.Time}, nil
}
