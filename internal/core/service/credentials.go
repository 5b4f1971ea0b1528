package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/scioly/portal/internal/core/domain"
)

const (
	// bcryptCost 12 puts a single hash in the tens of milliseconds on current
	// hardware, enough to resist offline brute force.
	bcryptCost = 12

	// changeSkew is subtracted when recording a password change so a token
	// minted in the same second as the change still fails the stale check.
	changeSkew = time.Second
)

// Credentials owns password hashing, comparison, and change detection.
// Hashing happens exactly once per password-set event, never on read.
type Credentials struct {
	cost int
	skew time.Duration
	now  func() time.Time
}

func NewCredentials() *Credentials {
	return NewCredentialsWithClock(time.Now)
}

// NewCredentialsWithClock injects a time source for deterministic tests.
func NewCredentialsWithClock(now func() time.Time) *Credentials {
	return &Credentials{cost: bcryptCost, skew: changeSkew, now: now}
}

// HashPassword applies a salted, deliberately slow one-way hash.
func (c *Credentials) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate against a stored hash. Any internal
// failure is reported as a plain mismatch so callers cannot distinguish a
// corrupt hash from a wrong password.
func (c *Credentials) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// RecordPasswordChange stamps the user with "now minus skew". Called whenever
// a password is mutated after creation.
func (c *Credentials) RecordPasswordChange(user *domain.User) {
	t := c.now().UTC().Add(-c.skew)
	user.PasswordChangedAt = &t
}

// WasChangedAfter reports whether the user's password changed strictly after
// the given instant, compared at epoch-second granularity to match token
// issuance timestamps.
func (c *Credentials) WasChangedAfter(user *domain.User, issuedAt time.Time) bool {
	if user.PasswordChangedAt == nil {
		return false
	}
	return user.PasswordChangedAt.Unix() > issuedAt.Unix()
}
