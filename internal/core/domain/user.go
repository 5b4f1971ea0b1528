package domain

import (
	"time"
)

// Role is one of the fixed access levels a user can hold.
type Role string

const (
	RoleCompetitor Role = "competitor"
	RoleCoach      Role = "coach"
	RoleVolunteer  Role = "volunteer"
	RoleAdmin      Role = "admin"
)

// DefaultRole is assigned to every account created through public
// registration. Elevated roles are granted only by an administrator after
// the fact, never requested at signup.
const DefaultRole = RoleVolunteer

// Coursework lists a competitor's declared majors and minors.
type Coursework struct {
	Major []string `json:"major"`
	Minor []string `json:"minor"`
}

// Categories flags the event groups a user competes in or covers.
type Categories struct {
	Biology     bool `json:"biology"`
	Chemistry   bool `json:"chemistry"`
	EarthSpace  bool `json:"earthSpace"`
	Energy      bool `json:"energy"`
	Mathematics bool `json:"mathematics"`
	Physics     bool `json:"physics"`
}

// User models an authenticated actor in the portal.
// PasswordHash is never serialized outward; the plaintext password does not
// survive past the hashing step.
type User struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	School            string     `json:"school,omitempty"`
	Coursework        Coursework `json:"coursework"`
	Categories        Categories `json:"categories"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
