package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Role gates which dashboard sections and login entry points a user may use.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrProfileNotFound = errors.New("profile not found")
var ErrRoleNotAllowed = errors.New("self-registration is only available to students")
var ErrSessionNotFound = errors.New("session not found")
var ErrOAuthState = errors.New("invalid or expired oauth state")

// RoleMismatchError is returned when a user authenticates through a
// role-specific entry point but holds a different role in the database.
type RoleMismatchError struct {
	Expected Role
	Actual   Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("access denied: you are not authorized as a %s", e.Expected)
}

// Profile is the durable per-user record, distinct from the transient
// auth session. Created by the provisioning step on sign-up; the role is
// immutable through the profile-update surface.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credential holds the password-login material for one identity.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is a live, revocable login. The authoritative copy lives in the
// session store; the JWT only references it by ID.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FallbackName derives a display name from session metadata when the
// profile row carries none: the supplied name, else the email local part.
func (s *Session) FallbackName() string {
	if s.Name != "" {
		return s.Name
	}
	if at := strings.Index(s.Email, "@"); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}

// DefaultAvatarURL returns a generated avatar for users without one.
func DefaultAvatarURL(name string) string {
	if name == "" {
		name = "User"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
