// Package models defines client-side data models used by the euem CLI.
package models

import "strings"

// AuthUser is the identity record returned by the account service.
type AuthUser struct {
	// ID is the server-assigned user identifier.
	ID string `json:"id"`

	// Email is the login and contact address.
	Email string `json:"email"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// IsVerified reports whether the email address passed OTP verification.
	IsVerified bool `json:"isVerified"`
	// IsEnabled is false for accounts disabled by an administrator.
	IsEnabled bool `json:"isEnabled"`

	// CreatedAt and UpdatedAt are kept exactly as the server formats them.
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	// Roles is an unordered set of role names, e.g. "USER".
	Roles []string `json:"roles"`
}

// FullName joins first and last name, skipping empty parts.
func (u AuthUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether role is present in u.Roles.
func (u AuthUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthSession is the token + user bundle returned by a successful login.
// It is also the exact shape persisted by the session store.
type AuthSession struct {
	// AccessToken is opaque to the client.
	AccessToken string `json:"accessToken"`

	// TokenType is the authorization scheme label, usually "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the token lifetime in milliseconds as reported by the
	// server. It is advisory only; the client never enforces it.
	ExpiresIn int64 `json:"expiresIn"`

	User AuthUser `json:"user"`
}

// WithUser returns a copy of s with the embedded user replaced.
func (s AuthSession) WithUser(u AuthUser) AuthSession {
	s.User = u
	return s
}

// RegisterPayload is the body of a registration request.
type RegisterPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// StatusMessage is the generic acknowledgement returned by the
// verify-email and resend-otp endpoints.
type StatusMessage struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
