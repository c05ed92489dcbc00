// Package jwtx reads claims from access tokens without verifying them.
//
// The account service owns the signing key, so the client can never
// validate a token. The claims are used for display only, e.g. to show
// when a stored session will expire.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiry = errors.New("token has no expiry")

// Info is the subset of registered claims the client shows.
type Info struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Peek parses token without checking its signature.
func Peek(token string) (Info, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Info{}, fmt.Errorf("parse token: %w", err)
	}

	info := Info{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// ExpiresAt returns the exp claim of token.
func ExpiresAt(token string) (time.Time, error) {
	info, err := Peek(token)
	if err != nil {
		return time.Time{}, err
	}
	if info.ExpiresAt.IsZero() {
		return time.Time{}, ErrNoExpiry
	}
	return info.ExpiresAt, nil
}

// Expired reports whether token carries an exp claim that is before now.
// Tokens that cannot be read are not considered expired; the server has
// the final word.
func Expired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return now.After(exp)
}
