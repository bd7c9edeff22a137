package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the demo session token issued after a mock login.
type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LoginSession is the single persisted record of a successful login.
type LoginSession struct {
	TokenID   string
	Name      string
	Email     string
	IPAddress string
	UserAgent string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at t
func (s *LoginSession) Expired(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
