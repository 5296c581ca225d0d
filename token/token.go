// Package token inspects access tokens issued by the platform without
// verifying them. The client never holds signing keys; verification is the
// server's job. Claim inspection exists solely for UX decisions such as
// refreshing ahead of expiry or showing the signed-in subject.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when the raw token is not a parseable JWT.
var ErrMalformed = errors.New("malformed token")

// Claims is the subset of registered claims the dashboard cares about.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

// Inspect decodes the token's claims without signature verification.
func Inspect(raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &rc); err != nil {
		return nil, ErrMalformed
	}
	c := &Claims{
		Subject: rc.Subject,
		Issuer:  rc.Issuer,
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// ExpiresWithin reports whether the token expires within d (or already
// has). Tokens without an exp claim never report as expiring; malformed
// tokens always do, so callers err on the side of refreshing.
func ExpiresWithin(raw string, d time.Duration) bool {
	c, err := Inspect(raw)
	if err != nil {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(c.ExpiresAt) <= d
}

// Expired reports whether the token's exp claim has passed.
func Expired(raw string) bool {
	return ExpiresWithin(raw, 0)
}
