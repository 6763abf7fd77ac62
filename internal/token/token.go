// Package token encodes and decodes the signed, expiring credential
// carried by clients. Decoding is pure: it checks signature and expiry
// only and never consults the session cache or credential store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/model"
)

// DefaultTTL is the expiry window applied when none is configured
const DefaultTTL = 15 * time.Minute

// Codec signs and verifies user-bearing claims with an HS256 secret
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// New creates a Codec. The secret is process-wide and read-only after
// construction.
func New(secret []byte, ttl time.Duration, clk clock.Clock) *Codec {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: secret,
		ttl:    ttl,
		clock:  clk,
	}
}

// Encode mints a signed token for the given user with a fixed expiry
// window from issuance.
func (c *Codec) Encode(userID model.UserID) (string, error) {
	now := c.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the subject user ID.
// Fails with model.ErrTokenExpired past the expiry claim and
// model.ErrTokenMalformed for anything unparseable or untrusted.
func (c *Codec) Decode(tokenString string) (model.UserID, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenMalformed
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.ErrTokenExpired
		}
		return "", model.ErrTokenMalformed
	}

	if !tok.Valid || claims.Subject == "" {
		return "", model.ErrTokenMalformed
	}

	return model.UserID(claims.Subject), nil
}
