package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the portal reads from a backend-issued token. The signature is
// never checked here: the backend is the only party holding the secret, the
// frontend only inspects presence, subject and expiry.
type Claims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       jwt.MapClaims
}

var ErrMalformedToken = errors.New("malformed token")

// Inspect parses a token without verifying it.
func Inspect(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMalformedToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	out := &Claims{Raw: claims}
	if id, ok := claims["id"].(float64); ok {
		out.UserID = int64(id)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Expired reports whether the token carries an expiry that lies before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
