package jwt

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/bobinette/bugtrack/errors"
)

// Claims are the claims the remote puts in its access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

// Inspect reads the claims of a token without verifying its
// signature. The client does not hold the signing key: verification
// is the remote's job, inspection only serves to discard tokens that
// are obviously dead before using them.
func Inspect(token string) (Claims, error) {
	claims := Claims{}

	_, _, err := new(jwt.Parser).ParseUnverified(token, &claims)
	if err != nil {
		return Claims{}, errors.New("could not parse token", errors.WithCause(err))
	}

	return claims, nil
}

// Expired reports whether the token carries an expiry in the past. A
// token that cannot be parsed or has no expiry is not reported as
// expired: the remote decides for those.
func Expired(token string, now time.Time) bool {
	claims, err := Inspect(token)
	if err != nil || claims.ExpiresAt == 0 {
		return false
	}

	return time.Unix(claims.ExpiresAt, 0).Before(now)
}
