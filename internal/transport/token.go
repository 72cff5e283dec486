package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by CheckToken for a JWT past its expiry.
var ErrTokenExpired = errors.New("transport: token expired")

// TokenInfo is what the client can learn about its bearer token without
// the server's key.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no expiry
	Opaque    bool      // not a JWT; passed through untouched
}

// CheckToken inspects a bearer token before dialing. The signature is not
// verified here; that is the server's job. Tokens that are not JWTs are
// reported as opaque.
func CheckToken(tok string, now time.Time) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return TokenInfo{Opaque: true}, nil
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return info, fmt.Errorf("transport: token exp claim: %w", err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		if !now.Before(exp.Time) {
			return info, ErrTokenExpired
		}
	}
	return info, nil
}
