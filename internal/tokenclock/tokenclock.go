// Package tokenclock reads the expiry of a bearer token without verifying it. The backend
// verifies every request; this is only used to decide when to show the session as expired.
package tokenclock

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned for anything that is not a three segment token with a numeric exp.
var ErrMalformed = errors.New("tokenclock: malformed token")

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims is the part of the token payload the client cares about.
type Claims struct {
	ExpiresAt int64
	Subject   string
}

// Expiry returns ExpiresAt as a time.
func (c Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

type payload struct {
	Exp *float64 `json:"exp"`
	Sub *string  `json:"sub"`
}

// Decode parses the payload segment of token. It never panics.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformed
	}
	raw, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, ErrMalformed
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.Exp == nil {
		return Claims{}, ErrMalformed
	}
	exp := math.Floor(*p.Exp)
	if math.IsNaN(exp) || exp < math.MinInt64 || exp >= math.MaxInt64 {
		return Claims{}, ErrMalformed
	}

	claims := Claims{ExpiresAt: int64(exp)}
	if p.Sub != nil {
		claims.Subject = *p.Sub
	}
	return claims, nil
}

// IsExpired reports whether token is unusable at now. Malformed tokens are expired.
func IsExpired(token string, now time.Time) bool {
	claims, err := Decode(token)
	if err != nil {
		return true
	}
	return now.Unix() >= claims.ExpiresAt
}

// Remaining is the time left before token expires, zero when already expired or malformed.
func Remaining(token string, now time.Time) time.Duration {
	claims, err := Decode(token)
	if err != nil {
		return 0
	}
	left := claims.Expiry().Sub(now)
	if left < 0 {
		return 0
	}
	return left.Truncate(time.Second)
}
