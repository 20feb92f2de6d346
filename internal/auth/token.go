package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every session token failure: bad signature,
// malformed structure or expiry. Callers must not be able to distinguish
// between them.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity snapshot embedded in a session token. It reflects
// the record at issue time; entitlement decisions must re-read the store.
type Claims struct {
	jwt.RegisteredClaims
	UserID             string `json:"uid"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	SubscriptionStatus string `json:"subscription,omitempty"`
}

// IssueToken signs a compact HS256 session token carrying the claims with
// the given validity window.
func IssueToken(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken checks the signature, structure and expiry of a session token
// and returns its claims. All failure modes collapse into ErrInvalidToken.
func VerifyToken(tokenString string, secret []byte) (Claims, error) {
	claims := Claims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
