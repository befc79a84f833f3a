package session

import (
	"fmt"
	"time"

	"github.com/gistgate/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Codec signs session ids into cookie values and verifies them back.
// The cookie never carries session state, only a tamper-evident reference.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with the given HMAC secret and token lifetime.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Encode signs a session id into a cookie value.
func (c *Codec) Encode(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a cookie value and returns the session id it references.
// Any verification failure maps to ErrSessionNotFound: a bad cookie is
// indistinguishable from an expired session for the caller.
func (c *Codec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrSessionNotFound
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrSessionNotFound
	}
	return claims.Subject, nil
}
