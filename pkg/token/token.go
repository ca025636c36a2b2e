// Package token issues and validates the signed session tokens that carry
// all authentication state between requests.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finbook/models"
)

// Claims is the payload bound into every issued token. Subject (from
// RegisteredClaims) holds the user's email.
type Claims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies HMAC-SHA-512 signed tokens with a fixed
// time-to-live.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer from the configured signing key and TTL in
// minutes.
func NewIssuer(secret string, ttlMinutes int) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Issue signs a token for the user, expiring at now + TTL.
func (i *Issuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(i.secret)
}

// Claims parses and verifies a token, returning its payload. Expired,
// malformed or foreign-signed tokens yield an error.
func (i *Issuer) Claims(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Valid reports whether the token parses, verifies and has not expired.
// It never returns an error; any failure just means "not valid".
func (i *Issuer) Valid(tokenStr string) bool {
	_, err := i.Claims(tokenStr)
	return err == nil
}

// Subject returns the email bound into the token.
func (i *Issuer) Subject(tokenStr string) (string, error) {
	claims, err := i.Claims(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
