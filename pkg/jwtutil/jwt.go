// Package jwtutil issues and verifies the HS256 bearer tokens identifying the
// callers of the daemon.
package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("missing jwt secret")
	ErrEmptySubject  = errors.New("token subject must not be empty")
)

// Claims ...
type Claims struct {
	jwt.RegisteredClaims
}

// Signer generates and validates tokens with a shared secret.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner ...
func NewSigner(secret, issuer string) (*Signer, error) {
	if len(secret) <= 0 {
		return nil, ErrMissingSecret
	}
	return &Signer{[]byte(secret), issuer}, nil
}

// Generate returns a token for subject. A zero ttl returns a token that
// never expires.
func (s *Signer) Generate(subject string, ttl time.Duration) (string, error) {
	if len(subject) <= 0 {
		return "", ErrEmptySubject
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates the token and returns its subject.
func (s *Signer) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)

	token, err := parser.ParseWithClaims(
		tokenStr, claims, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
	)
	if err != nil || !token.Valid || len(claims.Subject) <= 0 {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
