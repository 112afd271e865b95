// Package token issues the two token kinds the platform uses: opaque email
// confirmation tokens (stored only as a one-way hash) and signed JWTs.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLength is the number of random bytes in an opaque token.
const DefaultLength = 32

// ConfirmationTTL is how long an email confirmation token stays valid.
const ConfirmationTTL = 24 * time.Hour

// Generate returns a new opaque token of length random bytes, base64 encoded.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// Hash returns the base64 SHA-256 of a raw token. Only the hash is ever
// persisted.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// JWTGenerator issues HS256 access tokens with sub and email claims.
type JWTGenerator struct {
	secret   string
	duration time.Duration
}

func NewJWTGenerator(secret string, duration time.Duration) *JWTGenerator {
	if duration <= 0 {
		duration = time.Hour
	}
	return &JWTGenerator{secret: secret, duration: duration}
}

func (g *JWTGenerator) Generate(userID, email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(g.duration).Unix(),
	})

	signed, err := t.SignedString([]byte(g.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
