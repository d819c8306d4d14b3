package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Generator signs operator tokens with HS256.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a Generator for secret. Tokens live for expiration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{secret: []byte(secret), expiration: expiration, now: time.Now}
}

// GenerateToken returns a signed token for subject carrying the operator role.
func (g *Generator) GenerateToken(subject string) (string, error) {
	now := g.now()
	claims := Claims{
		Role: RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
