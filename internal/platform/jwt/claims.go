// Package jwtmw issues and verifies operator JWTs.
package jwtmw

import "github.com/golang-jwt/jwt/v5"

const (
	// Issuer is stamped on every token and required on verification.
	Issuer = "ipo-backend"
	// RoleOperator is the only role the dashboard knows.
	RoleOperator = "operator"
	// ContextSubject is the gin context key holding the token subject.
	ContextSubject = "subject"
)

// Claims are the operator token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
