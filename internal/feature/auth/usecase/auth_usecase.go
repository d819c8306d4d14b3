// Package usecase authenticates the dashboard operator.
package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"ipo_backend/internal/feature/auth/domain"
)

// dummyHash is compared against when the username is wrong so that a miss
// costs the same bcrypt work as a hit.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// JWTGenerator issues signed tokens.
type JWTGenerator interface {
	GenerateToken(subject string) (string, error)
}

// Operator is the single set of dashboard credentials.
type Operator struct {
	Username     string
	PasswordHash string // bcrypt
}

type authUsecase struct {
	operator     Operator
	jwtGenerator JWTGenerator
}

// NewAuthUsecase creates an authUsecase for the configured operator.
func NewAuthUsecase(operator Operator, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{operator: operator, jwtGenerator: jwtGenerator}
}

// Login checks the credentials and returns a signed token. Every attempt runs
// one bcrypt comparison, whether or not the username matches.
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	userOK := u.operator.Username != "" &&
		subtle.ConstantTimeCompare([]byte(username), []byte(u.operator.Username)) == 1

	hash := dummyHash
	if userOK && u.operator.PasswordHash != "" {
		hash = u.operator.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	if !userOK || u.operator.PasswordHash == "" || compareErr != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(u.operator.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
