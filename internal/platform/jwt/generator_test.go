package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	gen := NewGenerator("test-secret", 2*time.Hour)
	gen.now = func() time.Time { return issued }

	signed, err := gen.GenerateToken("admin")
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(signed, &claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return issued.Add(time.Minute) }))
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.True(t, claims.IssuedAt.Equal(issued))
	assert.True(t, claims.ExpiresAt.Equal(issued.Add(2*time.Hour)))
}

func TestGenerator_DifferentSecretsDisagree(t *testing.T) {
	t.Parallel()

	a, err := NewGenerator("secret-a", time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	_, err = jwt.Parse(a, func(*jwt.Token) (any, error) { return []byte("secret-b"), nil })
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}
