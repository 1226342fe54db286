package auth

import (
	"testing"
	"time"

	"github.com/aruana-vision/apiserver/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret")
	user := types.User{ID: "user-1", Email: "ana@example.com", Role: "user"}

	tokenString, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := tokens.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tokens := NewTokenService("test-secret")
	tokenString, err := tokens.Issue(types.User{ID: "user-1", Email: "ana@example.com", Role: "user"})
	require.NoError(t, err)

	// Flip the last signature character.
	last := tokenString[len(tokenString)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := tokenString[:len(tokenString)-1] + string(flipped)

	_, err = tokens.Verify(tampered)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tokenString, err := NewTokenService("secret-a").Issue(types.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := "test-secret"
	now := time.Now().Add(-2 * time.Hour)
	claims := Claims{
		Email: "ana@example.com",
		Role:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	secret := "test-secret"
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Verify(tokenString)
	assert.Error(t, err)
}
