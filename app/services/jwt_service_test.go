package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 3600)

	token, err := svc.GenerateToken(7, "admin", []int64{1, 5})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.HasWorkspace(1))
	assert.True(t, claims.HasWorkspace(5))
	assert.False(t, claims.HasWorkspace(2))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 3600).GenerateToken(7, "admin", []int64{1})
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 3600).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := NewJWTService("test-secret", -60).GenerateToken(7, "admin", []int64{1})
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", 3600).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("test-secret", 3600).ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
