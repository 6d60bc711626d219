package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenClaims(t *testing.T) {
	tok, err := NewAccessToken("unit-secret", 42, "Student", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("unit-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "Student", claims["role"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("unit-secret", 7, "Client", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	ref, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, ref.Raw, 96)

	h1 := HashRefreshRaw(ref.Raw)
	h2 := HashRefreshRaw(ref.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, ref.Raw, h1)
	assert.Len(t, h1, 64)
}
