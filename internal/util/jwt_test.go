package util

import (
	"aime-backend/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(42, "staff")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := ValidateToken("")
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "first"
	token, err := GenerateToken(1, "member")
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "second"
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
