package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-test-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-test-secret")
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	setTestSecrets(t)

	access, refresh, err := GenerateTokenPair(7, "jane@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	refreshClaims, err := VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), refreshClaims.UserID)
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	setTestSecrets(t)

	_, refresh, err := GenerateTokenPair(7, "jane@example.com", "user")
	require.NoError(t, err)

	_, err = VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	setTestSecrets(t)

	access, _, err := GenerateTokenPair(7, "jane@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "rotated-secret")
	_, err = VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	setTestSecrets(t)

	expired, err := sign(7, "jane@example.com", "user", -time.Minute, accessSecret())
	require.NoError(t, err)

	_, err = VerifyAccessToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	setTestSecrets(t)

	_, err := VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
