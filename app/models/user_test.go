package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_HashesPassword(t *testing.T) {
	user, err := CreateUser("Jane Doe", "jane@example.com", "secret123", "")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestSetPassword_ReplacesHash(t *testing.T) {
	user, err := CreateUser("Jane Doe", "jane@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("newsecret"))
	assert.False(t, user.CheckPassword("secret123"))
	assert.True(t, user.CheckPassword("newsecret"))
}

func TestGeneratePasswordResetToken(t *testing.T) {
	user := &User{}
	require.NoError(t, user.GeneratePasswordResetToken())

	require.NotEmpty(t, user.PasswordResetToken)
	require.NotNil(t, user.PasswordResetExpires)
	assert.True(t, user.IsPasswordResetTokenValid(user.PasswordResetToken))
	assert.False(t, user.IsPasswordResetTokenValid("other-token"))
}

func TestIsPasswordResetTokenValid_Expired(t *testing.T) {
	user := &User{}
	require.NoError(t, user.GeneratePasswordResetToken())

	expired := time.Now().Add(-time.Minute)
	user.PasswordResetExpires = &expired
	assert.False(t, user.IsPasswordResetTokenValid(user.PasswordResetToken))
}

func TestClearPasswordResetRequest(t *testing.T) {
	user := &User{}
	require.NoError(t, user.GeneratePasswordResetToken())

	user.ClearPasswordResetRequest()
	assert.Empty(t, user.PasswordResetToken)
	assert.Nil(t, user.PasswordResetExpires)
}

func TestGenerateEmailVerificationToken_Distinct(t *testing.T) {
	user := &User{}
	require.NoError(t, user.GenerateEmailVerificationToken())
	first := user.EmailVerificationToken

	require.NoError(t, user.GenerateEmailVerificationToken())
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, user.EmailVerificationToken)
}
