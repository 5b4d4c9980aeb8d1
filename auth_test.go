package main

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register("", "pw")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Missing email", validation.Msg)

	_, err = env.auth.Register("a@b.com", "")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Missing password", validation.Msg)

	_, err = env.auth.Register("a@b.com", "pw")
	require.NoError(t, err)

	_, err = env.auth.Register("a@b.com", "other")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Already exist", validation.Msg)
}

func TestRegisterStoresDigestNotPassword(t *testing.T) {
	env := newTestEnv(t)

	env.createUser(t, "a@b.com", "pw")

	user, err := env.users.GetByEmail("a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.PasswordHash)
	assert.Equal(t, hashPassword("pw"), user.PasswordHash)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "a@b.com", "pw")

	token, err := env.auth.Authenticate(basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	userID, ok := env.sessions.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, userID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "pw")

	cases := map[string]string{
		"missing header":    "",
		"not basic":         "Bearer abc",
		"bad base64":        "Basic %%%%",
		"no colon":          "Basic " + base64.StdEncoding.EncodeToString([]byte("justanemail")),
		"empty email":       basicHeader("", "pw"),
		"empty password":    basicHeader("a@b.com", ""),
		"unknown email":     basicHeader("nobody@b.com", "pw"),
		"wrong password":    basicHeader("a@b.com", "nope"),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.auth.Authenticate(header)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "a@b.com", "pw")

	token, err := env.auth.Authenticate(basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(token))

	// The session is gone, so a second logout is unauthorized.
	assert.ErrorIs(t, env.auth.Logout(token), ErrUnauthorized)
	assert.ErrorIs(t, env.auth.Logout("never-issued"), ErrUnauthorized)
}
