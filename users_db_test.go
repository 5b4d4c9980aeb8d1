package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndLookup(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Create("a@b.com", hashPassword("pw"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := env.users.GetByEmail("a@b.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := env.users.GetByEmail("nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserDuplicateEmailRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Create("a@b.com", hashPassword("pw"))
	require.NoError(t, err)

	_, err = env.users.Create("a@b.com", hashPassword("other"))
	assert.Error(t, err)
}

func TestUserGetByCredentials(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.users.Create("a@b.com", hashPassword("pw"))
	require.NoError(t, err)

	user, err := env.users.GetByCredentials("a@b.com", hashPassword("pw"))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	user, err = env.users.GetByCredentials("a@b.com", hashPassword("wrong"))
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = env.users.GetByCredentials("nobody@b.com", hashPassword("pw"))
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserCount(t *testing.T) {
	env := newTestEnv(t)

	count, err := env.users.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.users.Create("a@b.com", hashPassword("pw"))
	require.NoError(t, err)

	count, err = env.users.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
