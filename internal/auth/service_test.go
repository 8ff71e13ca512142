package auth

import (
	"testing"

	"tally/internal/core"
	"tally/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := NewService(store.NewMemStore())

	require.NoError(t, svc.Register("alice", "s3cret"))

	assert.NoError(t, svc.Authenticate("alice", "s3cret"))
	assert.ErrorIs(t, svc.Authenticate("alice", "wrong"), core.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Authenticate("bob", "s3cret"), core.ErrInvalidCredentials)
}

func TestRegisterDuplicateLeavesTableUnchanged(t *testing.T) {
	st := store.NewMemStore()
	svc := NewService(st)

	require.NoError(t, svc.Register("alice", "one"))
	err := svc.Register("alice", "two")
	assert.ErrorIs(t, err, core.ErrDuplicateUser)

	recs, err := st.LoadAll(store.Users)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// The original password still authenticates.
	assert.NoError(t, svc.Authenticate("alice", "one"))
}

func TestRegisterEmptyFields(t *testing.T) {
	svc := NewService(store.NewMemStore())

	assert.ErrorIs(t, svc.Register("", "pw"), core.ErrEmptyField)
	assert.ErrorIs(t, svc.Register("alice", ""), core.ErrEmptyField)
	assert.ErrorIs(t, svc.Register("   ", "pw"), core.ErrEmptyField)
}

func TestRegisterHashesPassword(t *testing.T) {
	st := store.NewMemStore()
	svc := NewService(st)

	require.NoError(t, svc.Register("alice", "s3cret"))

	recs, err := st.LoadAll(store.Users)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	u, err := store.DecodeUser(recs[0])
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "s3cret")
}

func TestExists(t *testing.T) {
	svc := NewService(store.NewMemStore())

	ok, err := svc.Exists("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Register("alice", "pw"))

	ok, err = svc.Exists("alice")
	require.NoError(t, err)
	assert.True(t, ok)
}
