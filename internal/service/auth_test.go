package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	user, err := deps.sessions.Login("alice", "password-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)

	// Surrounding whitespace in the id is tolerated.
	_, err = deps.sessions.Login("  alice  ", "password-alice")
	require.NoError(t, err)

	_, err = deps.sessions.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown ids fail the same way as bad passwords.
	_, err = deps.sessions.Login("nobody", "password-alice")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	user, err := deps.sessions.Login("alice", "password-alice")
	require.NoError(t, err)

	token, err := deps.sessions.IssueToken(user)
	require.NoError(t, err)

	id, err := deps.sessions.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id)
}

func TestTokenVerificationRejectsTampering(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	user, err := deps.sessions.Login("alice", "password-alice")
	require.NoError(t, err)

	token, err := deps.sessions.IssueToken(user)
	require.NoError(t, err)

	// Flipping a byte of the signature must invalidate the token.
	tampered := token[:len(token)-2] + "xx"
	_, err = deps.sessions.VerifyToken(tampered)
	assert.Error(t, err)

	// A token signed with a different secret is rejected too.
	other := NewSessionService(deps.users, "other-secret", false, time.Hour)
	foreign, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = deps.sessions.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = deps.sessions.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	user, err := deps.sessions.Login("alice", "password-alice")
	require.NoError(t, err)

	short := NewSessionService(deps.users, "test-secret", false, -time.Minute)
	token, err := short.IssueToken(user)
	require.NoError(t, err)

	_, err = deps.sessions.VerifyToken(token)
	assert.Error(t, err)
}
