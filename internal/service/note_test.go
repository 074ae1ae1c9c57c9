package service

import (
	"fmt"
	"testing"

	"github.com/notedrop/notedrop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesKeepCreationOrder(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewNoteService(deps.notes, 0)

	for i := range 5 {
		_, err := svc.Create("alice", fmt.Sprintf("note %d", i))
		require.NoError(t, err)
	}

	notes, err := svc.ByOwner("alice")
	require.NoError(t, err)
	require.Len(t, notes, 5)

	for i, note := range notes {
		assert.Equal(t, fmt.Sprintf("note %d", i), note.Text)
		if i > 0 {
			assert.Greater(t, note.Seq, notes[i-1].Seq)
		}
	}
}

func TestNotesAreOwnerScoped(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)
	deps.addUser(t, "bob", false)

	svc := NewNoteService(deps.notes, 0)

	_, err := svc.Create("alice", "hers")
	require.NoError(t, err)
	_, err = svc.Create("bob", "his")
	require.NoError(t, err)

	notes, err := svc.ByOwner("alice")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "hers", notes[0].Text)
}

func TestNoteDelete(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewNoteService(deps.notes, 0)

	note, err := svc.Create("alice", "gone soon")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(note.ID))

	err = svc.Delete(note.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)

	notes, err := svc.ByOwner("alice")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteLengthLimit(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	// Unlimited by default.
	unlimited := NewNoteService(deps.notes, 0)
	long := make([]byte, 1<<16)
	for i := range long {
		long[i] = 'a'
	}
	_, err := unlimited.Create("alice", string(long))
	require.NoError(t, err)

	limited := NewNoteService(deps.notes, 10)
	_, err = limited.Create("alice", "short")
	require.NoError(t, err)
	_, err = limited.Create("alice", "way past the limit")
	assert.ErrorIs(t, err, ErrNoteTooLong)
}
