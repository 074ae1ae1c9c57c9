package service

import (
	"testing"
	"time"

	"github.com/notedrop/notedrop/internal/db"
	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/storage"
	"github.com/stretchr/testify/require"
)

// testDeps wires every service against an in-memory database and a
// throwaway pool directory.
type testDeps struct {
	users    repository.UserRepository
	notes    repository.NoteRepository
	images   repository.ImageRepository
	pool     *storage.LocalStorage
	poolDir  string
	sessions *SessionService
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	poolDir := t.TempDir()
	pool, err := storage.NewLocalStorage(poolDir)
	require.NoError(t, err)

	users := repository.NewUserRepository(database)

	return &testDeps{
		users:    users,
		notes:    repository.NewNoteRepository(database),
		images:   repository.NewImageRepository(database),
		pool:     pool,
		poolDir:  poolDir,
		sessions: NewSessionService(users, "test-secret", false, time.Hour),
	}
}

// addUser inserts an account directly for fixtures.
func (d *testDeps) addUser(t *testing.T, id string, isAdmin bool) {
	t.Helper()

	hash, err := d.sessions.HashPassword("password-" + id)
	require.NoError(t, err)

	err = d.users.Create(&model.User{
		ID:           id,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
}
