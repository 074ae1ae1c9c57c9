package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageUploadRoundTrip(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	image, err := svc.Upload("alice", "my photo.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "my_photo.jpg", image.Filename)
	assert.Equal(t, fmt.Sprintf("%d-my_photo.jpg", image.UID), image.PoolName)

	images, err := svc.ByOwner("alice")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "my_photo.jpg", images[0].Filename)

	// Exactly one pool file carries the uid prefix.
	names, err := deps.pool.List(fmt.Sprintf("%d-", image.UID))
	require.NoError(t, err)
	require.Len(t, names, 1)

	rc, err := svc.Open(image.PoolName)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
}

func TestImageUIDsAreMonotonic(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	var last int64
	for i := range 3 {
		image, err := svc.Upload("alice", fmt.Sprintf("pic%d.jpg", i), strings.NewReader("x"))
		require.NoError(t, err)
		assert.Greater(t, image.UID, last)
		last = image.UID
	}
}

func TestPoolMutationsSerializePerUID(t *testing.T) {
	deps := newTestDeps(t)
	svc := NewImageService(deps.images, deps.pool, false)

	// Three contenders on one uid: the second can hold the mutex while
	// the first's unlock runs, and the third must still block on the
	// same mutex rather than minting a fresh one.
	var inside atomic.Int32
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				unlock := svc.lockUID(7)
				if n := inside.Add(1); n != 1 {
					t.Errorf("%d holders inside the critical section for uid 7", n)
				}
				time.Sleep(200 * time.Microsecond)
				inside.Add(-1)
				unlock()
			}
		}()
	}
	wg.Wait()

	// With no holders left the entry is released.
	svc.mu.Lock()
	assert.Empty(t, svc.uidLocks)
	svc.mu.Unlock()
}

func TestImageUploadRejectsBadFilenames(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	loose := NewImageService(deps.images, deps.pool, false)

	_, err := loose.Upload("alice", "document.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, validation.ErrInvalidFile)

	// The loose rule accepts this; the strict one must not.
	_, err = loose.Upload("alice", "photo.JPG.exe", strings.NewReader("x"))
	require.NoError(t, err)

	strict := NewImageService(deps.images, deps.pool, true)
	_, err = strict.Upload("alice", "photo.JPG.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, validation.ErrInvalidFile)
}

func TestImageDeleteTwice(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	image, err := svc.Upload("alice", "photo.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(image.UID))

	// Pool file and record are both gone.
	names, err := deps.pool.List(fmt.Sprintf("%d-", image.UID))
	require.NoError(t, err)
	assert.Empty(t, names)

	// A second delete is a clean not-found, never a crash.
	err = svc.Delete(image.UID)
	assert.ErrorIs(t, err, repository.ErrImageNotFound)
}

func TestImageDeleteFallsBackToPoolScan(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	image, err := svc.Upload("alice", "photo.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	// Simulate a renamed pool file: recorded name is gone, but one file
	// still carries the uid prefix.
	require.NoError(t, deps.pool.Save(fmt.Sprintf("%d-renamed.jpg", image.UID), strings.NewReader("x")))
	require.NoError(t, deps.pool.Delete(image.PoolName))

	require.NoError(t, svc.Delete(image.UID))

	names, err := deps.pool.List(fmt.Sprintf("%d-", image.UID))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestImageDeleteMissingPoolFileIsTolerated(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	image, err := svc.Upload("alice", "photo.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	// The pool file vanished out from under us.
	require.NoError(t, deps.pool.Delete(image.PoolName))

	require.NoError(t, svc.Delete(image.UID))

	_, err = svc.ByUID(image.UID)
	assert.ErrorIs(t, err, repository.ErrImageNotFound)
}

func TestImageDeleteReportsCorruption(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)

	svc := NewImageService(deps.images, deps.pool, false)

	image, err := svc.Upload("alice", "photo.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	// Two pool files claim the same uid and neither matches the record.
	require.NoError(t, deps.pool.Delete(image.PoolName))
	require.NoError(t, deps.pool.Save(fmt.Sprintf("%d-first.jpg", image.UID), strings.NewReader("x")))
	require.NoError(t, deps.pool.Save(fmt.Sprintf("%d-second.jpg", image.UID), strings.NewReader("x")))

	err = svc.Delete(image.UID)
	assert.ErrorIs(t, err, ErrPoolCorrupted)
}

func TestDeleteAllForOwner(t *testing.T) {
	deps := newTestDeps(t)
	deps.addUser(t, "alice", false)
	deps.addUser(t, "bob", false)

	svc := NewImageService(deps.images, deps.pool, false)

	for i := range 3 {
		_, err := svc.Upload("alice", fmt.Sprintf("a%d.jpg", i), strings.NewReader("x"))
		require.NoError(t, err)
	}
	keep, err := svc.Upload("bob", "keep.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllForOwner("alice"))

	images, err := svc.ByOwner("alice")
	require.NoError(t, err)
	assert.Empty(t, images)

	// Bob's image and pool file survive.
	images, err = svc.ByOwner("bob")
	require.NoError(t, err)
	require.Len(t, images, 1)

	names, err := deps.pool.List("")
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, keep.PoolName, names[0])
}
