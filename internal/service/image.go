package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/storage"
	"github.com/notedrop/notedrop/internal/validation"
)

var (
	// ErrPoolCorrupted means the pool and the image records disagree in
	// a way that cannot be resolved automatically (several pool files
	// claim the same uid). It must be surfaced, never swallowed.
	ErrPoolCorrupted = errors.New("image pool is inconsistent")
)

// ImageService coordinates image records and the pool files that back
// them. It is the only component that mutates both.
type ImageService struct {
	imageRepository repository.ImageRepository
	pool            storage.Storage
	strictFilenames bool

	// uidLocks serializes pool mutations per uid so a concurrent
	// create/delete pair cannot race on the same pool entry.
	mu       sync.Mutex
	uidLocks map[int64]*uidLock
}

// uidLock is a per-uid mutex with a waiter count. The count keeps the
// map entry alive while any caller still references it; removing the
// entry earlier would let a later caller mint a second mutex for the
// same uid.
type uidLock struct {
	mu      sync.Mutex
	waiters int
}

func NewImageService(imageRepository repository.ImageRepository, pool storage.Storage, strictFilenames bool) *ImageService {
	return &ImageService{
		imageRepository: imageRepository,
		pool:            pool,
		strictFilenames: strictFilenames,
		uidLocks:        make(map[int64]*uidLock),
	}
}

func (s *ImageService) lockUID(uid int64) func() {
	s.mu.Lock()
	l, ok := s.uidLocks[uid]
	if !ok {
		l = &uidLock{}
		s.uidLocks[uid] = l
	}
	l.waiters++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(s.uidLocks, uid)
		}
		s.mu.Unlock()
	}
}

// Upload validates the filename, reserves a uid, writes the pool file
// and then records the metadata. If the pool write fails the record is
// never created; the reserved uid is simply skipped, which keeps uids
// monotonic at the cost of an occasional gap.
func (s *ImageService) Upload(ownerID, filename string, r io.Reader) (*model.Image, error) {
	err := validation.CheckImageFilename(filename, s.strictFilenames)
	if err != nil {
		return nil, err
	}

	sanitized := validation.SanitizeFilename(filename)

	uid, err := s.imageRepository.NextUID()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve uid: %w", err)
	}

	unlock := s.lockUID(uid)
	defer unlock()

	poolName := model.PoolNameFor(uid, sanitized)
	err = s.pool.Save(poolName, r)
	if err != nil {
		return nil, fmt.Errorf("failed to write pool file: %w", err)
	}

	image := &model.Image{
		UID:        uid,
		OwnerID:    ownerID,
		Filename:   sanitized,
		PoolName:   poolName,
		UploadedAt: time.Now(),
	}

	err = s.imageRepository.Create(image)
	if err != nil {
		// Roll the pool write back so no orphan file remains.
		delErr := s.pool.Delete(poolName)
		if delErr != nil && !errors.Is(delErr, storage.ErrNotExist) {
			slog.Error("failed to remove pool file during rollback", "error", delErr, "pool_name", poolName)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	return image, nil
}

func (s *ImageService) ByUID(uid int64) (*model.Image, error) {
	return s.imageRepository.ByUID(uid)
}

// ByOwner returns the owner's images in upload order.
func (s *ImageService) ByOwner(ownerID string) ([]*model.Image, error) {
	return s.imageRepository.ByOwner(ownerID)
}

// Open returns the stored bytes for an image's pool name.
func (s *ImageService) Open(poolName string) (io.ReadCloser, error) {
	return s.pool.Open(poolName)
}

// Delete removes an image's pool file and then its record. An unknown
// uid returns repository.ErrImageNotFound; a second delete of the same
// uid therefore reports not-found rather than failing on the pool.
func (s *ImageService) Delete(uid int64) error {
	image, err := s.imageRepository.ByUID(uid)
	if err != nil {
		return err
	}

	unlock := s.lockUID(uid)
	defer unlock()

	err = s.removePoolFile(image)
	if err != nil {
		return err
	}

	err = s.imageRepository.Delete(uid)
	if err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	return nil
}

// removePoolFile deletes the file recorded for image. When the recorded
// name is already gone it falls back to a uid-prefix scan: zero matches
// means the file was already removed (logged and tolerated), more than
// one match is unresolvable corruption.
func (s *ImageService) removePoolFile(image *model.Image) error {
	err := s.pool.Delete(image.PoolName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotExist) {
		return fmt.Errorf("failed to delete pool file: %w", err)
	}

	matches, err := s.poolFilesForUID(image.UID)
	if err != nil {
		return err
	}

	switch len(matches) {
	case 0:
		slog.Warn("pool file already missing", "uid", image.UID, "pool_name", image.PoolName)
		return nil
	case 1:
		err = s.pool.Delete(matches[0])
		if err != nil && !errors.Is(err, storage.ErrNotExist) {
			return fmt.Errorf("failed to delete pool file: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d pool files claim uid %d", ErrPoolCorrupted, len(matches), image.UID)
	}
}

// poolFilesForUID returns the pool names whose uid prefix (the part
// before the first dash) equals uid.
func (s *ImageService) poolFilesForUID(uid int64) ([]string, error) {
	names, err := s.pool.List(strconv.FormatInt(uid, 10) + "-")
	if err != nil {
		return nil, fmt.Errorf("failed to scan pool: %w", err)
	}

	var matches []string
	for _, name := range names {
		prefix, _, ok := strings.Cut(name, "-")
		if ok && prefix == strconv.FormatInt(uid, 10) {
			matches = append(matches, name)
		}
	}

	return matches, nil
}

// DeleteAllForOwner removes every pool file owned by ownerID, then the
// records. Pool cleanup runs first so a mid-cascade failure leaves
// recoverable metadata instead of orphaned files.
func (s *ImageService) DeleteAllForOwner(ownerID string) error {
	images, err := s.imageRepository.ByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	for _, image := range images {
		unlock := s.lockUID(image.UID)
		err = s.removePoolFile(image)
		unlock()
		if err != nil {
			return err
		}
	}

	err = s.imageRepository.DeleteByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete image records: %w", err)
	}

	return nil
}
