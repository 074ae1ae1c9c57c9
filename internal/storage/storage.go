package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cfg "github.com/notedrop/notedrop/internal/config"
)

// ErrNotExist is returned when a pool object is absent.
var ErrNotExist = errors.New("pool object does not exist")

// Storage is the image pool: a flat namespace of uploaded files indexed
// by uid-prefixed names.
type Storage interface {
	// Save stores a file under the given pool name.
	Save(name string, r io.Reader) error

	// Open returns the stored bytes for reading.
	Open(name string) (io.ReadCloser, error)

	// Delete removes a pool file. Deleting an absent file returns
	// ErrNotExist.
	Delete(name string) error

	// List returns the pool names starting with prefix, in no
	// particular order.
	List(prefix string) ([]string, error)
}

// New builds the pool backend selected by config: a local directory by
// default, or any S3-compatible bucket.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "", "local":
		return NewLocalStorage(c.PoolPath)
	case "s3":
		slog.Info("initializing S3 image pool",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// LocalStorage keeps the pool in a single directory on disk.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// path confines name to the pool directory. Names never contain path
// separators by construction, but client input flows near here, so the
// confinement is checked anyway.
func (s *LocalStorage) path(name string) (string, error) {
	p := filepath.Join(s.dir, filepath.Clean("/"+name))
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrNotExist
	}
	return p, nil
}

func (s *LocalStorage) Save(name string, r io.Reader) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create pool file: %w", err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("failed to write pool file: %w", err)
	}

	return f.Close()
}

func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	return f, err
}

func (s *LocalStorage) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return err
}

func (s *LocalStorage) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}

	return names, nil
}
