package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/notedrop/notedrop/internal/model"
)

var (
	ErrImageNotFound = errors.New("image not found")
)

type ImageRepository interface {
	// NextUID reserves and returns the next monotonic image uid.
	NextUID() (int64, error)
	Create(image *model.Image) error
	ByUID(uid int64) (*model.Image, error)
	ByOwner(ownerID string) ([]*model.Image, error)
	Delete(uid int64) error
	DeleteByOwner(ownerID string) error
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) NextUID() (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	uid, err := nextCounter(tx, "image_uid")
	if err != nil {
		return 0, fmt.Errorf("failed to reserve image uid: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}

	return uid, nil
}

func (r *imageRepository) Create(image *model.Image) error {
	query := `INSERT INTO images (uid, owner_id, filename, pool_name, uploaded_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, image.UID, image.OwnerID, image.Filename, image.PoolName, image.UploadedAt)
	return err
}

func (r *imageRepository) ByUID(uid int64) (*model.Image, error) {
	image := &model.Image{}
	query := `SELECT * FROM images WHERE uid = $1`

	err := r.db.Get(image, query, uid)
	if err == sql.ErrNoRows {
		return nil, ErrImageNotFound
	}

	return image, err
}

func (r *imageRepository) ByOwner(ownerID string) ([]*model.Image, error) {
	var images []*model.Image
	query := `SELECT * FROM images WHERE owner_id = $1 ORDER BY uid ASC`

	err := r.db.Select(&images, query, ownerID)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) Delete(uid int64) error {
	query := `DELETE FROM images WHERE uid = $1`

	result, err := r.db.Exec(query, uid)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrImageNotFound
	}

	return nil
}

func (r *imageRepository) DeleteByOwner(ownerID string) error {
	query := `DELETE FROM images WHERE owner_id = $1`

	_, err := r.db.Exec(query, ownerID)
	return err
}
