package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/notedrop/notedrop/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(note *model.Note) error
	ByID(id string) (*model.Note, error)
	ByOwner(ownerID string) ([]*model.Note, error)
	Delete(id string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts a note and assigns its store sequence number. Notes are
// append-only; there is no update path.
func (r *noteRepository) Create(note *model.Note) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := nextCounter(tx, "note_seq")
	if err != nil {
		return fmt.Errorf("failed to assign note sequence: %w", err)
	}
	note.Seq = seq

	query := `INSERT INTO notes (id, owner_id, text, seq, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.Exec(query, note.ID, note.OwnerID, note.Text, note.Seq, note.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *noteRepository) ByID(id string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1`

	err := r.db.Get(note, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}

	return note, err
}

// ByOwner returns the owner's notes in creation order.
func (r *noteRepository) ByOwner(ownerID string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes WHERE owner_id = $1 ORDER BY seq ASC`

	err := r.db.Select(&notes, query, ownerID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Delete(id string) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// nextCounter increments and returns a named monotonic counter inside tx.
func nextCounter(tx *sqlx.Tx, name string) (int64, error) {
	_, err := tx.Exec(`UPDATE counters SET value = value + 1 WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}

	var value int64
	err = tx.Get(&value, `SELECT value FROM counters WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}

	return value, nil
}
