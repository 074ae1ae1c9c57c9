package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
)

var (
	ErrNoteTooLong = errors.New("note exceeds the configured length limit")
)

type NoteService struct {
	noteRepository repository.NoteRepository
	maxLen         int // 0 = unlimited
}

func NewNoteService(noteRepository repository.NoteRepository, maxLen int) *NoteService {
	return &NoteService{
		noteRepository: noteRepository,
		maxLen:         maxLen,
	}
}

// Create appends a note for owner. Notes are never updated in place.
func (s *NoteService) Create(ownerID, text string) (*model.Note, error) {
	if s.maxLen > 0 && len(text) > s.maxLen {
		return nil, ErrNoteTooLong
	}

	note := &model.Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	err := s.noteRepository.Create(note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *NoteService) ByID(id string) (*model.Note, error) {
	return s.noteRepository.ByID(id)
}

// ByOwner returns the owner's notes in creation order.
func (s *NoteService) ByOwner(ownerID string) ([]*model.Note, error) {
	return s.noteRepository.ByOwner(ownerID)
}

func (s *NoteService) Delete(id string) error {
	err := s.noteRepository.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
