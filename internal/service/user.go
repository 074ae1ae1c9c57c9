package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/validation"
)

var (
	ErrReservedUser = errors.New("the admin account cannot be deleted")
)

// UserService implements the admin-side identity operations: listing,
// creation and cascading deletion.
type UserService struct {
	userRepository repository.UserRepository
	sessionService *SessionService
	imageService   *ImageService
}

func NewUserService(userRepository repository.UserRepository, sessionService *SessionService, imageService *ImageService) *UserService {
	return &UserService{
		userRepository: userRepository,
		sessionService: sessionService,
		imageService:   imageService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) All() ([]*model.User, error) {
	return s.userRepository.All()
}

// Add creates a regular (non-admin) user. The id must not contain a
// space or a single quote and must not already exist.
func (s *UserService) Add(id, password string) error {
	err := validation.CheckUserID(id)
	if err != nil {
		return err
	}

	hash, err := s.sessionService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           id,
		PasswordHash: hash,
		IsAdmin:      false,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "id", id)
	return nil
}

// DeleteCascade removes a user together with everything they own. The
// image pool is cleaned first, then the database rows, so a failure
// mid-cascade leaves recoverable metadata rather than orphaned files.
func (s *UserService) DeleteCascade(id string) error {
	if model.IsReservedAdmin(id) {
		return ErrReservedUser
	}

	err := s.imageService.DeleteAllForOwner(id)
	if err != nil {
		return fmt.Errorf("failed to delete user images: %w", err)
	}

	// Notes and remaining image rows go with the user via FK cascade.
	err = s.userRepository.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "id", id)
	return nil
}

// SetPassword replaces an account's password.
func (s *UserService) SetPassword(id, password string) error {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return err
	}

	hash, err := s.sessionService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// EnsureAdmin creates or refreshes the reserved admin account at
// startup so the panel is always reachable.
func (s *UserService) EnsureAdmin(password string) error {
	hash, err := s.sessionService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	existing, err := s.userRepository.ByID(model.ReservedAdminID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("failed to look up admin: %w", err)
		}
		user := &model.User{
			ID:           model.ReservedAdminID,
			PasswordHash: hash,
			IsAdmin:      true,
			CreatedAt:    time.Now(),
		}
		err = s.userRepository.Create(user)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		slog.Info("admin account created")
		return nil
	}

	existing.PasswordHash = hash
	existing.IsAdmin = true
	err = s.userRepository.Update(existing)
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}

	return nil
}
