package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid id or password")
)

const sessionCookieName = "session_token"

// SessionService establishes and resolves session identities. The
// session token is a signed JWT carried in an HttpOnly cookie; signing
// makes it tamper-evident, so no server-side session table is needed.
type SessionService struct {
	userRepository repository.UserRepository
	secret         string
	isProduction   bool
	expiry         time.Duration
}

func NewSessionService(userRepository repository.UserRepository, secret string, isProduction bool, expiry time.Duration) *SessionService {
	return &SessionService{
		userRepository: userRepository,
		secret:         secret,
		isProduction:   isProduction,
		expiry:         expiry,
	}
}

// Login verifies an id/password pair against the credential store.
// Attempts are logged by id only; passwords never reach the log.
func (s *SessionService) Login(id, password string) (*model.User, error) {
	id = strings.TrimSpace(id)

	user, err := s.userRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("login failed", "id", id)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		slog.Info("login failed", "id", id)
		return nil, ErrInvalidCredentials
	}

	slog.Info("user logged in", "id", id)
	return user, nil
}

func (s *SessionService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *SessionService) IssueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken validates a session token and returns the bound user id.
func (s *SessionService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token: missing user id")
	}

	return userID, nil
}

func (s *SessionService) Expiry() time.Duration {
	return s.expiry
}

func (s *SessionService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie ends the session. It succeeds whether or not a
// session existed.
func (s *SessionService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookieName is used by middleware to locate the session token.
func SessionCookieName() string {
	return sessionCookieName
}
