// Package app holds the application services and business logic.
package app

import (
	"context"
	"strings"
	"time"

	"taskbook/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Locales supported for a user's preference.
var Locales = []string{"en_US", "zh_Hans_CN"}

const sessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so callers cannot enumerate accounts.
	ErrInvalidCredentials = unauthenticated("invalid_credentials", "invalid username or password")
	// ErrSessionInvalid indicates a missing, unknown, or expired session.
	ErrSessionInvalid = unauthenticated("invalid_session", "session not found or expired")
	// ErrUsernameTaken indicates a registration with an existing username.
	ErrUsernameTaken = validation("username_taken", "username already registered")
)

// AuthService handles registration, password login, and session state.
type AuthService struct {
	users    domain.UserRepository
	items    domain.ItemRepository
	sessions domain.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, items domain.ItemRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{users: users, items: items, sessions: sessions}
}

// Register creates an account and seeds it with a few starter items.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > 64 {
		return nil, validation("invalid_username", "username must be 1-64 characters")
	}
	if len(password) < 6 {
		return nil, validation("invalid_password", "password must be at least 6 characters")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	s.seedItems(ctx, user.ID)
	return user, nil
}

// seedItems gives a fresh account something to look at. Failures are
// ignored, the account itself already exists.
func (s *AuthService) seedItems(ctx context.Context, ownerID int64) {
	starter := []string{
		"Go for a five kilometer run",
		"Read one chapter before bed",
		"Call an old friend",
	}
	for _, body := range starter {
		_, _ = s.items.Create(ctx, ownerID, body)
	}
	if item, err := s.items.Create(ctx, ownerID, "Sign up for taskbook"); err == nil {
		_ = s.items.SetDone(ctx, item.ID, true)
	}
}

// CheckPassword verifies a username/password pair and returns the
// user. Unknown usernames and wrong passwords fail identically.
func (s *AuthService) CheckPassword(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.CheckPassword(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.createSession(ctx, user.ID)
}

// LoginWithUser creates a session for an already authenticated user
// (e.g. via SSO), auto-provisioning the account on first sight.
func (s *AuthService) LoginWithUser(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Empty hash: the account can only ever log in via SSO.
		user, err = s.users.Create(ctx, username, "")
		if err != nil {
			// Lost a creation race; the row exists now.
			user, err = s.users.GetByUsername(ctx, username)
			if err != nil {
				return "", err
			}
			if user == nil {
				return "", ErrInvalidCredentials
			}
		} else {
			s.seedItems(ctx, user.ID)
		}
	}

	return s.createSession(ctx, user.ID)
}

func (s *AuthService) createSession(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Create(ctx, userID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// Logout invalidates a session. Logging out an unknown or already
// cleared token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession resolves a session token to its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionInvalid
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionInvalid
	}
	return user, nil
}

// SetLocale stores a locale preference on the user.
func (s *AuthService) SetLocale(ctx context.Context, userID int64, locale string) error {
	if !ValidLocale(locale) {
		return notFound("unknown_locale", "unsupported locale")
	}
	return s.users.SetLocale(ctx, userID, locale)
}

// ValidLocale reports whether locale is one of the supported values.
func ValidLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}
