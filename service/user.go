package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mermadic/mermadic/models"
	"github.com/mermadic/mermadic/session"
	"github.com/mermadic/mermadic/store"
)

// Register creates a local account. The plaintext password never reaches the
// store; only the bcrypt hash is persisted.
func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return models.User{}, err
	}
	if err := ValidateEmail(email); err != nil {
		return models.User{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := s.Users.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			logger.Error().Err(err).Msg("Error creating user")
		}
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials and opens a session. Unknown usernames,
// password-less federated accounts, and wrong passwords all produce the same
// ErrInvalidCredentials so the response doesn't reveal which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, string, error) {
	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("user lookup failed: %w", err)
	}

	if user.PasswordHash == "" {
		return models.User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	sessionID, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("session creation failed: %w", err)
	}

	user.PasswordHash = ""
	return user, sessionID, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Destroy(ctx, sessionID)
}

// SessionUserID resolves a session id to the owning user id without a
// database round trip. Used for authorization gating on every request.
func (s *Service) SessionUserID(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, session.ErrNoSession
	}
	return s.Sessions.Get(ctx, sessionID)
}

// CurrentUser resolves a session id to a fresh user record. The server-side
// session is the sole source of truth; no client-cached identity is trusted.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (models.User, error) {
	if sessionID == "" {
		return models.User{}, session.ErrNoSession
	}

	userID, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}
	return user, nil
}
