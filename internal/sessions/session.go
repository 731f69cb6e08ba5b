// Package sessions holds the credential state of one logged in user.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

// LogoutHandler is called after the credentials of a session were cleared,
// it should send the user back to the login screen.
type LogoutHandler func(ctx context.Context)

// Session is the persisted credential state of a single user. Two sessions never
// share state unless they are given the same repository.
type Session struct {
	lock          sync.Mutex
	repo          models.CredentialsRepository
	logoutHandler LogoutHandler
	tornDown      bool
	// generation changes on every login and teardown
	generation uint64
}

type SessionOption func(*Session) error

func WithCredentialsRepository(repo models.CredentialsRepository) SessionOption {
	return func(s *Session) error {
		s.repo = repo
		return nil
	}
}

func WithLogoutHandler(handler LogoutHandler) SessionOption {
	return func(s *Session) error {
		s.logoutHandler = handler
		return nil
	}
}

func NewSession(options ...SessionOption) (*Session, error) {
	s := Session{}
	for _, opt := range options {
		err := opt(&s)
		if err != nil {
			return &Session{}, err
		}
	}
	if s.repo == nil {
		return &Session{}, fmt.Errorf("credentials repository not initialized")
	}
	return &s, nil
}

// Credentials returns the stored record, an empty record is returned when nothing is stored.
func (s *Session) Credentials(ctx context.Context) (models.Credentials, error) {
	creds, err := s.repo.GetCredentials(ctx)
	if errors.Is(err, apierrors.ErrCredentialsNotFound) {
		return models.Credentials{}, nil
	}
	return creds, err
}

func (s *Session) AccessToken(ctx context.Context) (string, error) {
	creds, err := s.Credentials(ctx)
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	creds, err := s.Credentials(ctx)
	if err != nil {
		return "", err
	}
	return creds.RefreshToken, nil
}

// SetCredentials replaces the whole stored record, it is used on login.
func (s *Session) SetCredentials(ctx context.Context, creds models.Credentials) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	err := s.repo.SetCredentials(ctx, creds)
	if err != nil {
		return err
	}
	s.tornDown = false
	s.generation++
	return nil
}

// Snapshot returns the stored record together with the generation it belongs to.
func (s *Session) Snapshot(ctx context.Context) (models.Credentials, uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	creds, err := s.Credentials(ctx)
	if err != nil {
		return models.Credentials{}, 0, err
	}
	return creds, s.generation, nil
}

// UpdateTokens merges a refreshed token pair into the stored record and keeps the
// user profile. An empty refresh token leaves the stored one in place.
// It fails with ErrSessionChanged when the session was logged out or replaced
// after the given generation was read.
func (s *Session) UpdateTokens(ctx context.Context, generation uint64, accessToken, refreshToken string) (models.Credentials, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if generation != s.generation || s.tornDown {
		return models.Credentials{}, apierrors.ErrSessionChanged
	}
	current, err := s.Credentials(ctx)
	if err != nil {
		return models.Credentials{}, err
	}
	if current.Empty() {
		return models.Credentials{}, apierrors.ErrSessionChanged
	}
	updated := current.Merge(accessToken, refreshToken)
	err = s.repo.SetCredentials(ctx, updated)
	if err != nil {
		return models.Credentials{}, err
	}
	return updated, nil
}

// IsAuthenticated is true when an access token is stored. The token is not validated.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, err := s.AccessToken(ctx)
	if err != nil {
		slog.Error("SESSION", "message", "reading the access token failed", "error", err)
		return false
	}
	return token != ""
}

// Teardown clears the stored credentials and calls the logout handler.
// Calling it again before new credentials are stored only clears the storage again.
func (s *Session) Teardown(ctx context.Context) error {
	s.lock.Lock()
	return s.teardownLocked(ctx)
}

// TeardownGeneration tears the session down only if it still is the given
// generation. A session that was logged out or replaced in the meantime is left alone.
func (s *Session) TeardownGeneration(ctx context.Context, generation uint64) error {
	s.lock.Lock()
	if generation != s.generation {
		s.lock.Unlock()
		slog.Debug("SESSION", "message", "skipping teardown of a replaced session")
		return nil
	}
	return s.teardownLocked(ctx)
}

// teardownLocked expects s.lock to be held and releases it.
func (s *Session) teardownLocked(ctx context.Context) error {
	err := s.repo.RemoveCredentials(ctx)
	if err != nil {
		s.lock.Unlock()
		slog.Error("SESSION", "message", "removing the credentials failed", "error", err)
		return err
	}
	alreadyTornDown := s.tornDown
	s.tornDown = true
	s.generation++
	s.lock.Unlock()

	if alreadyTornDown {
		return nil
	}
	slog.Info("SESSION", "message", "session was torn down")
	if s.logoutHandler != nil {
		s.logoutHandler(ctx)
	}
	return nil
}
