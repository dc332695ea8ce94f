// Package session is the client's storage boundary: it persists the bearer
// token and the cached user record, and nothing else. It performs no network
// or UI side effects.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"complaint_portal/internal/model"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Session is a persisted (token, user) pair.
type Session struct {
	Token string
	User  model.SessionUser
}

// Store persists the session as two files under a directory, mirroring the
// two browser localStorage keys the web client uses.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the per-user session directory (~/.complainctl).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".complainctl"), nil
}

// Save persists both values, overwriting any prior session. The user record
// is written first so a failure mid-save can never leave a token without a
// matching user.
func (s *Store) Save(token string, user model.SessionUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user record: %w", err)
	}
	if err := os.WriteFile(s.userPath(), payload, 0o600); err != nil {
		return fmt.Errorf("failed to persist user record: %w", err)
	}
	if err := os.WriteFile(s.tokenPath(), []byte(token), 0o600); err != nil {
		// Roll back the half-written session so Load keeps failing closed
		os.Remove(s.userPath())
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Load reads the persisted session. It returns (nil, nil) when either value
// is missing or malformed: the store fails closed rather than handing back a
// partial session.
func (s *Store) Load() (*Session, error) {
	token, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if len(token) == 0 {
		return nil, nil
	}

	payload, err := os.ReadFile(s.userPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	var user model.SessionUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, nil // malformed record, treat as absent
	}
	if user.Role == "" {
		return nil, nil
	}

	return &Session{Token: string(token), User: user}, nil
}

// Token returns the persisted bearer token, or "" when no session exists.
func (s *Store) Token() string {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}

// Clear removes both persisted values. Missing files are not an error.
func (s *Store) Clear() error {
	var firstErr error
	for _, path := range []string{s.tokenPath(), s.userPath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to clear session: %w", err)
			}
		}
	}
	return firstErr
}

func (s *Store) tokenPath() string { return filepath.Join(s.dir, tokenFile) }
func (s *Store) userPath() string  { return filepath.Join(s.dir, userFile) }
