// Package session persists the CLI's authenticated session: the bearer
// token in the OS keychain and a small user summary on disk. The two
// records are always cleared together.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "reachly-cli"
	keyringToken   = "token"

	configDirName = "reachly"
	userFileName  = "user.json"
)

// User is the persisted session summary. Status can go stale (it changes
// server-side, e.g. pending -> approved), so authorization decisions use
// a fresh /api/auth/me fetch, not this record.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Store is the persisted session. It satisfies apiclient.SessionStore so
// the HTTP client can read the token and tear the session down on 401.
type Store interface {
	SaveToken(token string) error
	Token() (string, error)
	SaveUser(user User) error
	User() (*User, error)
	Clear() error
}

// Default is the OS-backed store used by the CLI
var Default Store = &osStore{}

// osStore keeps the token in the OS keychain and the user record under
// ~/.config/reachly/user.json
type osStore struct{}

func (s *osStore) SaveToken(token string) error {
	if err := keyring.Set(keyringService, keyringToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Token returns the stored bearer token. A missing token is not an
// error: requests proceed without the Authorization header and the
// backend rejects them if auth was required.
func (s *osStore) Token() (string, error) {
	token, err := keyring.Get(keyringService, keyringToken)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *osStore) SaveUser(user User) error {
	path, err := userPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user record: %w", err)
	}
	return nil
}

// User returns the stored user summary, or nil when not logged in
func (s *osStore) User() (*User, error) {
	path, err := userPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user record: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user record: %w", err)
	}
	return &user, nil
}

// Clear removes both the token and the user record. Used on logout and
// by the HTTP client when the backend invalidates the session.
func (s *osStore) Clear() error {
	var firstErr error

	if err := keyring.Delete(keyringService, keyringToken); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		firstErr = fmt.Errorf("failed to delete token: %w", err)
	}

	path, err := userPath()
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return firstErr
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to delete user record: %w", err)
		}
	}

	return firstErr
}

func userPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, userFileName), nil
}
