package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const sessionFileName = "session.yml"

// Session is the locally persisted login. An empty Email means logged out.
type Session struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

func (s Session) LoggedIn() bool {
	return s.Email != ""
}

// SessionStore keeps the session in a YAML file.
type SessionStore struct {
	path string
}

// DefaultSessionPath is session.yml under the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "expense-tracker", sessionFileName), nil
}

// NewSessionStore uses path, or DefaultSessionPath when path is empty.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		var err error
		if path, err = DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return &SessionStore{path: path}, nil
}

func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the stored session, or an empty one when nothing is stored.
func (s *SessionStore) Load() (Session, error) {
	v := s.viper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session %s: %w", s.path, err)
	}

	return Session{
		Email:     v.GetString("email"),
		Token:     v.GetString("token"),
		ExpiresAt: v.GetTime("expires_at"),
	}, nil
}

func (s *SessionStore) Save(session Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	v := s.viper()
	v.Set("email", session.Email)
	v.Set("token", session.Token)
	if !session.ExpiresAt.IsZero() {
		v.Set("expires_at", session.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write session %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the stored session. Clearing twice is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session %s: %w", s.path, err)
	}
	return nil
}

func (s *SessionStore) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	return v
}
