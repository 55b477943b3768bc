package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the CLI session in a YAML file in the operator's home.
type FileStore struct {
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session file: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	// the file holds a bearer token
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Token returns the saved token. A missing or expired session yields an
// empty token so the request goes out unauthenticated.
func (f *FileStore) Token(context.Context) (string, error) {
	s, err := f.Load()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if s.Expired(f.now()) {
		return "", nil
	}
	return s.Token, nil
}
