package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	sessionFile = "session.json"
	bufferFile  = "resume.txt"
)

// FileStore keeps the session as JSON and the buffer as plain text in one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadSession returns the persisted session, or the anonymous session if none is stored.
func (s *FileStore) LoadSession() (types.Session, error) {
	var session types.Session
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if os.IsNotExist(err) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return types.Session{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return session, nil
}

// SaveSession persists session, replacing any previous one.
func (s *FileStore) SaveSession(session types.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.dir, sessionFile), data)
}

// ClearSession removes the persisted session.
func (s *FileStore) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// LoadBuffer returns the persisted resume text, or "" if none is stored.
func (s *FileStore) LoadBuffer() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, bufferFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read resume buffer: %w", err)
	}
	return string(data), nil
}

// SaveBuffer persists the resume text.
func (s *FileStore) SaveBuffer(text string) error {
	return writeFileAtomic(filepath.Join(s.dir, bufferFile), []byte(text))
}

// Close is a no-op; the file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// writeFileAtomic writes via a temp file so a crash never leaves a torn file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
