package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-optimizer/internal/types"

	_ "modernc.org/sqlite"
)

// sqliteFile is the database file name inside the state directory.
const sqliteFile = "client.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	token TEXT NOT NULL,
	username TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS workspace (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	text TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps client state in single-row tables of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) client.db under dir.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// One connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// LoadSession returns the persisted session, or the anonymous session if none is stored.
func (s *SQLiteStore) LoadSession() (types.Session, error) {
	var session types.Session
	err := s.db.QueryRow(`SELECT token, username FROM session WHERE id = 1`).Scan(&session.Token, &session.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Session{}, nil
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// SaveSession persists session, replacing any previous one.
func (s *SQLiteStore) SaveSession(session types.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, username, updated_at) VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, username = excluded.username, updated_at = CURRENT_TIMESTAMP
	`, session.Token, session.Username)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted session.
func (s *SQLiteStore) ClearSession() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// LoadBuffer returns the persisted resume text, or "" if none is stored.
func (s *SQLiteStore) LoadBuffer() (string, error) {
	var text string
	err := s.db.QueryRow(`SELECT text FROM workspace WHERE id = 1`).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load resume buffer: %w", err)
	}
	return text, nil
}

// SaveBuffer persists the resume text.
func (s *SQLiteStore) SaveBuffer(text string) error {
	_, err := s.db.Exec(`
		INSERT INTO workspace (id, text, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, updated_at = CURRENT_TIMESTAMP
	`, text)
	if err != nil {
		return fmt.Errorf("failed to save resume buffer: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
