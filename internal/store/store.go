// Package store persists client state between page loads and CLI runs: the
// session credential and the working resume text.
package store

import (
	"fmt"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Kinds of durable store.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Store is the durable client storage.
type Store interface {
	LoadSession() (types.Session, error)
	SaveSession(types.Session) error
	ClearSession() error
	LoadBuffer() (string, error)
	SaveBuffer(string) error
	Close() error
}

// Open opens the store of the given kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "", KindFile:
		s, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindSQLite:
		s, err := NewSQLiteStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu      sync.Mutex
	session types.Session
	buffer  string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadSession returns the persisted session, or the anonymous session if none is stored.
func (m *Memory) LoadSession() (types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

// SaveSession persists session, replacing any previous one.
func (m *Memory) SaveSession(s types.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

// ClearSession removes the persisted session.
func (m *Memory) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = types.Session{}
	return nil
}

// LoadBuffer returns the persisted resume text, or "" if none is stored.
func (m *Memory) LoadBuffer() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer, nil
}

// SaveBuffer persists the resume text.
func (m *Memory) SaveBuffer(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffer = text
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
