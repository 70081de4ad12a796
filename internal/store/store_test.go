package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) Store
	}{
		{name: "memory", open: func(*testing.T) Store { return NewMemory() }},
		{name: "file", open: func(t *testing.T) Store {
			s, err := Open(KindFile, t.TempDir())
			require.NoError(t, err)
			return s
		}},
		{name: "sqlite", open: func(t *testing.T) Store {
			s, err := Open(KindSQLite, t.TempDir())
			require.NoError(t, err)
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.open(t)
			defer s.Close()

			session, err := s.LoadSession()
			require.NoError(t, err)
			assert.False(t, session.Authenticated())

			require.NoError(t, s.SaveSession(types.Session{Token: "tok-1", Username: "alice"}))
			session, err = s.LoadSession()
			require.NoError(t, err)
			assert.Equal(t, types.Session{Token: "tok-1", Username: "alice"}, session)

			require.NoError(t, s.SaveSession(types.Session{Token: "tok-2", Username: "alice"}))
			session, err = s.LoadSession()
			require.NoError(t, err)
			assert.Equal(t, "tok-2", session.Token)

			require.NoError(t, s.ClearSession())
			require.NoError(t, s.ClearSession(), "clearing twice is not an error")
			session, err = s.LoadSession()
			require.NoError(t, err)
			assert.Equal(t, types.Session{}, session)

			text, err := s.LoadBuffer()
			require.NoError(t, err)
			assert.Empty(t, text)

			require.NoError(t, s.SaveBuffer("John Doe\nEngineer\n"))
			text, err = s.LoadBuffer()
			require.NoError(t, err)
			assert.Equal(t, "John Doe\nEngineer\n", text)
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SaveSession(types.Session{Token: "tok-1", Username: "alice"}))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	session, err := second.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	info, err := os.Stat(filepath.Join(dir, sessionFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SaveSession(types.Session{Token: "tok-1", Username: "alice"}))
	require.NoError(t, first.SaveBuffer("resume"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dir)
	require.NoError(t, err)
	defer second.Close()

	session, err := second.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, types.Session{Token: "tok-1", Username: "alice"}, session)

	text, err := second.LoadBuffer()
	require.NoError(t, err)
	assert.Equal(t, "resume", text)
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestFileStore_CorruptSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFile), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	_, err = s.LoadSession()
	assert.Error(t, err)
}
