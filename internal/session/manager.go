// Package session owns the credential lifecycle: login, registration, logout,
// persistence of the token and the forced logout that follows any 401.
package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/types"
	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned by Restore when the persisted token had already
// expired. The stored session has been cleared; callers treat it as a forced logout.
var ErrSessionExpired = errors.New("stored session expired")

// Store is the durable storage the manager persists the session to.
type Store interface {
	LoadSession() (types.Session, error)
	SaveSession(types.Session) error
	ClearSession() error
}

// Authenticator performs the remote auth calls.
type Authenticator interface {
	Register(ctx context.Context, creds types.Credentials) error
	Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error)
	Logout(ctx context.Context) error
}

// Manager holds the process-wide session.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	auth    Authenticator
	session types.Session
	state   types.AuthState
	resets  []func()
	group   singleflight.Group
}

// NewManager creates an anonymous manager backed by store. The authenticator is
// bound separately because the gateway needs the manager's Token first.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		state: types.StateAnonymous,
	}
}

// Bind sets the authenticator used for remote auth calls.
func (m *Manager) Bind(auth Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// OnReset registers fn to run whenever the session ends, by logout or by a 401.
func (m *Manager) OnReset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, fn)
}

// Token returns the bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// Session returns a copy of the current session.
func (m *Manager) Session() types.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// State returns the current node of the auth state machine.
func (m *Manager) State() types.AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Restore loads a persisted session. A JWT that has already expired is dropped
// and reported as ErrSessionExpired.
func (m *Manager) Restore() (types.Session, error) {
	session, err := m.store.LoadSession()
	if err != nil {
		return types.Session{}, err
	}
	if !session.Authenticated() {
		return types.Session{}, nil
	}

	if claims, ok := ParseClaims(session.Token); ok && claims.Expired() {
		log.Printf("[session] stored token for %s expired at %s, discarding", session.Username, claims.ExpiresAt)
		if err := m.store.ClearSession(); err != nil {
			log.Printf("[session] failed to clear expired session: %v", err)
		}
		return types.Session{}, ErrSessionExpired
	}

	m.mu.Lock()
	m.session = session
	m.state = types.StateAuthenticated
	m.mu.Unlock()
	return session, nil
}

// Register creates an account. On success the caller should present the login flow.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	creds := types.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return &gateway.AuthError{Message: "invalid registration details", Cause: err}
	}
	return m.authenticator().Register(ctx, creds)
}

// Login authenticates and persists the returned token.
func (m *Manager) Login(ctx context.Context, username, password string) (types.Session, error) {
	creds := types.Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return types.Session{}, &gateway.AuthError{Message: "invalid login details", Cause: err}
	}

	m.mu.Lock()
	m.state = types.StateAuthenticating
	m.mu.Unlock()

	resp, err := m.authenticator().Login(ctx, creds)
	if err != nil {
		m.mu.Lock()
		if m.session.Authenticated() {
			m.state = types.StateAuthenticated
		} else {
			m.state = types.StateAnonymous
		}
		m.mu.Unlock()
		return types.Session{}, err
	}

	session := types.Session{Token: resp.AccessToken, Username: username}
	m.mu.Lock()
	m.session = session
	m.state = types.StateAuthenticated
	m.mu.Unlock()

	if err := m.store.SaveSession(session); err != nil {
		log.Printf("[session] failed to persist session for %s: %v", username, err)
	}
	log.Printf("[session] %s logged in", username)
	return session, nil
}

// Logout invalidates the token remotely on a best-effort basis and then always
// clears the local session and resets the workspace.
func (m *Manager) Logout(ctx context.Context) {
	if m.Token() != "" {
		if err := m.authenticator().Logout(ctx); err != nil {
			log.Printf("[session] remote logout failed (ignored): %v", err)
		}
	}
	m.clear()
}

// HandleUnauthorized forces a logout without contacting the backend. Concurrent
// 401s collapse into a single reset.
func (m *Manager) HandleUnauthorized() {
	_, _, _ = m.group.Do("unauthorized", func() (any, error) {
		log.Printf("[session] backend rejected credentials, logging out")
		m.clear()
		return nil, nil
	})
}

// clear drops the session in memory and in the store, then runs reset hooks.
func (m *Manager) clear() {
	m.mu.Lock()
	m.session = types.Session{}
	m.state = types.StateAnonymous
	resets := append([]func(){}, m.resets...)
	m.mu.Unlock()

	if err := m.store.ClearSession(); err != nil {
		log.Printf("[session] failed to clear persisted session: %v", err)
	}
	for _, fn := range resets {
		fn()
	}
}

func (m *Manager) authenticator() Authenticator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.auth
}
