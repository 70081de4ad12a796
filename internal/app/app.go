// Package app is the process-wide controller. It wires the session manager, the
// workspace buffer and the backend gateway together and turns every failure into
// a user-visible status.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/session"
	"github.com/jonathan/resume-optimizer/internal/store"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/workspace"
)

// ErrEmptyResume is returned by operations that need resume text when the buffer is blank.
var ErrEmptyResume = errors.New("resume is empty")

// ErrNoSuchSuggestion is returned when an apply refers to a suggestion that does not exist.
var ErrNoSuchSuggestion = errors.New("no such suggestion")

// ErrNotOptimized is returned by UseOptimized before any optimize has succeeded.
var ErrNotOptimized = errors.New("no optimized resume")

// Options configures an App.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	// Store persists the session and the buffer. An in-memory store is used if nil.
	Store store.Store
	// RequireAuth refuses backend operations while anonymous instead of sending
	// them without a credential.
	RequireAuth bool
}

// App holds the state shared by every view and command.
type App struct {
	session     *session.Manager
	workspace   *workspace.Workspace
	client      *gateway.Client
	store       store.Store
	requireAuth bool

	mu           sync.RWMutex
	suggestions  types.SuggestionSet
	optimized    string
	hasOptimized bool
	match        *types.MatchResult
	status       Status
}

// New builds the controller and restores any persisted session and buffer.
func New(opts Options) (*App, error) {
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}

	manager := session.NewManager(st)
	client, err := gateway.New(gateway.Options{
		BaseURL:        opts.BaseURL,
		Timeout:        opts.Timeout,
		UserAgent:      opts.UserAgent,
		HTTPClient:     opts.HTTPClient,
		Token:          manager.Token,
		OnUnauthorized: manager.HandleUnauthorized,
	})
	if err != nil {
		return nil, err
	}
	manager.Bind(client)

	a := &App{
		session:     manager,
		workspace:   workspace.New(client),
		client:      client,
		store:       st,
		requireAuth: opts.RequireAuth,
	}

	_, err = manager.Restore()
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		// An expired token is a forced logout; the previous user's text goes with it.
		if err := st.SaveBuffer(""); err != nil {
			log.Printf("[app] failed to clear resume buffer: %v", err)
		}
		a.status = Status{Kind: StatusReauth, Message: ReauthMessage}
	default:
		if err != nil {
			log.Printf("[app] failed to restore session: %v", err)
		}
		if text, err := st.LoadBuffer(); err != nil {
			log.Printf("[app] failed to restore resume buffer: %v", err)
		} else {
			a.workspace.Edit(text)
		}
	}

	a.workspace.OnChange(func(text string) {
		if err := st.SaveBuffer(text); err != nil {
			log.Printf("[app] failed to persist resume buffer: %v", err)
		}
	})
	manager.OnReset(func() {
		a.workspace.Clear()
		a.resetResults()
	})

	return a, nil
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}

// Session returns the session manager.
func (a *App) Session() *session.Manager {
	return a.session
}

// Workspace returns the resume buffer.
func (a *App) Workspace() *workspace.Workspace {
	return a.workspace
}

// Busy reports whether op is currently in flight.
func (a *App) Busy(op gateway.Operation) bool {
	return a.client.Inflight().Busy(op)
}

// Status returns the last status message.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Snapshot is a consistent read of everything the views render.
type Snapshot struct {
	Auth         types.AuthState
	Username     string
	Text         string
	Suggestions  types.SuggestionSet
	Optimized    string
	HasOptimized bool
	Match        *types.MatchResult
	Status       Status
	Inflight     []gateway.Operation
}

// Snapshot copies the current state.
func (a *App) Snapshot() Snapshot {
	s := a.session.Session()
	snap := Snapshot{
		Auth:     a.session.State(),
		Username: s.Username,
		Text:     a.workspace.Text(),
		Inflight: a.client.Inflight().Snapshot(),
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	snap.Suggestions = a.suggestions
	snap.Optimized = a.optimized
	snap.HasOptimized = a.hasOptimized
	snap.Match = a.match
	snap.Status = a.status
	return snap
}

// Register creates an account.
func (a *App) Register(ctx context.Context, username, password string) error {
	if err := a.session.Register(ctx, username, password); err != nil {
		return a.fail(gateway.OpRegister, err)
	}
	a.setStatus(StatusSuccess, "Account created. Please log in.")
	return nil
}

// Login authenticates and stores the session.
func (a *App) Login(ctx context.Context, username, password string) error {
	sess, err := a.session.Login(ctx, username, password)
	if err != nil {
		return a.fail(gateway.OpLogin, err)
	}
	a.setStatus(StatusSuccess, fmt.Sprintf("Logged in as %s.", sess.Username))
	return nil
}

// Logout ends the session. It cannot fail.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.setStatus(StatusInfo, "Logged out.")
}

// LoadFile replaces the buffer with the contents of an uploaded file.
func (a *App) LoadFile(ctx context.Context, filename string, data []byte) error {
	if workspace.IsPDF(filename, data) {
		if err := a.authorize(); err != nil {
			return a.fail(gateway.OpUpload, err)
		}
	}
	if err := a.workspace.LoadFromFile(ctx, filename, data); err != nil {
		return a.fail(gateway.OpUpload, err)
	}
	a.setStatus(StatusSuccess, fmt.Sprintf("Loaded %s.", filename))
	return nil
}

// Generate replaces the buffer with a backend-generated example resume.
func (a *App) Generate(ctx context.Context) error {
	if err := a.authorize(); err != nil {
		return a.fail(gateway.OpGenerate, err)
	}
	if err := a.workspace.GenerateExample(ctx); err != nil {
		return a.fail(gateway.OpGenerate, err)
	}
	a.setStatus(StatusSuccess, "Generated an example resume.")
	return nil
}

// Edit overwrites the buffer.
func (a *App) Edit(text string) {
	a.workspace.Edit(text)
}

// Optimize sends the buffer for optimization and keeps the optimized text and
// the suggestions for the optimized view. The buffer keeps the text that was
// sent, since suggestions refer to it; UseOptimized copies the rewrite over.
func (a *App) Optimize(ctx context.Context) error {
	text, err := a.requireText(gateway.OpOptimize)
	if err != nil {
		return err
	}

	result, err := a.client.OptimizeResume(ctx, text)
	if err != nil {
		return a.fail(gateway.OpOptimize, err)
	}

	a.mu.Lock()
	a.suggestions = result.Suggestions
	a.optimized = result.OptimizedText
	a.hasOptimized = true
	a.mu.Unlock()

	a.setStatus(StatusSuccess, fmt.Sprintf("Resume optimized with %d suggestions.", result.Suggestions.Len()))
	return nil
}

// UseOptimized replaces the buffer with the optimized text of the last optimize.
func (a *App) UseOptimized() error {
	a.mu.RLock()
	text, ok := a.optimized, a.hasOptimized
	a.mu.RUnlock()
	if !ok {
		return a.fail("use optimized", ErrNotOptimized)
	}
	a.workspace.Edit(text)
	a.setStatus(StatusSuccess, "Optimized version loaded into the editor.")
	return nil
}

// Suggestions returns the suggestions from the last optimize.
func (a *App) Suggestions() types.SuggestionSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.suggestions
}

// ApplySuggestion applies the item at index within category to the buffer.
func (a *App) ApplySuggestion(category, index int) error {
	a.mu.RLock()
	s, ok := a.suggestions.Lookup(category, index)
	a.mu.RUnlock()
	if !ok {
		return a.fail("apply", fmt.Errorf("%w: category %d item %d", ErrNoSuchSuggestion, category, index))
	}
	return a.Apply(s)
}

// Apply applies s to the buffer.
func (a *App) Apply(s types.Suggestion) error {
	if err := a.workspace.ApplySuggestion(s); err != nil {
		return a.fail("apply", err)
	}
	a.setStatus(StatusSuccess, "Suggestion applied.")
	return nil
}

// Export renders the buffer to PDF.
func (a *App) Export(ctx context.Context) ([]byte, error) {
	text, err := a.requireText(gateway.OpExport)
	if err != nil {
		return nil, err
	}

	pdf, err := a.client.ExportResume(ctx, text)
	if err != nil {
		return nil, a.fail(gateway.OpExport, err)
	}
	a.setStatus(StatusSuccess, "PDF ready.")
	return pdf, nil
}

// MatchJobs finds postings that fit the buffer. When persist is set the backend
// stores the results.
func (a *App) MatchJobs(ctx context.Context, persist bool) (*types.MatchResult, error) {
	text, err := a.requireText(gateway.OpMatch)
	if err != nil {
		return nil, err
	}

	result, err := a.client.MatchJobs(ctx, text, persist)
	if err != nil {
		return nil, a.fail(gateway.OpMatch, err)
	}

	a.mu.Lock()
	a.match = result
	a.mu.Unlock()
	a.setStatus(StatusSuccess, fmt.Sprintf("Found %d matching jobs.", len(result.Jobs)))
	return result, nil
}

// Match returns the last match result, or nil.
func (a *App) Match() *types.MatchResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.match
}

// requireText checks auth and a non-blank buffer before a text-consuming call.
func (a *App) requireText(op gateway.Operation) (string, error) {
	if err := a.authorize(); err != nil {
		return "", a.fail(op, err)
	}
	text := a.workspace.Text()
	if strings.TrimSpace(text) == "" {
		return "", a.fail(op, ErrEmptyResume)
	}
	return text, nil
}

// authorize enforces RequireAuth.
func (a *App) authorize() error {
	if !a.requireAuth || a.session.State() == types.StateAuthenticated {
		return nil
	}
	return &gateway.AuthError{Message: "login required"}
}

// fail records the status for err and returns err unchanged.
func (a *App) fail(op gateway.Operation, err error) error {
	status := StatusFor(op, err)
	log.Printf("[app] %s failed: %v", op, err)
	a.mu.Lock()
	a.status = status
	a.mu.Unlock()
	return err
}

func (a *App) setStatus(kind StatusKind, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = Status{Kind: kind, Message: message}
}

// resetResults drops everything derived from the previous session.
func (a *App) resetResults() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suggestions = types.SuggestionSet{}
	a.optimized = ""
	a.hasOptimized = false
	a.match = nil
}
