// Package workspace owns the shared resume text buffer and the operations that
// replace or edit it.
package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// ErrOriginalNotFound is returned when a suggestion's original text is not in the buffer.
var ErrOriginalNotFound = errors.New("original text not found in resume")

// Remote is the subset of the gateway the workspace calls.
type Remote interface {
	UploadResume(ctx context.Context, filename string, data []byte) (string, error)
	GenerateExampleResume(ctx context.Context) (string, error)
}

// Workspace holds the single editable resume text. Every operation that produces
// new text replaces the buffer wholesale; concurrent operations race and the last
// write wins.
type Workspace struct {
	mu       sync.RWMutex
	text     string
	remote   Remote
	onChange []func(string)
}

// New creates an empty workspace.
func New(remote Remote) *Workspace {
	return &Workspace{remote: remote}
}

// OnChange registers fn to receive the buffer after every write.
func (w *Workspace) OnChange(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Text returns the current buffer.
func (w *Workspace) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

// ExportEnabled reports whether there is anything worth exporting.
func (w *Workspace) ExportEnabled() bool {
	return strings.TrimSpace(w.Text()) != ""
}

// Edit overwrites the buffer. Always allowed.
func (w *Workspace) Edit(text string) {
	w.set(text)
}

// Clear empties the buffer.
func (w *Workspace) Clear() {
	w.set("")
}

// IsPDF reports whether a file should go to the backend for text extraction.
func IsPDF(filename string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return mimetype.Detect(data).Is("application/pdf")
}

// LoadFromFile replaces the buffer with the file's text. PDFs are extracted by
// the backend; anything else is taken as text byte-for-byte.
func (w *Workspace) LoadFromFile(ctx context.Context, filename string, data []byte) error {
	if !IsPDF(filename, data) {
		w.set(string(data))
		return nil
	}

	text, err := w.remote.UploadResume(ctx, filename, data)
	if err != nil {
		return err
	}
	w.set(text)
	return nil
}

// GenerateExample replaces the buffer with a backend-generated example resume.
func (w *Workspace) GenerateExample(ctx context.Context) error {
	text, err := w.remote.GenerateExampleResume(ctx)
	if err != nil {
		return err
	}
	w.set(text)
	return nil
}

// ApplySuggestion replaces the first occurrence of s.Original with s.Improved.
// Without an original, the improvement is appended after a blank line; applying
// such a suggestion twice appends it twice.
func (w *Workspace) ApplySuggestion(s types.Suggestion) error {
	w.mu.Lock()
	next, err := applySuggestion(w.text, s)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.text = next
	hooks := w.hooks()
	w.mu.Unlock()

	notify(hooks, next)
	return nil
}

func applySuggestion(text string, s types.Suggestion) (string, error) {
	if s.Original == nil {
		return strings.TrimSpace(text) + "\n\n" + s.Improved, nil
	}
	if !strings.Contains(text, *s.Original) {
		return text, ErrOriginalNotFound
	}
	return strings.Replace(text, *s.Original, s.Improved, 1), nil
}

func (w *Workspace) set(text string) {
	w.mu.Lock()
	w.text = text
	hooks := w.hooks()
	w.mu.Unlock()

	notify(hooks, text)
}

// hooks copies the change hooks; callers hold w.mu.
func (w *Workspace) hooks() []func(string) {
	return append([]func(string){}, w.onChange...)
}

func notify(hooks []func(string), text string) {
	for _, fn := range hooks {
		fn(text)
	}
}
