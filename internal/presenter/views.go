// Package presenter turns controller snapshots into the three console views and
// the terminal output of the CLI.
package presenter

import (
	"strings"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/gateway"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Control is a button whose availability depends on the buffer and in-flight calls.
type Control struct {
	Label    string
	Disabled bool
	Busy     bool
}

// Page carries what every view renders around its content.
type Page struct {
	Title    string
	LoggedIn bool
	Username string
	Status   app.Status
}

// EditorView is the main editing screen.
type EditorView struct {
	Page
	Text     string
	Upload   Control
	Generate Control
	Optimize Control
	Export   Control
	Match    Control
}

// SuggestionView is one suggestion with the indexes the apply form posts back.
type SuggestionView struct {
	Category    int
	Index       int
	Original    string
	HasOriginal bool
	Improved    string
}

// CategoryView groups suggestions under a heading.
type CategoryView struct {
	Name  string
	Items []SuggestionView
}

// OptimizedView shows the optimized resume and its suggestions.
type OptimizedView struct {
	Page
	HasResult     bool
	OptimizedText string
	Text          string
	Categories    []CategoryView
	UseOptimized  Control
	Export        Control
}

// JobView is one job card. Empty fields are omitted when rendered.
type JobView struct {
	Title        string
	Organization string
	Location     string
	URL          string
}

// MatchResultView lists matched jobs and the extracted keywords.
type MatchResultView struct {
	Page
	HasResult bool
	Jobs      []JobView
	Keywords  []string
}

// hasText is the rule every buffer-consuming control follows.
func hasText(text string) bool {
	return strings.TrimSpace(text) != ""
}

func newPage(title string, snap app.Snapshot) Page {
	return Page{
		Title:    title,
		LoggedIn: snap.Auth == types.StateAuthenticated,
		Username: snap.Username,
		Status:   snap.Status,
	}
}

func busy(snap app.Snapshot, op gateway.Operation) bool {
	for _, o := range snap.Inflight {
		if o == op {
			return true
		}
	}
	return false
}

// control builds a button. Buffer-dependent controls are disabled exactly when
// the buffer is blank.
func control(snap app.Snapshot, op gateway.Operation, idle, loading string, needsText bool) Control {
	c := Control{Label: idle, Busy: busy(snap, op)}
	if c.Busy {
		c.Label = loading
	}
	if needsText {
		c.Disabled = !hasText(snap.Text)
	}
	return c
}

// NewEditorView builds the editor screen.
func NewEditorView(snap app.Snapshot) EditorView {
	return EditorView{
		Page:     newPage("Resume Optimizer", snap),
		Text:     snap.Text,
		Upload:   control(snap, gateway.OpUpload, "Upload", "Uploading...", false),
		Generate: control(snap, gateway.OpGenerate, "Generate example", "Generating...", false),
		Optimize: control(snap, gateway.OpOptimize, "Optimize", "Optimizing...", true),
		Export:   control(snap, gateway.OpExport, "Download PDF", "Exporting...", true),
		Match:    control(snap, gateway.OpMatch, "Find matching jobs", "Matching...", true),
	}
}

// NewOptimizedView builds the optimized screen from the last optimize result.
func NewOptimizedView(snap app.Snapshot) OptimizedView {
	v := OptimizedView{
		Page:          newPage("Optimized Resume", snap),
		HasResult:     snap.HasOptimized,
		OptimizedText: snap.Optimized,
		Text:          snap.Text,
		UseOptimized:  Control{Label: "Use optimized version", Disabled: !hasText(snap.Optimized)},
		Export:        control(snap, gateway.OpExport, "Download PDF", "Exporting...", true),
	}
	for ci, cat := range snap.Suggestions.Categories {
		cv := CategoryView{Name: cat.Name}
		for ii, s := range cat.Items {
			cv.Items = append(cv.Items, SuggestionView{
				Category:    ci,
				Index:       ii,
				Original:    types.Deref(s.Original),
				HasOriginal: s.Original != nil,
				Improved:    s.Improved,
			})
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

// NewMatchResultView builds the match screen from the last match result.
func NewMatchResultView(snap app.Snapshot) MatchResultView {
	v := MatchResultView{Page: newPage("Matching Jobs", snap)}
	if snap.Match == nil {
		return v
	}
	v.HasResult = true
	v.Keywords = snap.Match.Keywords
	for _, job := range snap.Match.Jobs {
		v.Jobs = append(v.Jobs, JobView{
			Title:        types.Deref(job.Title),
			Organization: types.Deref(job.Organization),
			Location:     types.Deref(job.Location),
			URL:          types.Deref(job.URL),
		})
	}
	return v
}
