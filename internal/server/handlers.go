package server

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/presenter"
)

// exportFilename is the download name of the exported PDF.
const exportFilename = "optimized_resume.pdf"

// handleEditor renders the editor view.
func (s *Server) handleEditor(w http.ResponseWriter, _ *http.Request) {
	s.render(w, presenter.EditorPage, presenter.NewEditorView(s.app.Snapshot()))
}

// handleOptimized renders the optimized view.
func (s *Server) handleOptimized(w http.ResponseWriter, _ *http.Request) {
	s.render(w, presenter.OptimizedPage, presenter.NewOptimizedView(s.app.Snapshot()))
}

// handleMatchResult renders the match-result view.
func (s *Server) handleMatchResult(w http.ResponseWriter, _ *http.Request) {
	s.render(w, presenter.MatchPage, presenter.NewMatchResultView(s.app.Snapshot()))
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse is the body of GET /status.
type statusResponse struct {
	Auth          string     `json:"auth"`
	Username      string     `json:"username,omitempty"`
	Status        app.Status `json:"status"`
	Inflight      []string   `json:"inflight"`
	ExportEnabled bool       `json:"export_enabled"`
}

// handleStatus reports auth state, in-flight operations and the last status message.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.app.Snapshot()
	inflight := make([]string, 0, len(snap.Inflight))
	for _, op := range snap.Inflight {
		inflight = append(inflight, string(op))
	}
	s.jsonResponse(w, http.StatusOK, statusResponse{
		Auth:          string(snap.Auth),
		Username:      snap.Username,
		Status:        snap.Status,
		Inflight:      inflight,
		ExportEnabled: strings.TrimSpace(snap.Text) != "",
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	_ = s.app.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	redirect(w, r, "/")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	_ = s.app.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	redirect(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Logout(r.Context())
	redirect(w, r, "/")
}

// handleUpload loads a multipart "file" into the buffer.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, &ErrValidation{Field: "file", Message: "a resume file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "file", Message: "upload could not be read"})
		return
	}

	_ = s.app.LoadFile(r.Context(), header.Filename, data)
	redirect(w, r, "/")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	_ = s.app.Generate(r.Context())
	redirect(w, r, "/")
}

// handleEdit overwrites the buffer with the textarea contents.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, &ErrValidation{Field: "text", Message: err.Error()})
		return
	}
	// Browsers submit textarea line breaks as CRLF.
	s.app.Edit(strings.ReplaceAll(r.PostForm.Get("text"), "\r\n", "\n"))
	redirect(w, r, "/")
}

// handleOptimize lands on the optimized view on success and stays on the editor otherwise.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Optimize(r.Context()); err != nil {
		redirect(w, r, "/")
		return
	}
	redirect(w, r, "/optimized")
}

// handleApply applies the suggestion at category/index and returns to the optimized view.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	category, err := strconv.Atoi(r.FormValue("category"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "category", Message: "must be an integer"})
		return
	}
	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "index", Message: "must be an integer"})
		return
	}

	_ = s.app.ApplySuggestion(category, index)
	redirect(w, r, "/optimized")
}

// handleUseOptimized copies the optimized text into the editor.
func (s *Server) handleUseOptimized(w http.ResponseWriter, r *http.Request) {
	if err := s.app.UseOptimized(); err != nil {
		redirect(w, r, "/optimized")
		return
	}
	redirect(w, r, "/")
}

// handleExport streams the PDF as a download, or returns to the editor with a status.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.app.Export(r.Context())
	if err != nil {
		redirect(w, r, "/")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[server] failed to write PDF: %v", err)
	}
}

// handleMatch lands on the match-result view on success.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	persist, _ := strconv.ParseBool(r.FormValue("persist"))
	if _, err := s.app.MatchJobs(r.Context(), persist); err != nil {
		redirect(w, r, "/")
		return
	}
	redirect(w, r, "/match-result")
}

// render writes an HTML page.
func (s *Server) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, page, data); err != nil {
		log.Printf("[server] %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// fail answers a request that cannot be turned into a status message.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// redirect sends the browser to the view the flow lands on.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
