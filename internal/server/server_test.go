package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-optimizer/internal/app"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePDF = "%PDF-1.4\n%%EOF"

// newBackend fakes the optimizer API. Setting revoked makes every call return 401.
func newBackend(t *testing.T, revoked *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{})
	})
	mux.HandleFunc("GET /create-resume", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"New resume: ": "Jane Doe"})
	})
	mux.HandleFunc("POST /optimize-resume", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, map[string]any{
			"optimized_resume": strings.Replace(body.Text, "Engineer", "Senior Engineer", 1),
			"suggestions": map[string]any{
				"Experience": []map[string]string{{"original": "Engineer", "improved": "Senior Engineer"}},
			},
		})
	})
	mux.HandleFunc("POST /export-resume", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePDF))
	})
	mux.HandleFunc("POST /match-jobs/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"jobs":     []map[string]any{{"title": "Backend Dev", "organization": "Acme", "location": nil, "url": "https://acme.example/1"}},
			"keywords": []string{"go", "sql"},
		})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if revoked != nil && revoked.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"detail": "Not authenticated"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, backend *httptest.Server, rl ratelimit.Config) *Server {
	t.Helper()
	a, err := app.New(app.Options{BaseURL: backend.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	s, err := New(a, Config{Host: "127.0.0.1", Port: 0, RateLimit: rl})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(t *testing.T, s *Server, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func page(t *testing.T, s *Server, path string) *goquery.Document {
	t.Helper()
	rec := do(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func exportDisabled(doc *goquery.Document) bool {
	_, disabled := doc.Find("#export-form button").Attr("disabled")
	return disabled
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEditor_ExportEnabledFollowsBuffer(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})

	assert.True(t, exportDisabled(page(t, s, "/")))

	rec := do(t, s, http.MethodPost, "/edit", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, exportDisabled(page(t, s, "/")))

	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"John Doe\r\nEngineer"}})
	doc := page(t, s, "/")
	assert.False(t, exportDisabled(doc))
	assert.Equal(t, "John Doe\nEngineer", doc.Find("#resume-text").Text())
}

func TestOptimizeApplyExport(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})

	rec := do(t, s, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"John Doe\nEngineer"}})

	rec = do(t, s, http.MethodPost, "/optimize", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/optimized", rec.Header().Get("Location"))

	doc := page(t, s, "/optimized")
	assert.Equal(t, 1, doc.Find(".suggestion").Length())
	assert.Equal(t, "Senior Engineer", doc.Find(".suggestion .improved").Text())
	assert.Equal(t, "John Doe\nSenior Engineer", doc.Find("#optimized-text").Text())
	assert.Equal(t, "John Doe\nEngineer", doc.Find("#resume-text").Text())

	rec = do(t, s, http.MethodPost, "/apply", url.Values{"category": {"0"}, "index": {"0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/optimized", rec.Header().Get("Location"))
	assert.Equal(t, "John Doe\nSenior Engineer", s.app.Workspace().Text())

	rec = do(t, s, http.MethodPost, "/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="optimized_resume.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, samplePDF, rec.Body.String())
}

func TestUseOptimized(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})

	rec := do(t, s, http.MethodPost, "/use-optimized", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/optimized", rec.Header().Get("Location"))

	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"John Doe\nEngineer"}})
	do(t, s, http.MethodPost, "/optimize", nil)

	rec = do(t, s, http.MethodPost, "/use-optimized", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	doc := page(t, s, "/")
	assert.Equal(t, "John Doe\nSenior Engineer", doc.Find("#resume-text").Text())
}

func TestUnauthorizedPromptsLogin(t *testing.T) {
	var revoked atomic.Bool
	s := newTestServer(t, newBackend(t, &revoked), ratelimit.Config{})

	do(t, s, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"John Doe"}})
	revoked.Store(true)

	rec := do(t, s, http.MethodPost, "/optimize", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	doc := page(t, s, "/")
	assert.Equal(t, app.ReauthMessage, doc.Find(".status-reauth").Text())
	assert.Equal(t, 1, doc.Find("form.login").Length())
	assert.Empty(t, doc.Find("#resume-text").Text())
	assert.True(t, exportDisabled(doc))
}

func TestExportFailureReturnsToEditor(t *testing.T) {
	var revoked atomic.Bool
	s := newTestServer(t, newBackend(t, &revoked), ratelimit.Config{})

	rec := do(t, s, http.MethodPost, "/export", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, app.StatusInfo, s.app.Status().Kind)
}

func TestMatchResult(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})
	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"Go developer"}})

	rec := do(t, s, http.MethodPost, "/match", url.Values{"persist": {"true"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/match-result", rec.Header().Get("Location"))

	doc := page(t, s, "/match-result")
	require.Equal(t, 1, doc.Find(".job-card").Length())
	href, _ := doc.Find(".job-card a.job-link").Attr("href")
	assert.Equal(t, "https://acme.example/1", href)
	assert.Equal(t, "gosql", doc.Find(".keyword").Text())
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Plain text resume\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Plain text resume\n", s.app.Workspace().Text())
}

func TestUpload_MissingFile(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})
	rec := do(t, s, http.MethodPost, "/upload", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApply_InvalidIndex(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})

	rec := do(t, s, http.MethodPost, "/apply", url.Values{"category": {"x"}, "index": {"0"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category")

	rec = do(t, s, http.MethodPost, "/apply", url.Values{"category": {"3"}, "index": {"0"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, s.app.Status().IsError())
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.Config{})
	do(t, s, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})
	do(t, s, http.MethodPost, "/edit", url.Values{"text": {"John"}})

	rec := do(t, s, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "authenticated", got.Auth)
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, got.Inflight)
	assert.True(t, got.ExportEnabled)
}

func TestRateLimitOnBackendRoutes(t *testing.T) {
	s := newTestServer(t, newBackend(t, nil), ratelimit.DefaultConfig(1, 1))

	rec := do(t, s, http.MethodPost, "/generate", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = do(t, s, http.MethodPost, "/generate", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// Views and edits are never throttled.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/", nil).Code)
		assert.Equal(t, http.StatusSeeOther, do(t, s, http.MethodPost, "/edit", url.Values{"text": {"x"}}).Code)
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "file", Message: "missing"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
